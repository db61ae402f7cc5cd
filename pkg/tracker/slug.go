package tracker

import (
	"strconv"
	"strings"
)

// SlugRules controls how item names become slugs.
type SlugRules struct {
	MaxLength   int
	WordLimit   int
	FillerWords []string
}

// DefaultSlugRules returns the stock slug derivation rules: at most 15
// characters, built from the first 3 non-filler words of the name.
func DefaultSlugRules() SlugRules {
	return SlugRules{
		MaxLength: 15,
		WordLimit: 3,
		FillerWords: []string{
			"a", "an", "and", "as", "at", "by", "for", "from", "if", "in",
			"into", "of", "on", "or", "the", "to", "with",
		},
	}
}

// Slugify derives a slug from a human name: lowercase, filler words
// dropped, first WordLimit words joined with hyphens, non-alphanumeric
// runs collapsed, truncated to MaxLength. Never returns "".
func (r SlugRules) Slugify(name string) string {
	filler := make(map[string]bool, len(r.FillerWords))
	for _, w := range r.FillerWords {
		filler[w] = true
	}

	words := strings.Fields(strings.ToLower(name))
	kept := make([]string, 0, r.WordLimit)
	for _, w := range words {
		if filler[w] {
			continue
		}
		kept = append(kept, w)
		if len(kept) == r.WordLimit {
			break
		}
	}
	// If every word was filler, fall back to the raw words.
	if len(kept) == 0 {
		if len(words) > r.WordLimit {
			words = words[:r.WordLimit]
		}
		kept = words
	}

	slug := sanitize(strings.Join(kept, "-"))
	if len(slug) > r.MaxLength {
		slug = strings.TrimRight(slug[:r.MaxLength], "-")
	}
	if slug == "" {
		slug = "item"
	}
	return slug
}

// Unique derives a slug from name that does not collide with any
// sibling's slug, suffixing -1, -2, ... when needed.
func (r SlugRules) Unique(siblings []*Item, name string) string {
	taken := make(map[string]bool, len(siblings))
	for _, s := range siblings {
		taken[s.Slug] = true
	}

	base := r.Slugify(name)
	slug := base
	for n := 1; taken[slug]; n++ {
		suffix := "-" + strconv.Itoa(n)
		trimmed := base
		if len(trimmed)+len(suffix) > r.MaxLength {
			// Keep at least one base character even when MaxLength
			// cannot fit the suffix; uniqueness wins over length.
			cut := r.MaxLength - len(suffix)
			if cut < 1 {
				cut = 1
			}
			if len(trimmed) > cut {
				trimmed = strings.TrimRight(trimmed[:cut], "-")
			}
		}
		slug = trimmed + suffix
	}
	return slug
}

// sanitize collapses anything outside [a-z0-9-] into single hyphens and
// trims leading/trailing hyphens.
func sanitize(s string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
