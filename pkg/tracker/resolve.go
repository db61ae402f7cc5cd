package tracker

import (
	"strconv"
	"strings"
)

// PathSeparator splits path segments in CLI input.
const PathSeparator = "/"

// Resolve maps a path of slash-separated segments to an item. Each
// segment is either a 1-based index into the siblings at that level or
// a slug matched case-sensitively. Index and slug segments can be mixed
// in one path. The empty path addresses the project root; Resolve
// returns (nil, nil) for it, and callers that cannot act on the root
// must treat a nil item accordingly.
//
// Sibling order is insertion order; nothing ever reorders it, so a
// given path keeps resolving to the same item until a delete occurs.
func (p *Project) Resolve(path string) (*Item, error) {
	if path == "" {
		return nil, nil
	}

	siblings := p.Phases
	var current *Item
	segments := strings.Split(path, PathSeparator)

	for i, segment := range segments {
		if segment == "" {
			return nil, &InvalidPathError{Path: path, Reason: "empty segment"}
		}
		if current != nil && current.Kind == KindAction {
			return nil, &InvalidPathError{Path: path, Reason: "path continues past an action"}
		}

		prefix := strings.Join(segments[:i], PathSeparator)
		found, err := resolveSegment(siblings, segment, prefix)
		if err != nil {
			return nil, err
		}

		current = found
		siblings = found.Children
	}

	return current, nil
}

func resolveSegment(siblings []*Item, segment, prefix string) (*Item, error) {
	if n, err := strconv.Atoi(segment); err == nil {
		if n < 1 {
			return nil, &InvalidPathError{Path: join(prefix, segment), Reason: "index must be 1 or greater"}
		}
		if n > len(siblings) {
			return nil, &OutOfRangeError{Path: prefix, Index: n, Count: len(siblings)}
		}
		return siblings[n-1], nil
	}

	for _, it := range siblings {
		if it.Slug == segment {
			return it, nil
		}
	}
	return nil, &NotFoundError{Path: prefix, Segment: segment}
}

// PathOf returns the slug path of an item from the root, or "" if the
// item is not in the tree.
func (p *Project) PathOf(target *Item) string {
	var walk func(items []*Item, prefix string) string
	walk = func(items []*Item, prefix string) string {
		for _, it := range items {
			path := join(prefix, it.Slug)
			if it == target {
				return path
			}
			if found := walk(it.Children, path); found != "" {
				return found
			}
		}
		return ""
	}
	return walk(p.Phases, "")
}

func join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + PathSeparator + segment
}
