package tui

import (
	"strings"

	"github.com/stefanpenner/prism/pkg/tracker"
)

// TreeItem is a flattened view of one tree node for rendering.
type TreeItem struct {
	Item        *tracker.Item
	Path        string // slug path, also the expand-state key
	Depth       int
	HasChildren bool
	IsExpanded  bool
}

// FlattenVisibleItems returns the visible rows of the tree in display
// order, honoring the expand state. Phases and milestones default to
// expanded the first time they are seen; deeper levels start collapsed.
func FlattenVisibleItems(p *tracker.Project, expanded map[string]bool) []TreeItem {
	var result []TreeItem
	flattenItems(p.Phases, 0, "", expanded, &result)
	return result
}

func flattenItems(items []*tracker.Item, depth int, prefix string, expanded map[string]bool, result *[]TreeItem) {
	for _, it := range items {
		path := it.Slug
		if prefix != "" {
			path = prefix + tracker.PathSeparator + it.Slug
		}

		open, known := expanded[path]
		if !known {
			open = it.Kind == tracker.KindPhase || it.Kind == tracker.KindMilestone
			expanded[path] = open
		}

		*result = append(*result, TreeItem{
			Item:        it,
			Path:        path,
			Depth:       depth,
			HasChildren: len(it.Children) > 0,
			IsExpanded:  open,
		})

		if open {
			flattenItems(it.Children, depth+1, path, expanded, result)
		}
	}
}

// FilterItems keeps rows whose name or slug contains the query
// (case-insensitive) plus their ancestors for context.
func FilterItems(items []TreeItem, query string) []TreeItem {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)

	keep := make(map[string]bool)
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Item.Name), q) ||
			strings.Contains(strings.ToLower(it.Item.Slug), q) {
			keep[it.Path] = true
			// Mark every ancestor path too.
			for p := it.Path; p != ""; {
				idx := strings.LastIndex(p, tracker.PathSeparator)
				if idx < 0 {
					break
				}
				p = p[:idx]
				keep[p] = true
			}
		}
	}

	var result []TreeItem
	for _, it := range items {
		if keep[it.Path] {
			result = append(result, it)
		}
	}
	return result
}
