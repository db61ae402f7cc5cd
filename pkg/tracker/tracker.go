// Package tracker models project work as a five-level hierarchy
// (phase → milestone → objective → deliverable → action) and implements
// path-addressed CRUD, upward completion cascades, and the task cursor
// that drives sequential execution. Everything operates on an in-memory
// Project owned exclusively by one command; persistence lives in
// pkg/store.
package tracker

import (
	"time"
)

// Changes carries the optional fields for Edit. Nil pointers mean
// "leave unchanged".
type Changes struct {
	Name        *string
	Description *string
	DueDate     *time.Time
	Status      *Status
}

func (c Changes) empty() bool {
	return c.Name == nil && c.Description == nil && c.DueDate == nil && c.Status == nil
}

// Add creates a pending item of the given kind under the parent at
// parentPath and appends it to the parent's ordered children. Phases
// are added at the root with an empty parent path; every other kind
// needs a parent one level up. The slug is derived from the name and
// made unique among the new item's siblings.
func (p *Project) Add(kind Kind, name, description, parentPath string) (*Item, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Field: "kind", Msg: "unknown item kind " + string(kind)}
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Msg: "name is required"}
	}

	parent, err := p.Resolve(parentPath)
	if err != nil {
		return nil, err
	}

	if parent == nil {
		if kind != KindPhase {
			return nil, &ValidationError{Field: "parent", Msg: "only phases can be added at the top level"}
		}
		item := NewItem(kind, name, description, p.slugRules().Unique(p.Phases, name))
		p.Phases = append(p.Phases, item)
		return item, nil
	}

	item := NewItem(kind, name, description, p.slugRules().Unique(parent.Children, name))
	if err := parent.AddChild(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Edit updates an item's fields. Terminal items cannot be edited. Name
// changes re-derive the slug. Setting status to completed is allowed
// only on actions — container completion is always derived by the
// cascade, never set by hand — and completing an action cascades.
func (p *Project) Edit(path string, changes Changes) (*Item, error) {
	item, err := p.Resolve(path)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &InvalidPathError{Path: path, Reason: "the root cannot be edited"}
	}
	if item.Terminal() {
		return nil, &TerminalStateError{Slug: item.Slug, Status: item.Status}
	}
	if changes.empty() {
		return nil, &ValidationError{Msg: "nothing to update: specify a name, description, due date, or status"}
	}

	if changes.Status != nil {
		s := *changes.Status
		if !s.Valid() {
			return nil, &ValidationError{Field: "status", Msg: "unknown status " + string(s)}
		}
		if s == StatusCompleted && item.Kind != KindAction {
			return nil, &ValidationError{
				Field: "status",
				Msg:   "a " + string(item.Kind) + " completes when all of its children complete; it cannot be completed directly",
			}
		}
	}
	if changes.DueDate != nil && item.Kind != KindAction {
		return nil, &ValidationError{Field: "due_date", Msg: "only actions carry a due date"}
	}

	if changes.Name != nil {
		item.Name = *changes.Name
		item.Slug = p.slugRules().Unique(p.siblingsOf(item), *changes.Name)
	}
	if changes.Description != nil {
		item.Description = *changes.Description
	}
	if changes.DueDate != nil {
		due := *changes.DueDate
		item.DueDate = &due
	}
	if changes.Status != nil {
		item.Status = *changes.Status
		if item.Status == StatusCompleted {
			p.cascadeCompletion(item)
		}
	}

	item.touch()
	return item, nil
}

// Delete removes a non-terminal item and its subtree, scrubbing its id
// from the parent's ordered child list so no dangling reference is left
// behind. The cursor and the navigation context are cleared if they
// pointed into the deleted subtree.
func (p *Project) Delete(path string) error {
	item, err := p.Resolve(path)
	if err != nil {
		return err
	}
	if item == nil {
		return &InvalidPathError{Path: path, Reason: "the root cannot be deleted"}
	}
	if item.Terminal() {
		return &TerminalStateError{Slug: item.Slug, Status: item.Status}
	}

	if item.ParentID == "" {
		for i, ph := range p.Phases {
			if ph.ID == item.ID {
				p.Phases = append(p.Phases[:i], p.Phases[i+1:]...)
				break
			}
		}
	} else {
		parent := p.Find(item.ParentID)
		if parent == nil || !parent.removeChild(item.ID) {
			return &DanglingReferenceError{ParentID: item.ParentID, ChildID: item.ID}
		}
	}

	if p.Cursor != "" && item.contains(p.Cursor) {
		p.Cursor = ""
	}
	if p.Context != "" && item.contains(p.Context) {
		p.Context = ""
	}
	return nil
}

// AddTime accumulates time spent on an action.
func (p *Project) AddTime(path string, d time.Duration) (*Item, error) {
	item, err := p.Resolve(path)
	if err != nil {
		return nil, err
	}
	if item == nil || item.Kind != KindAction {
		return nil, &ValidationError{Field: "path", Msg: "time is tracked on actions only"}
	}
	if item.Terminal() {
		return nil, &TerminalStateError{Slug: item.Slug, Status: item.Status}
	}
	if d <= 0 {
		return nil, &ValidationError{Field: "duration", Msg: "duration must be positive"}
	}
	item.TimeSpent += d
	item.touch()
	return item, nil
}

// siblingsOf returns the item's siblings excluding the item itself, for
// slug-uniqueness checks when renaming.
func (p *Project) siblingsOf(item *Item) []*Item {
	var all []*Item
	if item.ParentID == "" {
		all = p.Phases
	} else if parent := p.Find(item.ParentID); parent != nil {
		all = parent.Children
	}
	siblings := make([]*Item, 0, len(all))
	for _, s := range all {
		if s.ID != item.ID {
			siblings = append(siblings, s)
		}
	}
	return siblings
}

// CountsByKind tallies item statuses per level.
type CountsByKind map[Kind]StatusCounts

// StatusCounts is a per-level status tally.
type StatusCounts struct {
	Pending    int
	InProgress int
	Completed  int
	Archived   int
	Total      int
}

// Counts walks the whole tree and tallies statuses per level.
func (p *Project) Counts() CountsByKind {
	counts := make(CountsByKind)
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			c := counts[it.Kind]
			c.Total++
			switch it.Status {
			case StatusPending:
				c.Pending++
			case StatusInProgress:
				c.InProgress++
			case StatusCompleted:
				c.Completed++
			case StatusArchived:
				c.Archived++
			}
			counts[it.Kind] = c
			walk(it.Children)
		}
	}
	walk(p.Phases)
	return counts
}

// CompletionPercent returns the share of completed direct children, 0
// for items with no children.
func CompletionPercent(item *Item) float64 {
	if len(item.Children) == 0 {
		return 0
	}
	completed := 0
	for _, c := range item.Children {
		if c.Status == StatusCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(item.Children)) * 100
}

// OverdueActions returns every non-terminal action whose due date is
// before now. Comparison is naive local time.
func (p *Project) OverdueActions(now time.Time) []*Item {
	var overdue []*Item
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			if it.Kind == KindAction && !it.Terminal() &&
				it.DueDate != nil && it.DueDate.Before(now) {
				overdue = append(overdue, it)
			}
			walk(it.Children)
		}
	}
	walk(p.Phases)
	return overdue
}
