package store

import (
	"fmt"
	"time"

	"github.com/stefanpenner/prism/pkg/tracker"
)

// flatten converts an in-memory project into its persisted form. Items
// are written in depth-first insertion order so diffs stay readable.
func flatten(p *tracker.Project) *projectFile {
	f := &projectFile{Version: fileVersion, Cursor: p.Cursor, Context: p.Context}

	var walk func(items []*tracker.Item)
	walk = func(items []*tracker.Item) {
		for _, it := range items {
			rec := itemRecord{
				ID:          it.ID,
				Kind:        string(it.Kind),
				Name:        it.Name,
				Description: it.Description,
				Slug:        it.Slug,
				Status:      string(it.Status),
				Parent:      it.ParentID,
				Created:     it.CreatedAt,
				Updated:     it.UpdatedAt,
				Due:         it.DueDate,
			}
			if it.TimeSpent > 0 {
				rec.TimeSpent = it.TimeSpent.String()
			}
			for _, c := range it.Children {
				rec.Children = append(rec.Children, c.ID)
			}
			f.Items = append(f.Items, rec)
			walk(it.Children)
		}
	}
	walk(p.Phases)

	for _, ph := range p.Phases {
		f.Roots = append(f.Roots, ph.ID)
	}
	return f
}

// link rebuilds the tree from the flat file form. Every child id must
// resolve to a record; a stale reference fails the whole load with a
// DanglingReferenceError rather than quietly dropping the child.
func link(f *projectFile) (*tracker.Project, error) {
	records := make(map[string]*itemRecord, len(f.Items))
	for i := range f.Items {
		rec := &f.Items[i]
		if _, dup := records[rec.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %s", rec.ID)
		}
		records[rec.ID] = rec
	}

	built := make(map[string]*tracker.Item, len(f.Items))
	var build func(id, parentID string) (*tracker.Item, error)
	build = func(id, parentID string) (*tracker.Item, error) {
		rec, ok := records[id]
		if !ok {
			return nil, &tracker.DanglingReferenceError{ParentID: parentID, ChildID: id}
		}
		if _, seen := built[id]; seen {
			return nil, fmt.Errorf("item %s is referenced by more than one parent", id)
		}

		it, err := itemFromRecord(rec)
		if err != nil {
			return nil, err
		}
		it.ParentID = parentID
		built[id] = it

		for _, childID := range rec.Children {
			child, err := build(childID, id)
			if err != nil {
				return nil, err
			}
			it.Children = append(it.Children, child)
		}
		return it, nil
	}

	p := tracker.NewProject()
	p.Cursor = f.Cursor
	p.Context = f.Context
	for _, rootID := range f.Roots {
		phase, err := build(rootID, "")
		if err != nil {
			return nil, err
		}
		if phase.Kind != tracker.KindPhase {
			return nil, fmt.Errorf("root item %s is a %s, not a phase", rootID, phase.Kind)
		}
		p.Phases = append(p.Phases, phase)
	}
	return p, nil
}

func itemFromRecord(rec *itemRecord) (*tracker.Item, error) {
	kind := tracker.Kind(rec.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("item %s has unknown kind %q", rec.ID, rec.Kind)
	}
	status := tracker.Status(rec.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("item %s has unknown status %q", rec.ID, rec.Status)
	}

	it := &tracker.Item{
		ID:          rec.ID,
		Kind:        kind,
		Name:        rec.Name,
		Description: rec.Description,
		Slug:        rec.Slug,
		Status:      status,
		CreatedAt:   rec.Created,
		UpdatedAt:   rec.Updated,
		DueDate:     rec.Due,
	}
	if rec.TimeSpent != "" {
		d, err := time.ParseDuration(rec.TimeSpent)
		if err != nil {
			return nil, fmt.Errorf("item %s has unparseable time_spent %q: %w", rec.ID, rec.TimeSpent, err)
		}
		it.TimeSpent = d
	}
	return it, nil
}
