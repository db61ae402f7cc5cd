package tracker

import "time"

// ImportMode selects how an imported subtree relates to the existing
// deliverables of the current objective.
type ImportMode string

const (
	// ModeAppend adds the imported deliverables after the existing ones.
	ModeAppend ImportMode = "append"
	// ModeReplace removes every existing deliverable (and its actions)
	// from the current objective before attaching the imported ones.
	ModeReplace ImportMode = "replace"
)

// DeliverableSpec describes one deliverable of an imported subtree.
type DeliverableSpec struct {
	Name        string
	Description string
	Actions     []ActionSpec
}

// ActionSpec describes one action of an imported deliverable.
type ActionSpec struct {
	Name        string
	Description string
	DueDate     *time.Time
}

// Import bulk-attaches deliverables (with nested actions) to the
// current objective.
//
// In append mode a deliverable whose derived slug collides with an
// existing sibling is rejected outright; replace mode has no such
// constraint because prior siblings are removed first. Slugs inside the
// payload are uniqued against each other in both modes.
//
// Replace mode clears the cursor when the action it referenced is among
// the removed deliverables. Nothing is attached unless the whole
// payload validates.
func (p *Project) Import(specs []DeliverableSpec, mode ImportMode) ([]*Item, error) {
	if mode != ModeAppend && mode != ModeReplace {
		return nil, &ValidationError{Field: "mode", Msg: "mode must be append or replace"}
	}

	objective := p.CurrentObjective()
	if objective == nil {
		return nil, ErrNoCurrentObjective
	}

	rules := p.slugRules()

	// Validate and build the whole subtree before mutating anything.
	var existing []*Item
	if mode == ModeAppend {
		existing = objective.Children
	}
	built := make([]*Item, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, &ValidationError{Field: "name", Msg: "deliverable name is required"}
		}
		if mode == ModeAppend {
			if slug := rules.Slugify(spec.Name); slugTaken(objective.Children, slug) {
				return nil, &ValidationError{
					Field: "name",
					Msg:   "deliverable slug " + slug + " collides with an existing deliverable",
				}
			}
		}

		deliverable := NewItem(KindDeliverable, spec.Name, spec.Description, rules.Unique(existing, spec.Name))
		for _, as := range spec.Actions {
			if as.Name == "" {
				return nil, &ValidationError{Field: "actions", Msg: "action name is required"}
			}
			action := NewItem(KindAction, as.Name, as.Description, rules.Unique(deliverable.Children, as.Name))
			if as.DueDate != nil {
				due := *as.DueDate
				action.DueDate = &due
			}
			action.ParentID = deliverable.ID
			deliverable.Children = append(deliverable.Children, action)
		}
		deliverable.ParentID = objective.ID
		built = append(built, deliverable)
		existing = append(existing, deliverable)
	}

	if mode == ModeReplace {
		if p.Cursor != "" && objective.contains(p.Cursor) {
			p.Cursor = ""
		}
		if p.Context != "" && p.Context != objective.ID && objective.contains(p.Context) {
			p.Context = ""
		}
		objective.Children = nil
	}
	objective.Children = append(objective.Children, built...)
	objective.touch()

	return built, nil
}

func slugTaken(siblings []*Item, slug string) bool {
	for _, s := range siblings {
		if s.Slug == slug {
			return true
		}
	}
	return false
}
