package tracker

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// Terminal reports whether the status permits no further changes.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusArchived
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Kind identifies an item's level in the hierarchy.
type Kind string

const (
	KindPhase       Kind = "phase"
	KindMilestone   Kind = "milestone"
	KindObjective   Kind = "objective"
	KindDeliverable Kind = "deliverable"
	KindAction      Kind = "action"
)

// ChildKind returns the only kind allowed as a child of k. The second
// return is false for actions, which are leaves.
func (k Kind) ChildKind() (Kind, bool) {
	switch k {
	case KindPhase:
		return KindMilestone, true
	case KindMilestone:
		return KindObjective, true
	case KindObjective:
		return KindDeliverable, true
	case KindDeliverable:
		return KindAction, true
	}
	return "", false
}

// Valid reports whether k is one of the five levels.
func (k Kind) Valid() bool {
	_, leaf := k.ChildKind()
	return leaf || k == KindAction
}

// Item is a single node in the five-level hierarchy. One struct covers
// all levels; Kind says which level a given item sits at, and AddChild
// enforces the phase→milestone→objective→deliverable→action pairing.
type Item struct {
	ID          string
	Kind        Kind
	Name        string
	Description string
	Slug        string
	Status      Status
	ParentID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Action-only fields.
	DueDate   *time.Time
	TimeSpent time.Duration

	// Ordered by insertion; this order is authoritative for index paths
	// and for progression.
	Children []*Item
}

// NewItem creates a pending item of the given kind.
func NewItem(kind Kind, name, description, slug string) *Item {
	now := time.Now()
	return &Item{
		ID:          uuid.NewString(),
		Kind:        kind,
		Name:        name,
		Description: description,
		Slug:        slug,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Terminal reports whether the item is completed or archived.
func (it *Item) Terminal() bool {
	return it.Status.Terminal()
}

// SetStatus changes the item's status, refusing to touch terminal items.
func (it *Item) SetStatus(s Status) error {
	if it.Terminal() {
		return &TerminalStateError{Slug: it.Slug, Status: it.Status}
	}
	if !s.Valid() {
		return &ValidationError{Field: "status", Msg: "unknown status " + string(s)}
	}
	it.Status = s
	it.touch()
	return nil
}

// AddChild appends child to the item's ordered children, enforcing the
// level pairing. The child's ParentID is set to the item's ID.
func (it *Item) AddChild(child *Item) error {
	want, ok := it.Kind.ChildKind()
	if !ok {
		return &ValidationError{Field: "parent", Msg: "actions cannot have children"}
	}
	if child.Kind != want {
		return &ValidationError{
			Field: "kind",
			Msg:   string(it.Kind) + " items can only contain " + string(want) + " items",
		}
	}
	child.ParentID = it.ID
	it.Children = append(it.Children, child)
	it.touch()
	return nil
}

// removeChild scrubs the child with the given id from the ordered child
// list. Returns false if the id is not a direct child.
func (it *Item) removeChild(id string) bool {
	for i, c := range it.Children {
		if c.ID == id {
			it.Children = append(it.Children[:i], it.Children[i+1:]...)
			it.touch()
			return true
		}
	}
	return false
}

func (it *Item) touch() {
	it.UpdatedAt = time.Now()
}

// contains reports whether the item's subtree (itself included) holds
// the given id.
func (it *Item) contains(id string) bool {
	if it.ID == id {
		return true
	}
	for _, c := range it.Children {
		if c.contains(id) {
			return true
		}
	}
	return false
}

// Project is the in-memory tree for one tracked project. It owns the
// ordered phase list and the task cursor. A Project is handed to one
// command at a time; nothing here is safe for concurrent use.
type Project struct {
	Phases []*Item

	// Cursor is the id of the action currently being worked on, or ""
	// when no action is current.
	Cursor string

	// Context is the id of the navigation position set by Navigate, or
	// "" when none was set. Unlike Cursor it may name any level.
	Context string

	// Slugs controls slug derivation for items created through this
	// project. Zero value means DefaultSlugRules.
	Slugs SlugRules
}

// NewProject creates an empty project with default slug rules.
func NewProject() *Project {
	return &Project{Slugs: DefaultSlugRules()}
}

func (p *Project) slugRules() SlugRules {
	if p.Slugs.MaxLength == 0 {
		return DefaultSlugRules()
	}
	return p.Slugs
}

// index builds an id → item map by walking the whole tree. Computed on
// demand so it can never go stale after edits.
func (p *Project) index() map[string]*Item {
	idx := make(map[string]*Item)
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			idx[it.ID] = it
			walk(it.Children)
		}
	}
	walk(p.Phases)
	return idx
}

// Find returns the item with the given id, or nil.
func (p *Project) Find(id string) *Item {
	if id == "" {
		return nil
	}
	return p.index()[id]
}

// ActivePhase returns the most recently created non-terminal phase, or
// nil if every phase is completed or archived.
func (p *Project) ActivePhase() *Item {
	var active *Item
	for _, ph := range p.Phases {
		if ph.Terminal() {
			continue
		}
		if active == nil || ph.CreatedAt.After(active.CreatedAt) {
			active = ph
		}
	}
	return active
}

// CurrentObjective returns the most recently created non-terminal
// objective anywhere in the tree. Derived on every call, never cached.
func (p *Project) CurrentObjective() *Item {
	var current *Item
	for _, phase := range p.Phases {
		for _, milestone := range phase.Children {
			for _, objective := range milestone.Children {
				if objective.Terminal() {
					continue
				}
				if current == nil || objective.CreatedAt.After(current.CreatedAt) {
					current = objective
				}
			}
		}
	}
	return current
}
