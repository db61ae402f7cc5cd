package tracker

import "strings"

// navTokens maps the shorthand navigation tokens to an internal verb.
// Next-tokens exist only for the execution levels; strategic items have
// no meaningful "next" while the cascade drives their completion.
var navTokens = map[string]string{
	":u":                   "up",
	":up":                  "up",
	":parent":              "up",
	":cp":                  "current-phase",
	":current-phase":       "current-phase",
	":cm":                  "current-milestone",
	":current-milestone":   "current-milestone",
	":co":                  "current-objective",
	":current-objective":   "current-objective",
	":cd":                  "current-deliverable",
	":current-deliverable": "current-deliverable",
	":ca":                  "current-action",
	":current-action":      "current-action",
	":lp":                  "last-phase",
	":last-phase":          "last-phase",
	":lm":                  "last-milestone",
	":last-milestone":      "last-milestone",
	":lo":                  "last-objective",
	":last-objective":      "last-objective",
	":ld":                  "last-deliverable",
	":last-deliverable":    "last-deliverable",
	":la":                  "last-action",
	":last-action":         "last-action",
	":nd":                  "next-deliverable",
	":next-deliverable":    "next-deliverable",
	":na":                  "next-action",
	":next-action":         "next-action",
}

// ContextItem returns the item at the navigation context. When no
// context was ever set it is inferred as the deliverable containing the
// cursor action. Returns nil when neither yields an item.
func (p *Project) ContextItem() *Item {
	if it := p.Find(p.Context); it != nil {
		return it
	}
	if action := p.Find(p.Cursor); action != nil {
		return p.Find(action.ParentID)
	}
	return nil
}

// Navigate resolves a navigation target and stores it as the context.
// The target is a shorthand token, a root-absolute path (optionally
// "/"-prefixed), or a bare path retried relative to the context when
// absolute resolution fails. An empty target reports the existing
// context without moving. Positions strictly behind the task cursor in
// depth-first order are rejected; the cursor and its ancestors stay
// reachable.
func (p *Project) Navigate(target string) (*Item, error) {
	if target == "" {
		it := p.ContextItem()
		if it == nil {
			return nil, ErrNoContext
		}
		return it, nil
	}

	item, err := p.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	if p.behindCursor(item) {
		return nil, &InvalidPathError{
			Path:   target,
			Reason: "position is behind the task cursor; only the cursor, its ancestors, and later branches are reachable",
		}
	}

	p.Context = item.ID
	return item, nil
}

func (p *Project) resolveTarget(target string) (*Item, error) {
	if strings.HasPrefix(target, ":") {
		return p.resolveToken(target)
	}

	if abs, ok := strings.CutPrefix(target, PathSeparator); ok {
		return p.mustResolve(abs)
	}

	item, err := p.Resolve(target)
	if err == nil {
		return item, nil
	}
	// Retry relative to the context.
	if ctx := p.ContextItem(); ctx != nil {
		if rel, relErr := p.Resolve(p.PathOf(ctx) + PathSeparator + target); relErr == nil {
			return rel, nil
		}
	}
	return nil, err
}

func (p *Project) mustResolve(path string) (*Item, error) {
	item, err := p.Resolve(path)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &InvalidPathError{Path: path, Reason: "the root is not a navigation target"}
	}
	return item, nil
}

func (p *Project) resolveToken(token string) (*Item, error) {
	verb, ok := navTokens[token]
	if !ok {
		return nil, &InvalidPathError{Path: token, Reason: "unknown navigation token"}
	}

	var item *Item
	switch verb {
	case "up":
		ctx := p.ContextItem()
		if ctx == nil {
			return nil, ErrNoContext
		}
		item = p.Find(ctx.ParentID)
		if item == nil {
			return nil, &InvalidPathError{Path: token, Reason: "already at the top level"}
		}
	case "current-phase":
		item = p.ActivePhase()
	case "current-milestone":
		if obj := p.CurrentObjective(); obj != nil {
			item = p.Find(obj.ParentID)
		}
	case "current-objective":
		item = p.CurrentObjective()
	case "current-deliverable":
		if action := p.Find(p.Cursor); action != nil {
			item = p.Find(action.ParentID)
		}
	case "current-action":
		item = p.CurrentAction()
	case "last-phase":
		item = lastOf(p.Phases)
	case "last-milestone":
		item = lastChain(p.Phases, 1)
	case "last-objective":
		item = lastChain(p.Phases, 2)
	case "last-deliverable":
		item = lastChain(p.Phases, 3)
	case "last-action":
		item = lastChain(p.Phases, 4)
	case "next-deliverable":
		item = p.nextDeliverable()
	case "next-action":
		next, err := p.nextPendingAction()
		if err != nil {
			return nil, err
		}
		item = next
	}

	if item == nil {
		return nil, &NotFoundError{Segment: token}
	}
	return item, nil
}

func lastOf(items []*Item) *Item {
	if len(items) == 0 {
		return nil
	}
	return items[len(items)-1]
}

// lastChain follows the last sibling at each level, depth levels down.
func lastChain(items []*Item, depth int) *Item {
	it := lastOf(items)
	for i := 0; i < depth && it != nil; i++ {
		it = lastOf(it.Children)
	}
	return it
}

// nextDeliverable is the first non-terminal deliverable after the one
// holding the cursor, in the current objective's insertion order. With
// no cursor it is the objective's first non-terminal deliverable.
func (p *Project) nextDeliverable() *Item {
	objective := p.CurrentObjective()
	if objective == nil {
		return nil
	}

	currentID := ""
	if action := p.Find(p.Cursor); action != nil {
		currentID = action.ParentID
	}

	seen := currentID == ""
	for _, d := range objective.Children {
		if d.ID == currentID {
			seen = true
			continue
		}
		if seen && !d.Terminal() {
			return d
		}
	}
	return nil
}

// behindCursor reports whether item sits strictly before the cursor
// action in depth-first order. The cursor's ancestors and the action
// itself are never behind.
func (p *Project) behindCursor(item *Item) bool {
	action := p.Find(p.Cursor)
	if action == nil {
		return false
	}
	if item.contains(action.ID) {
		return false
	}
	return p.dfsPos(item) < p.dfsPos(action)
}

// dfsPos is the item's position in a depth-first walk of the tree, -1
// if absent.
func (p *Project) dfsPos(target *Item) int {
	pos := -1
	n := 0
	var walk func(items []*Item) bool
	walk = func(items []*Item) bool {
		for _, it := range items {
			if it == target {
				pos = n
				return true
			}
			n++
			if walk(it.Children) {
				return true
			}
		}
		return false
	}
	walk(p.Phases)
	return pos
}
