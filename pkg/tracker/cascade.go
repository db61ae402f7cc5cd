package tracker

// cascadeCompletion walks upward from a just-completed item and marks
// each enclosing container completed while every one of its children is
// completed. The walk stops at the first ancestor that does not
// qualify; if a deliverable cannot complete, neither can its objective,
// so skipping the rest is safe.
//
// The ceiling is the milestone level. Phases are never auto-completed:
// the active-phase rule picks the most recent non-terminal phase, and
// closing phases behind the user's back would break that selection.
// A container with zero children never completes, and a terminal
// ancestor is never touched.
func (p *Project) cascadeCompletion(from *Item) []*Item {
	idx := p.index()
	var completed []*Item

	for cur := idx[from.ParentID]; cur != nil && cur.Kind != KindPhase; cur = idx[cur.ParentID] {
		if cur.Terminal() {
			break
		}
		if len(cur.Children) == 0 || !allCompleted(cur.Children) {
			break
		}
		cur.Status = StatusCompleted
		cur.touch()
		completed = append(completed, cur)
	}

	return completed
}

func allCompleted(items []*Item) bool {
	for _, it := range items {
		if it.Status != StatusCompleted {
			return false
		}
	}
	return true
}
