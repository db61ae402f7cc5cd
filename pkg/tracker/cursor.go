package tracker

// CurrentAction resolves the cursor to its action. It returns nil when
// the cursor is unset, when the referenced item no longer exists, and
// when the action is no longer in progress — after Done the stored id
// points at a completed action, which no longer counts as current.
func (p *Project) CurrentAction() *Item {
	it := p.Find(p.Cursor)
	if it == nil || it.Kind != KindAction || it.Status != StatusInProgress {
		return nil
	}
	return it
}

// Start returns the action under the cursor if one is already in
// progress. Otherwise it picks the first pending action — walking the
// current objective's deliverables in insertion order, skipping
// completed ones — marks it in-progress, and points the cursor at it.
// Returns ErrNoPendingWork when the current objective has nothing
// pending, and ErrNoCurrentObjective when there is no open objective
// at all.
func (p *Project) Start() (*Item, error) {
	if current := p.CurrentAction(); current != nil {
		return current, nil
	}

	next, err := p.nextPendingAction()
	if err != nil {
		return nil, err
	}

	next.Status = StatusInProgress
	next.touch()
	p.Cursor = next.ID
	return next, nil
}

// Done completes the action under the cursor. The cursor is left
// pointing at the now-completed action — it is not moved and no new
// action is selected; that is Start and Next's job. This mirrors the
// long-standing behavior of the tool: after done, there is no current
// action until start or next is run.
//
// When cascade is true the completion propagates upward; the returned
// slice lists the containers that completed as a result, bottom-up.
func (p *Project) Done(cascade bool) (*Item, []*Item, error) {
	action := p.CurrentAction()
	if action == nil {
		return nil, nil, ErrNoCurrentAction
	}

	action.Status = StatusCompleted
	action.touch()

	var cascaded []*Item
	if cascade {
		cascaded = p.cascadeCompletion(action)
	}
	return action, cascaded, nil
}

// Next completes the current action, then advances the cursor to the
// next pending action using the deliverable-scoped order: pending
// actions in the same deliverable come first, and only when the current
// deliverable has none left does the search move to the next
// non-completed deliverable of the same objective. The search never
// leaves the current objective. The selected action is marked
// in-progress; if nothing is pending the cursor is cleared.
func (p *Project) Next(cascade bool) (completed, started *Item, cascaded []*Item, err error) {
	completed, cascaded, err = p.Done(cascade)
	if err != nil {
		return nil, nil, nil, err
	}

	started = p.pendingSibling(completed)
	if started == nil {
		started, err = p.nextPendingAction()
		if err != nil {
			p.Cursor = ""
			return completed, nil, cascaded, nil
		}
		err = nil
	}

	started.Status = StatusInProgress
	started.touch()
	p.Cursor = started.ID
	return completed, started, cascaded, nil
}

// pendingSibling returns the first pending action left in the same
// deliverable as action, or nil. The deliverable the user is working in
// is always drained before the search widens to the rest of the
// objective.
func (p *Project) pendingSibling(action *Item) *Item {
	deliverable := p.Find(action.ParentID)
	if deliverable == nil {
		return nil
	}
	for _, sibling := range deliverable.Children {
		if sibling.Status == StatusPending {
			return sibling
		}
	}
	return nil
}

// nextPendingAction finds the first pending action in the current
// objective, respecting deliverable order within the objective and
// action order within each deliverable. Completed deliverables are
// skipped; a deliverable with any pending action is drained before the
// search moves on.
func (p *Project) nextPendingAction() (*Item, error) {
	objective := p.CurrentObjective()
	if objective == nil {
		return nil, ErrNoCurrentObjective
	}

	for _, deliverable := range objective.Children {
		if deliverable.Status == StatusCompleted {
			continue
		}
		for _, action := range deliverable.Children {
			if action.Status == StatusPending {
				return action, nil
			}
		}
	}
	return nil, ErrNoPendingWork
}
