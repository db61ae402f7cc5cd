package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAction(t *testing.T, p *Project, path string) []*Item {
	t.Helper()
	item, err := p.Resolve(path)
	require.NoError(t, err)
	item.Status = StatusCompleted
	return p.cascadeCompletion(item)
}

func TestCascadeStopsAtIncompleteSibling(t *testing.T) {
	p := seedProject(t)

	cascaded := completeAction(t, p, "1/1/1/1/1")
	assert.Empty(t, cascaded)

	schema, err := p.Resolve("1/1/1/1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, schema.Status)
}

func TestCascadeCompletesChain(t *testing.T) {
	p := seedProject(t)

	completeAction(t, p, "1/1/1/1/1")
	completeAction(t, p, "1/1/1/1/2")
	cascaded := completeAction(t, p, "1/1/1/2/1")

	slugs := make([]string, 0, len(cascaded))
	for _, c := range cascaded {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"parser", "data-model", "core-engine"}, slugs)
}

func TestCascadeNeverCompletesPhase(t *testing.T) {
	p := seedProject(t)

	completeAction(t, p, "1/1/1/1/1")
	completeAction(t, p, "1/1/1/1/2")
	completeAction(t, p, "1/1/1/2/1")

	phase, err := p.Resolve("foundation")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, phase.Status)
}

func TestCascadeSkipsEmptyContainers(t *testing.T) {
	p := seedProject(t)

	// An empty deliverable blocks its objective from completing.
	mustAdd(t, p, KindDeliverable, "Docs", "foundation/core-engine/data-model")

	completeAction(t, p, "1/1/1/1/1")
	completeAction(t, p, "1/1/1/1/2")
	cascaded := completeAction(t, p, "1/1/1/2/1")

	require.Len(t, cascaded, 1)
	assert.Equal(t, "parser", cascaded[0].Slug)

	objective, err := p.Resolve("1/1/1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, objective.Status)
}

func TestCascadeLeavesTerminalAncestorsAlone(t *testing.T) {
	p := seedProject(t)

	schema, err := p.Resolve("1/1/1/1")
	require.NoError(t, err)
	require.NoError(t, schema.SetStatus(StatusArchived))

	cascaded := completeAction(t, p, "1/1/1/1/1")
	assert.Empty(t, cascaded)
	assert.Equal(t, StatusArchived, schema.Status)
}
