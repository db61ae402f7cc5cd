package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/prism/pkg/tracker"
)

func seedProject(t *testing.T) *tracker.Project {
	t.Helper()
	p := tracker.NewProject()

	add := func(kind tracker.Kind, name, parent string) {
		_, err := p.Add(kind, name, "", parent)
		require.NoError(t, err)
	}
	add(tracker.KindPhase, "Foundation", "")
	add(tracker.KindMilestone, "Core Engine", "foundation")
	add(tracker.KindObjective, "Data Model", "foundation/core-engine")
	add(tracker.KindDeliverable, "Schema", "foundation/core-engine/data-model")
	add(tracker.KindAction, "Define types", "foundation/core-engine/data-model/schema")
	return p
}

func paths(items []TreeItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Path)
	}
	return out
}

func TestFlattenDefaultExpansion(t *testing.T) {
	p := seedProject(t)

	// Phases and milestones open by default, objectives closed.
	items := FlattenVisibleItems(p, map[string]bool{})
	assert.Equal(t, []string{
		"foundation",
		"foundation/core-engine",
		"foundation/core-engine/data-model",
	}, paths(items))
}

func TestFlattenHonorsExpandState(t *testing.T) {
	p := seedProject(t)

	expanded := map[string]bool{}
	FlattenVisibleItems(p, expanded)
	expanded["foundation/core-engine/data-model"] = true
	expanded["foundation/core-engine/data-model/schema"] = true

	items := FlattenVisibleItems(p, expanded)
	assert.Equal(t, []string{
		"foundation",
		"foundation/core-engine",
		"foundation/core-engine/data-model",
		"foundation/core-engine/data-model/schema",
		"foundation/core-engine/data-model/schema/define-types",
	}, paths(items))

	assert.Equal(t, 4, items[4].Depth)
	assert.False(t, items[4].HasChildren)
	assert.True(t, items[0].HasChildren)
}

func TestFlattenCollapsedPhaseHidesSubtree(t *testing.T) {
	p := seedProject(t)

	items := FlattenVisibleItems(p, map[string]bool{"foundation": false})
	assert.Equal(t, []string{"foundation"}, paths(items))
}

func TestFilterItemsKeepsAncestors(t *testing.T) {
	p := seedProject(t)

	expanded := map[string]bool{}
	FlattenVisibleItems(p, expanded)
	expanded["foundation/core-engine/data-model"] = true
	expanded["foundation/core-engine/data-model/schema"] = true
	items := FlattenVisibleItems(p, expanded)

	filtered := FilterItems(items, "define")
	assert.Equal(t, []string{
		"foundation",
		"foundation/core-engine",
		"foundation/core-engine/data-model",
		"foundation/core-engine/data-model/schema",
		"foundation/core-engine/data-model/schema/define-types",
	}, paths(filtered))

	filtered = FilterItems(items, "engine")
	assert.Equal(t, []string{
		"foundation",
		"foundation/core-engine",
	}, paths(filtered))
}

func TestFilterItemsNoMatch(t *testing.T) {
	p := seedProject(t)
	items := FlattenVisibleItems(p, map[string]bool{})

	assert.Empty(t, FilterItems(items, "zzz"))
}

func TestFilterItemsEmptyQueryIsIdentity(t *testing.T) {
	p := seedProject(t)
	items := FlattenVisibleItems(p, map[string]bool{})

	assert.Equal(t, items, FilterItems(items, ""))
}
