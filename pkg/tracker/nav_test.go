package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigateSetsContext(t *testing.T) {
	p := seedProject(t)

	item, err := p.Navigate("foundation/core-engine/data-model")
	require.NoError(t, err)
	assert.Equal(t, KindObjective, item.Kind)
	assert.Equal(t, item.ID, p.Context)

	// Empty target reports the position without moving.
	again, err := p.Navigate("")
	require.NoError(t, err)
	assert.Same(t, item, again)
}

func TestNavigateLeadingSlashIsAbsolute(t *testing.T) {
	p := seedProject(t)

	item, err := p.Navigate("/foundation/core-engine")
	require.NoError(t, err)
	assert.Equal(t, KindMilestone, item.Kind)
}

func TestNavigateRelativeToContext(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("foundation/core-engine/data-model")
	require.NoError(t, err)

	// "schema" is no phase slug, so it resolves under the position.
	item, err := p.Navigate("schema")
	require.NoError(t, err)
	assert.Equal(t, KindDeliverable, item.Kind)
	assert.Equal(t, "schema", item.Slug)
}

func TestNavigateWithoutContext(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("")
	assert.ErrorIs(t, err, ErrNoContext)
}

func TestNavigateRootIsNotATarget(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("/")
	assert.Error(t, err)
}

func TestContextInferredFromCursor(t *testing.T) {
	p := seedProject(t)

	_, err := p.Start()
	require.NoError(t, err)

	// With no explicit position, the cursor's deliverable is current.
	item, err := p.Navigate("")
	require.NoError(t, err)
	assert.Equal(t, KindDeliverable, item.Kind)
	assert.Equal(t, "schema", item.Slug)
}

func TestNavigateCurrentTokens(t *testing.T) {
	p := seedProject(t)
	_, err := p.Start()
	require.NoError(t, err)

	for token, slug := range map[string]string{
		":cp": "foundation",
		":cm": "core-engine",
		":co": "data-model",
		":cd": "schema",
		":ca": "define-types",
	} {
		item, err := p.Navigate(token)
		require.NoError(t, err, "token %s", token)
		assert.Equal(t, slug, item.Slug, "token %s", token)
	}
}

func TestNavigateLastTokens(t *testing.T) {
	p := seedProject(t)

	for token, slug := range map[string]string{
		":lp": "foundation",
		":lm": "core-engine",
		":lo": "data-model",
		":ld": "parser",
		":la": "write-grammar",
	} {
		item, err := p.Navigate(token)
		require.NoError(t, err, "token %s", token)
		assert.Equal(t, slug, item.Slug, "token %s", token)
	}
}

func TestNavigateUpToken(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("foundation/core-engine/data-model/parser")
	require.NoError(t, err)

	item, err := p.Navigate(":u")
	require.NoError(t, err)
	assert.Equal(t, "data-model", item.Slug)

	// Long forms are aliases.
	item, err = p.Navigate(":parent")
	require.NoError(t, err)
	assert.Equal(t, "core-engine", item.Slug)

	_, err = p.Navigate(":up")
	require.NoError(t, err)
	_, err = p.Navigate(":up")
	var inv *InvalidPathError
	assert.ErrorAs(t, err, &inv, "phases have no parent to move to")
}

func TestNavigateNextTokens(t *testing.T) {
	p := seedProject(t)
	_, err := p.Start()
	require.NoError(t, err)

	item, err := p.Navigate(":nd")
	require.NoError(t, err)
	assert.Equal(t, "parser", item.Slug)

	// define-types is already in progress; the next pending one follows it.
	item, err = p.Navigate(":na")
	require.NoError(t, err)
	assert.Equal(t, "add-validation", item.Slug)
}

func TestNavigateUnknownToken(t *testing.T) {
	p := seedProject(t)

	for _, token := range []string{":invalid", ":np", ":nm", ":no"} {
		_, err := p.Navigate(token)
		var inv *InvalidPathError
		assert.ErrorAs(t, err, &inv, "token %s", token)
	}
}

func TestNavigateTokenWithNothingCurrent(t *testing.T) {
	p := NewProject()
	mustAdd(t, p, KindPhase, "Foundation", "")

	_, err := p.Navigate(":ca")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestNavigateBehindCursorRejected(t *testing.T) {
	p := seedProject(t)

	// Park the cursor on the last action.
	action, err := p.Resolve("1/1/1/2/1")
	require.NoError(t, err)
	require.NoError(t, action.SetStatus(StatusInProgress))
	p.Cursor = action.ID

	// Earlier branches in depth-first order are off limits.
	for _, path := range []string{"1/1/1/1", "1/1/1/1/1"} {
		_, err := p.Navigate(path)
		var inv *InvalidPathError
		assert.ErrorAs(t, err, &inv, "path %q", path)
	}

	// The cursor itself and its ancestors stay reachable.
	for _, path := range []string{"1/1/1/2/1", "1/1/1/2", "1/1/1", "1"} {
		_, err := p.Navigate(path)
		assert.NoError(t, err, "path %q", path)
	}
}

func TestNavigateUnrestrictedWithoutCursor(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("1/1/1/1/1")
	assert.NoError(t, err)
}

func TestDeleteClearsContextInSubtree(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("foundation/core-engine/data-model/schema")
	require.NoError(t, err)
	require.NotEmpty(t, p.Context)

	require.NoError(t, p.Delete("foundation/core-engine/data-model/schema"))
	assert.Empty(t, p.Context)
}

func TestImportReplaceClearsContextUnderObjective(t *testing.T) {
	p := seedProject(t)

	_, err := p.Navigate("foundation/core-engine/data-model/schema")
	require.NoError(t, err)

	_, err = p.Import([]DeliverableSpec{{Name: "Fresh"}}, ModeReplace)
	require.NoError(t, err)
	assert.Empty(t, p.Context)
}
