package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedProject builds a small five-level tree:
//
//	foundation
//	  core-engine
//	    data-model
//	      schema:  define-types, add-validation
//	      parser:  write-grammar
func seedProject(t *testing.T) *Project {
	t.Helper()
	p := NewProject()

	mustAdd(t, p, KindPhase, "Foundation", "")
	mustAdd(t, p, KindMilestone, "Core Engine", "foundation")
	mustAdd(t, p, KindObjective, "Data Model", "foundation/core-engine")
	mustAdd(t, p, KindDeliverable, "Schema", "foundation/core-engine/data-model")
	mustAdd(t, p, KindAction, "Define types", "foundation/core-engine/data-model/schema")
	mustAdd(t, p, KindAction, "Add validation", "foundation/core-engine/data-model/schema")
	mustAdd(t, p, KindDeliverable, "Parser", "foundation/core-engine/data-model")
	mustAdd(t, p, KindAction, "Write grammar", "foundation/core-engine/data-model/parser")

	return p
}

func mustAdd(t *testing.T, p *Project, kind Kind, name, parent string) *Item {
	t.Helper()
	item, err := p.Add(kind, name, "", parent)
	require.NoError(t, err)
	return item
}

func TestAddPhaseAtRoot(t *testing.T) {
	p := NewProject()

	item, err := p.Add(KindPhase, "Launch the MVP", "first release", "")
	require.NoError(t, err)
	assert.Equal(t, "launch-mvp", item.Slug)
	assert.Equal(t, StatusPending, item.Status)
	assert.Empty(t, item.ParentID)
	assert.Len(t, p.Phases, 1)
}

func TestAddNonPhaseAtRootFails(t *testing.T) {
	p := NewProject()

	_, err := p.Add(KindMilestone, "Orphan", "", "")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAddEnforcesLevelPairing(t *testing.T) {
	p := seedProject(t)

	// An action directly under an objective skips the deliverable level.
	_, err := p.Add(KindAction, "Skip a level", "", "foundation/core-engine/data-model")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAddUnderActionFails(t *testing.T) {
	p := seedProject(t)

	_, err := p.Add(KindAction, "Too deep", "", "1/1/1/1/1")
	assert.Error(t, err)
}

func TestAddDuplicateNameGetsSuffix(t *testing.T) {
	p := seedProject(t)

	item, err := p.Add(KindDeliverable, "Schema", "", "foundation/core-engine/data-model")
	require.NoError(t, err)
	assert.Equal(t, "schema-1", item.Slug)
}

func TestAddEmptyNameFails(t *testing.T) {
	p := NewProject()

	_, err := p.Add(KindPhase, "", "", "")
	assert.Error(t, err)
}

func TestEditRenameReslug(t *testing.T) {
	p := seedProject(t)

	name := "Tokenizer"
	item, err := p.Edit("foundation/core-engine/data-model/parser", Changes{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Tokenizer", item.Name)
	assert.Equal(t, "tokenizer", item.Slug)

	// The old slug path no longer resolves; the new one does.
	_, err = p.Resolve("foundation/core-engine/data-model/parser")
	assert.Error(t, err)
	_, err = p.Resolve("foundation/core-engine/data-model/tokenizer")
	assert.NoError(t, err)
}

func TestEditRenameAvoidsSiblingSlug(t *testing.T) {
	p := seedProject(t)

	name := "Schema"
	item, err := p.Edit("1/1/1/2", Changes{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "schema-1", item.Slug)
}

func TestEditRenameKeepsOwnSlug(t *testing.T) {
	p := seedProject(t)

	// Renaming to a name with the same derived slug must not suffix
	// against the item itself.
	name := "SCHEMA"
	item, err := p.Edit("1/1/1/1", Changes{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "schema", item.Slug)
}

func TestEditDueDateOnContainerFails(t *testing.T) {
	p := seedProject(t)

	due := time.Now().Add(24 * time.Hour)
	_, err := p.Edit("foundation", Changes{DueDate: &due})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEditCompleteContainerFails(t *testing.T) {
	p := seedProject(t)

	status := StatusCompleted
	_, err := p.Edit("foundation/core-engine", Changes{Status: &status})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEditCompleteActionCascades(t *testing.T) {
	p := seedProject(t)

	status := StatusCompleted
	_, err := p.Edit("1/1/1/2/1", Changes{Status: &status})
	require.NoError(t, err)

	parser, err := p.Resolve("1/1/1/2")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, parser.Status)
}

func TestEditTerminalItemFails(t *testing.T) {
	p := seedProject(t)

	item, err := p.Resolve("1/1/1/1/1")
	require.NoError(t, err)
	require.NoError(t, item.SetStatus(StatusArchived))

	name := "New name"
	_, err = p.Edit("1/1/1/1/1", Changes{Name: &name})
	var ts *TerminalStateError
	assert.ErrorAs(t, err, &ts)
}

func TestEditNothingToUpdate(t *testing.T) {
	p := seedProject(t)

	_, err := p.Edit("foundation", Changes{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEditRootFails(t *testing.T) {
	p := seedProject(t)

	name := "root"
	_, err := p.Edit("", Changes{Name: &name})
	assert.Error(t, err)
}

func TestDeleteScrubsParentList(t *testing.T) {
	p := seedProject(t)

	require.NoError(t, p.Delete("foundation/core-engine/data-model/schema"))

	objective, err := p.Resolve("foundation/core-engine/data-model")
	require.NoError(t, err)
	require.Len(t, objective.Children, 1)
	assert.Equal(t, "parser", objective.Children[0].Slug)

	// Index paths shift down after the delete.
	item, err := p.Resolve("1/1/1/1")
	require.NoError(t, err)
	assert.Equal(t, "parser", item.Slug)
}

func TestDeleteClearsCursorInSubtree(t *testing.T) {
	p := seedProject(t)

	started, err := p.Start()
	require.NoError(t, err)
	require.Equal(t, started.ID, p.Cursor)

	require.NoError(t, p.Delete("foundation/core-engine/data-model/schema"))
	assert.Empty(t, p.Cursor)
}

func TestDeleteKeepsCursorOutsideSubtree(t *testing.T) {
	p := seedProject(t)

	started, err := p.Start()
	require.NoError(t, err)

	require.NoError(t, p.Delete("foundation/core-engine/data-model/parser"))
	assert.Equal(t, started.ID, p.Cursor)
}

func TestDeletePhase(t *testing.T) {
	p := seedProject(t)

	require.NoError(t, p.Delete("foundation"))
	assert.Empty(t, p.Phases)
}

func TestDeleteTerminalItemFails(t *testing.T) {
	p := seedProject(t)

	item, err := p.Resolve("1/1/1/2")
	require.NoError(t, err)
	require.NoError(t, item.SetStatus(StatusArchived))

	err = p.Delete("1/1/1/2")
	var ts *TerminalStateError
	assert.ErrorAs(t, err, &ts)
}

func TestDeleteRootFails(t *testing.T) {
	p := seedProject(t)
	assert.Error(t, p.Delete(""))
}

func TestAddTime(t *testing.T) {
	p := seedProject(t)

	item, err := p.AddTime("1/1/1/1/1", 90*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, item.TimeSpent)

	item, err = p.AddTime("1/1/1/1/1", 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, item.TimeSpent)
}

func TestAddTimeOnContainerFails(t *testing.T) {
	p := seedProject(t)

	_, err := p.AddTime("foundation", time.Hour)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAddTimeOnTerminalActionFails(t *testing.T) {
	p := seedProject(t)

	item, err := p.Resolve("1/1/1/1/1")
	require.NoError(t, err)
	require.NoError(t, item.SetStatus(StatusCompleted))

	_, err = p.AddTime("1/1/1/1/1", time.Hour)
	var ts *TerminalStateError
	require.ErrorAs(t, err, &ts)
	assert.Zero(t, item.TimeSpent)
}

func TestAddTimeRejectsNonPositive(t *testing.T) {
	p := seedProject(t)

	_, err := p.AddTime("1/1/1/1/1", 0)
	assert.Error(t, err)
	_, err = p.AddTime("1/1/1/1/1", -time.Minute)
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	p := seedProject(t)

	first, err := p.Resolve("1/1/1/1/1")
	require.NoError(t, err)
	require.NoError(t, first.SetStatus(StatusCompleted))

	counts := p.Counts()
	assert.Equal(t, 1, counts[KindPhase].Total)
	assert.Equal(t, 2, counts[KindDeliverable].Total)
	assert.Equal(t, 3, counts[KindAction].Total)
	assert.Equal(t, 1, counts[KindAction].Completed)
	assert.Equal(t, 2, counts[KindAction].Pending)
}

func TestCompletionPercent(t *testing.T) {
	p := seedProject(t)

	schema, err := p.Resolve("1/1/1/1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, CompletionPercent(schema))

	require.NoError(t, schema.Children[0].SetStatus(StatusCompleted))
	assert.Equal(t, 50.0, CompletionPercent(schema))

	empty := NewItem(KindDeliverable, "Empty", "", "empty")
	assert.Equal(t, 0.0, CompletionPercent(empty))
}

func TestOverdueActions(t *testing.T) {
	p := seedProject(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	item, err := p.Resolve("1/1/1/1/1")
	require.NoError(t, err)
	past := now.Add(-48 * time.Hour)
	item.DueDate = &past

	done, err := p.Resolve("1/1/1/1/2")
	require.NoError(t, err)
	done.DueDate = &past
	require.NoError(t, done.SetStatus(StatusCompleted))

	overdue := p.OverdueActions(now)
	require.Len(t, overdue, 1)
	assert.Same(t, item, overdue[0])
}
