package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

const alloyKey = "workbench|gunsmith-l2-2|level-2|arc-alloy"

func setupTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	progress, err := store.NewProgress(&store.MemBackend{}, nil)
	require.NoError(t, err)
	checklist, err := store.NewChecklist(&store.MemBackend{}, cat, nil)
	require.NoError(t, err)
	return tracker.New(cat, progress, checklist, nil)
}

func ids(items []ListItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestFlattenEntities(t *testing.T) {
	tr := setupTestTracker(t)
	workbench := tr.Catalog.Entities(catalog.CategoryWorkbench)

	collapsed := FlattenEntities(tr, workbench, map[string]bool{})
	assert.Equal(t, []string{
		"workbench/scrappy-l2-0",
		"workbench/scrappy-l3-1",
		"workbench/gunsmith-l2-2",
		"workbench/medical-lab-l2-3",
	}, ids(collapsed))
	assert.True(t, collapsed[2].HasChildren)
	assert.False(t, collapsed[2].IsExpanded)

	expanded := FlattenEntities(tr, workbench, map[string]bool{"workbench/gunsmith-l2-2": true})
	require.Len(t, expanded, 8)
	assert.Equal(t, []string{
		"workbench/gunsmith-l2-2",
		"workbench/gunsmith-l2-2/level-2",
		"workbench|gunsmith-l2-2|level-2|metal-parts",
		"workbench|gunsmith-l2-2|level-2|rubber-parts",
		alloyKey,
	}, ids(expanded[2:7]))

	stage := expanded[3]
	assert.Equal(t, KindStage, stage.Kind)
	assert.Equal(t, 1, stage.Depth)
	assert.Equal(t, "workbench/gunsmith-l2-2", stage.RootID)

	req := expanded[6]
	assert.Equal(t, KindRequirement, req.Kind)
	assert.Equal(t, 2, req.Depth)
	assert.Equal(t, "ARC Alloy", req.Name)
	assert.Equal(t, 3, req.Completion.Total)
}

func TestFlattenEntitiesClampsOverflowingProgress(t *testing.T) {
	tr := setupTestTracker(t)
	gunsmith, err := tr.Catalog.Entity(catalog.CategoryWorkbench, "gunsmith-l2-2")
	require.NoError(t, err)
	require.NoError(t, tr.Progress.Set(catalog.NewProgressKey(gunsmith, "level-2", "arc-alloy"), 9))

	items := FlattenEntities(tr, []catalog.Entity{gunsmith}, map[string]bool{"workbench/gunsmith-l2-2": true})
	req := items[len(items)-1]
	assert.Equal(t, 9, req.Row.Value)
	assert.Equal(t, 3, req.Completion.Have)
	assert.True(t, req.Completion.Complete())
}

func TestFlattenChecklist(t *testing.T) {
	tr := setupTestTracker(t)
	require.NoError(t, tr.AddManual("lemon", 3))
	require.NoError(t, tr.AddManual("fabric", 2))
	require.NoError(t, tr.SetHave("fabric", 1))

	items := FlattenChecklist(tr.Checklist.Entries())
	assert.Equal(t, []string{"fabric", "lemon"}, ids(items))
	assert.Equal(t, KindEntry, items[0].Kind)
	assert.Equal(t, tracker.Completion{Have: 1, Total: 2}, items[0].Completion)
}

func TestMatchAndFilterItems(t *testing.T) {
	tr := setupTestTracker(t)
	workbench := tr.Catalog.Entities(catalog.CategoryWorkbench)
	all := FlattenEntities(tr, workbench, map[string]bool{"workbench/gunsmith-l2-2": true})

	// Entities match on the names of the items they require.
	matches := MatchItems(all, "fabric", tr.Catalog.ItemIndex())
	assert.Equal(t, map[string]bool{"workbench/medical-lab-l2-3": true}, matches)

	matches = MatchItems(all, "gunsmith", tr.Catalog.ItemIndex())
	filtered := FilterItems(all, matches)
	require.Len(t, filtered, 5)
	for _, it := range filtered {
		assert.Equal(t, "workbench/gunsmith-l2-2", it.RootID)
	}

	require.NoError(t, tr.AddManual("lemon", 1))
	entries := FlattenChecklist(tr.Checklist.Entries())
	assert.Equal(t, map[string]bool{"lemon": true}, MatchItems(entries, "manual", tr.Catalog.ItemIndex()))
	assert.Empty(t, MatchItems(entries, "alloy", tr.Catalog.ItemIndex()))
}

func TestEntityMarkdown(t *testing.T) {
	tr := setupTestTracker(t)
	gunsmith, err := tr.Catalog.Entity(catalog.CategoryWorkbench, "gunsmith-l2-2")
	require.NoError(t, err)

	r, err := tr.Row(catalog.NewProgressKey(gunsmith, "level-2", "arc-alloy"))
	require.NoError(t, err)
	require.NoError(t, tr.ToggleDone(r))

	md := EntityMarkdown(tr, gunsmith)
	assert.Contains(t, md, "# Gunsmith Level 2")
	assert.Contains(t, md, "**Progress:** 3/53 (6%)")
	assert.Contains(t, md, "| ✓ | ARC Alloy | 3 | 3 |")
	assert.Contains(t, md, "| Metal Parts | 0 | 20 |")
}

func TestEntityMarkdownWithoutRequirements(t *testing.T) {
	tr := setupTestTracker(t)
	quest, err := tr.Catalog.Entity(catalog.CategoryQuest, "clearer-skies")
	require.NoError(t, err)

	md := EntityMarkdown(tr, quest)
	assert.Contains(t, md, "# Clearer Skies")
	assert.Contains(t, md, "No item requirements.")
	assert.NotContains(t, md, "**Progress:**")
}

func TestEntryMarkdown(t *testing.T) {
	tr := setupTestTracker(t)
	require.NoError(t, tr.AddManual("arc-alloy", 2))
	e, ok := tr.Checklist.Entry("arc-alloy")
	require.True(t, ok)

	md := EntryMarkdown(tr.Catalog, e)
	assert.Contains(t, md, "# ARC Alloy")
	assert.Contains(t, md, "**Gathered:** 0 / 2")
	assert.Contains(t, md, "- Manual (2)")
	assert.Contains(t, md, "## Item")

	gone := store.Entry{ItemID: "old-thing", Name: "Old Thing", Total: 1}
	assert.Contains(t, EntryMarkdown(tr.Catalog, gone), "*Not in the current catalog.*")
}

// workbenchModel opens the workbench tab with Gunsmith expanded and the
// cursor on its ARC Alloy requirement.
func workbenchModel(t *testing.T, tr *tracker.Tracker) Model {
	t.Helper()
	m := NewModel(tr, "/tmp/raidlog")
	m = press(t, m, runes("]"), runes("]"))
	require.Equal(t, 2, m.tab)

	m = press(t, m, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("j"), runes("j"), runes("j"), runes("j"))
	item, ok := m.selected()
	require.True(t, ok)
	require.Equal(t, alloyKey, item.ID)
	return m
}

func TestModelStepsRequirement(t *testing.T) {
	tr := setupTestTracker(t)
	m := workbenchModel(t, tr)
	key, err := catalog.ParseProgressKey(alloyKey)
	require.NoError(t, err)

	m = press(t, m, runes("+"), runes("+"), runes("+"), runes("+"))
	assert.Equal(t, 3, tr.Progress.Value(key))

	m = press(t, m, runes("-"))
	assert.Equal(t, 2, tr.Progress.Value(key))

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 3, tr.Progress.Value(key))
	item, _ := m.selected()
	assert.True(t, item.Completion.Complete())
}

func TestModelAddsAndRemovesChecklistEntries(t *testing.T) {
	tr := setupTestTracker(t)
	m := workbenchModel(t, tr)

	m = press(t, m, runes("a"))
	assert.True(t, tr.Checklist.Linked(m.items[m.cursor].Row.Key))
	assert.Equal(t, "Added 1 to checklist", m.statusMsg)

	m = press(t, m, runes("a"))
	assert.Equal(t, "Nothing left to add", m.statusMsg)

	m = press(t, m, runes("]"))
	require.True(t, m.onChecklist())
	require.Len(t, m.items, 1)
	assert.Equal(t, "arc-alloy", m.items[0].ID)

	m = press(t, m, runes("+"))
	e, _ := tr.Checklist.Entry("arc-alloy")
	assert.Equal(t, 1, e.Have)

	m = press(t, m, runes("d"))
	assert.Equal(t, confirmRemove, m.confirm)
	m = press(t, m, runes("n"))
	assert.Equal(t, confirmNone, m.confirm)
	assert.Equal(t, 1, tr.Checklist.Len())

	m = press(t, m, runes("d"), runes("y"))
	assert.Equal(t, 0, tr.Checklist.Len())
	assert.Empty(t, m.items)
	assert.Equal(t, 0, m.cursor)
}

func TestModelClearChecklist(t *testing.T) {
	tr := setupTestTracker(t)
	require.NoError(t, tr.AddManual("lemon", 1))
	require.NoError(t, tr.AddManual("fabric", 1))

	m := NewModel(tr, "")
	m = press(t, m, runes("["))
	require.True(t, m.onChecklist())
	require.Len(t, m.items, 2)

	m = press(t, m, runes("X"), runes("y"))
	assert.Equal(t, 0, tr.Checklist.Len())
	assert.Empty(t, m.items)
}

func TestModelSearch(t *testing.T) {
	tr := setupTestTracker(t)
	m := NewModel(tr, "")
	m = press(t, m, runes("]"), runes("]"))

	m = press(t, m, runes("/"), runes("f"), runes("a"), runes("b"))
	assert.True(t, m.isSearching)
	assert.Equal(t, "fab", m.searchQuery)
	assert.Equal(t, []string{"workbench/medical-lab-l2-3"}, ids(m.items))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.isSearching)
	assert.Len(t, m.items, 1)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.searchQuery)
	assert.Len(t, m.items, 4)
	item, _ := m.selected()
	assert.Equal(t, "workbench/medical-lab-l2-3", item.ID)
}

func TestModelFileChangedReloads(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	backend := &store.MemBackend{}
	progress, err := store.NewProgress(backend, nil)
	require.NoError(t, err)
	checklist, err := store.NewChecklist(&store.MemBackend{}, cat, nil)
	require.NoError(t, err)
	tr := tracker.New(cat, progress, checklist, nil)

	m := NewModel(tr, "")
	key, err := catalog.ParseProgressKey(alloyKey)
	require.NoError(t, err)

	// Another process writes the progress blob.
	other, err := store.NewProgress(backend, nil)
	require.NoError(t, err)
	require.NoError(t, other.Set(key, 2))
	assert.Equal(t, 0, tr.Progress.Value(key))

	press(t, m, FileChangedMsg{})
	assert.Equal(t, 2, tr.Progress.Value(key))
}

func TestModelView(t *testing.T) {
	tr := setupTestTracker(t)
	m := NewModel(tr, "/data/raidlog")
	m = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	view := m.View()
	assert.Contains(t, view, "raidlog")
	assert.Contains(t, view, "Checklist (0)")
	assert.Contains(t, view, "/data/raidlog")

	m = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelpModal)
}
