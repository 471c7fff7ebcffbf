package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stefanpenner/raidlog/pkg/catalog"
	"github.com/stefanpenner/raidlog/pkg/store"
	"github.com/stefanpenner/raidlog/pkg/tracker"
)

// FileChangedMsg is sent when the file watcher sees the saved state change.
type FileChangedMsg struct{}

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmRemove
	confirmClear
)

// Model is the Bubble Tea model for the tracker TUI.
type Model struct {
	tracker     *tracker.Tracker
	dataDir     string
	keys        KeyMap
	width       int
	height      int
	tab         int // index into catalog.Categories, or len(Categories) for the checklist
	items       []ListItem
	expanded    map[string]bool
	cursor      int
	focusedPane int // 0 = list, 1 = details
	scroll      int

	// Modal state
	showHelpModal bool
	confirm       confirmAction
	confirmTarget string

	// Search state
	isSearching    bool
	searchQuery    string
	searchMatchIDs map[string]bool

	// Status message
	statusMsg     string
	statusTimeout time.Time

	// Cached glamour renderer (expensive to create)
	glamourRenderer *glamour.TermRenderer
	glamourWidth    int

	allExpanded bool
}

// NewModel creates a TUI model over tr. dataDir is only displayed.
func NewModel(tr *tracker.Tracker, dataDir string) Model {
	m := Model{
		tracker:  tr,
		dataDir:  dataDir,
		keys:     DefaultKeyMap(),
		expanded: make(map[string]bool),
	}
	m.rebuildVisible()
	return m
}

// Run starts the TUI and reloads state whenever another process rewrites
// the store's files.
func Run(tr *tracker.Tracker, s *store.Store, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(tr, s.Root), tea.WithAltScreen())

	cleanup, err := StartWatcher(s.WatchPaths(), p, logger)
	if err != nil {
		logger.Warn("file watcher failed", "error", err)
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.getGlamourRenderer(max(20, m.detailWidth()-2))
		m.rebuildVisible()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.isSearching {
		return m.handleSearchInput(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.confirm != confirmNone {
		switch msg.String() {
		case "y", "Y":
			m.runConfirmed()
			m.confirm = confirmNone
		case "n", "N", "esc":
			m.confirm = confirmNone
		}
		return m, nil
	}

	// Esc/Enter clears an active filter once typing is done.
	if m.searchQuery != "" && (msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter) {
		cur := m.selectedID()
		m.searchQuery = ""
		m.searchMatchIDs = nil
		m.rebuildVisible()
		m.moveCursorTo(cur)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.focusedPane == 1 {
			m.scroll = max(0, m.scroll-1)
		} else if m.cursor > 0 {
			m.cursor--
			m.scroll = 0
		}

	case key.Matches(msg, m.keys.Down):
		if m.focusedPane == 1 {
			m.scroll++
		} else if m.cursor < len(m.items)-1 {
			m.cursor++
			m.scroll = 0
		}

	case key.Matches(msg, m.keys.Right):
		if item, ok := m.selected(); ok && item.Kind == KindEntity && item.HasChildren {
			m.expanded[item.ID] = true
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Left):
		if item, ok := m.selected(); ok && item.Kind != KindEntry {
			m.expanded[item.RootID] = false
			m.rebuildVisible()
			m.moveCursorTo(item.RootID)
		}

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selected(); ok && item.Kind == KindEntity && item.HasChildren {
			m.expanded[item.ID] = !m.expanded[item.ID]
			m.rebuildVisible()
		}

	case key.Matches(msg, m.keys.Space):
		m.toggleSelected()

	case key.Matches(msg, m.keys.Increment):
		m.stepSelected(1)

	case key.Matches(msg, m.keys.Decrement):
		m.stepSelected(-1)

	case key.Matches(msg, m.keys.Add):
		m.addSelected()

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok && item.Kind == KindEntry {
			m.confirm = confirmRemove
			m.confirmTarget = item.Entry.ItemID
		}

	case key.Matches(msg, m.keys.Clear):
		if m.tracker.Checklist.Len() > 0 {
			m.confirm = confirmClear
		}

	case key.Matches(msg, m.keys.Tab):
		m.focusedPane = (m.focusedPane + 1) % 2

	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)

	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)

	case key.Matches(msg, m.keys.ToggleExpand):
		m.allExpanded = !m.allExpanded
		for _, cat := range catalog.Categories {
			for _, e := range m.tracker.Catalog.Entities(cat) {
				m.expanded[entityItemID(e)] = m.allExpanded
			}
		}
		cur := m.selectedRootID()
		m.rebuildVisible()
		m.moveCursorTo(cur)

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("Reloaded")

	case key.Matches(msg, m.keys.Search):
		m.isSearching = true
		m.searchQuery = ""
		m.searchMatchIDs = nil
		m.focusedPane = 0

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

// handleSearchInput handles key messages while typing in the search bar.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.isSearching = false
		m.searchQuery = ""
		m.searchMatchIDs = nil
		m.rebuildVisible()
		return m, nil

	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Stop typing but keep the filter.
		m.isSearching = false
		return m, nil

	case tea.KeyBackspace:
		if len(m.searchQuery) > 0 {
			_, size := utf8.DecodeLastRuneInString(m.searchQuery)
			m.searchQuery = m.searchQuery[:len(m.searchQuery)-size]
		}
		m.rebuildVisible()
		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.searchQuery += " "
		} else {
			m.searchQuery += string(msg.Runes)
		}
		m.cursor = 0
		m.rebuildVisible()
	}
	return m, nil
}

func (m *Model) toggleSelected() {
	item, ok := m.selected()
	if !ok {
		return
	}
	var err error
	switch item.Kind {
	case KindEntity:
		if item.HasChildren {
			m.expanded[item.ID] = !m.expanded[item.ID]
		}
	case KindRequirement:
		err = m.tracker.ToggleDone(item.Row)
	case KindEntry:
		have := item.Entry.Total
		if item.Entry.Have >= item.Entry.Total {
			have = 0
		}
		err = m.tracker.SetHave(item.Entry.ItemID, have)
	}
	m.afterMutation(err, "")
}

func (m *Model) stepSelected(delta int) {
	item, ok := m.selected()
	if !ok {
		return
	}
	var err error
	switch item.Kind {
	case KindRequirement:
		err = m.tracker.Step(item.Row, delta)
	case KindEntry:
		err = m.tracker.IncrementHave(item.Entry.ItemID, delta)
	default:
		return
	}
	m.afterMutation(err, "")
}

func (m *Model) addSelected() {
	item, ok := m.selected()
	if !ok || item.Kind == KindEntry {
		return
	}

	var rows []tracker.Row
	switch item.Kind {
	case KindEntity:
		rows = m.tracker.Rows(item.Entity)
	case KindStage:
		rows = m.tracker.StageRows(item.Entity, item.Stage)
	case KindRequirement:
		rows = []tracker.Row{item.Row}
	}

	added, err := m.tracker.AddRowsToChecklist(rows)
	status := "Nothing left to add"
	if added > 0 {
		status = fmt.Sprintf("Added %d to checklist", added)
	}
	m.afterMutation(err, status)
}

func (m *Model) runConfirmed() {
	switch m.confirm {
	case confirmRemove:
		err := m.tracker.RemoveFromChecklist(m.confirmTarget)
		m.afterMutation(err, "Removed "+m.confirmTarget)
	case confirmClear:
		err := m.tracker.ClearChecklist()
		m.afterMutation(err, "Checklist cleared")
	}
	m.confirmTarget = ""
}

func (m *Model) afterMutation(err error, status string) {
	if err != nil {
		m.setStatus("Error: " + err.Error())
	} else if status != "" {
		m.setStatus(status)
	}
	m.rebuildVisible()
}

func (m *Model) switchTab(delta int) {
	n := len(catalog.Categories) + 1
	m.tab = (m.tab + delta + n) % n
	m.cursor = 0
	m.scroll = 0
	m.searchQuery = ""
	m.searchMatchIDs = nil
	m.rebuildVisible()
}

func (m Model) onChecklist() bool {
	return m.tab == len(catalog.Categories)
}

func (m Model) tabLabel(i int) string {
	if i == len(catalog.Categories) {
		return fmt.Sprintf("Checklist (%d)", m.tracker.Checklist.Len())
	}
	return catalog.Categories[i].Label()
}

func (m Model) selected() (ListItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return ListItem{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) selectedID() string {
	item, _ := m.selected()
	return item.ID
}

func (m Model) selectedRootID() string {
	item, _ := m.selected()
	return item.RootID
}

func (m *Model) moveCursorTo(id string) {
	for i, item := range m.items {
		if item.ID == id {
			m.cursor = i
			return
		}
	}
}

// reload re-reads both stores from disk.
func (m *Model) reload() {
	if err := m.tracker.Reload(); err != nil {
		m.setStatus("Load error: " + err.Error())
	}
	m.rebuildVisible()
}

// rebuildVisible re-flattens the active tab from current tracker state.
func (m *Model) rebuildVisible() {
	var all []ListItem
	if m.onChecklist() {
		all = FlattenChecklist(m.tracker.Checklist.Entries())
	} else {
		cat := catalog.Categories[m.tab]
		all = FlattenEntities(m.tracker, m.tracker.Catalog.Entities(cat), m.expanded)
	}

	if strings.TrimSpace(m.searchQuery) != "" {
		m.searchMatchIDs = MatchItems(all, m.searchQuery, m.tracker.Catalog.ItemIndex())
		all = FilterItems(all, m.searchMatchIDs)
	} else {
		m.searchMatchIDs = nil
	}
	m.items = all

	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) detailWidth() int {
	return m.width - m.listWidth() - 1
}

func (m Model) listWidth() int {
	return max(30, m.width*2/5)
}

// getGlamourRenderer returns a cached glamour renderer, creating one if needed
// or if the width changed.
func (m *Model) getGlamourRenderer(width int) *glamour.TermRenderer {
	if m.glamourRenderer != nil && m.glamourWidth == width {
		return m.glamourRenderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	m.glamourRenderer = r
	m.glamourWidth = width
	return r
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}
