// Package tui is the interactive tree browser over a prism project:
// read-mostly navigation of the five-level hierarchy plus the
// start/done/next progression keys. Structural edits stay on the CLI.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stefanpenner/prism/pkg/store"
	gsync "github.com/stefanpenner/prism/pkg/sync"
	"github.com/stefanpenner/prism/pkg/tracker"
)

// FileChangedMsg is sent when the file watcher detects changes.
type FileChangedMsg struct{}

// SyncDoneMsg is sent when git sync completes.
type SyncDoneMsg struct {
	Err error
}

// Model is the Bubble Tea model for the project browser.
type Model struct {
	store  *store.Store
	keys   KeyMap
	width  int
	height int

	project      *tracker.Project
	visibleItems []TreeItem
	expanded     map[string]bool
	cursor       int
	allExpanded  bool

	// Filter state
	isFiltering bool
	filterQuery string

	showHelpModal bool

	statusMsg     string
	statusTimeout time.Time

	loadErr error
}

// NewModel creates a new TUI model.
func NewModel(s *store.Store) Model {
	return Model{
		store:    s,
		keys:     DefaultKeyMap(),
		expanded: make(map[string]bool),
	}
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
		m.reload()
		return m, tea.ClearScreen

	case FileChangedMsg:
		m.reload()
		return m, nil

	case SyncDoneMsg:
		if msg.Err != nil {
			m.setStatus("sync failed: " + msg.Err.Error())
		} else {
			m.setStatus("synced")
		}
		m.reload()
		return m, nil

	case tea.KeyMsg:
		if m.isFiltering {
			return m.updateFiltering(msg)
		}
		if m.showHelpModal {
			m.showHelpModal = false
			return m, nil
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visibleItems)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Left):
		if item, ok := m.selected(); ok {
			if item.HasChildren && item.IsExpanded {
				m.expanded[item.Path] = false
				m.refresh()
			} else {
				m.moveToParent(item)
			}
		}

	case key.Matches(msg, m.keys.Right):
		if item, ok := m.selected(); ok && item.HasChildren {
			m.expanded[item.Path] = true
			m.refresh()
		}

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selected(); ok && item.HasChildren {
			m.expanded[item.Path] = !item.IsExpanded
			m.refresh()
		}

	case key.Matches(msg, m.keys.Start):
		m.mutate(func(p *tracker.Project) error {
			action, err := p.Start()
			if err != nil {
				return err
			}
			m.setStatus("started " + action.Slug)
			return nil
		})

	case key.Matches(msg, m.keys.Done):
		m.mutate(func(p *tracker.Project) error {
			action, _, err := p.Done(true)
			if err != nil {
				return err
			}
			m.setStatus("completed " + action.Slug)
			return nil
		})

	case key.Matches(msg, m.keys.Next):
		m.mutate(func(p *tracker.Project) error {
			completed, started, _, err := p.Next(true)
			if err != nil {
				return err
			}
			if started != nil {
				m.setStatus("completed " + completed.Slug + ", started " + started.Slug)
			} else {
				m.setStatus("completed " + completed.Slug + "; nothing left in this objective")
			}
			return nil
		})

	case key.Matches(msg, m.keys.ToggleExpand):
		m.allExpanded = !m.allExpanded
		for path := range m.expanded {
			m.expanded[path] = m.allExpanded
		}
		m.refresh()

	case key.Matches(msg, m.keys.Reload):
		m.reload()
		m.setStatus("reloaded")

	case key.Matches(msg, m.keys.Sync):
		dir := m.store.Root
		return m, func() tea.Msg {
			return SyncDoneMsg{Err: gsync.SyncRepo(dir)}
		}

	case key.Matches(msg, m.keys.Search):
		m.isFiltering = true
		m.filterQuery = ""

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

func (m Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.isFiltering = false
		m.filterQuery = ""
		m.refresh()
	case "enter":
		m.isFiltering = false
	case "backspace":
		if len(m.filterQuery) > 0 {
			m.filterQuery = m.filterQuery[:len(m.filterQuery)-1]
			m.refresh()
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.filterQuery += string(msg.Runes)
			m.refresh()
		}
	}
	return m, nil
}

// mutate runs one load-free mutation against the in-memory project and
// persists it. On failure the project is reloaded so the view never
// shows unsaved state.
func (m *Model) mutate(fn func(*tracker.Project) error) {
	if m.project == nil {
		return
	}
	if err := fn(m.project); err != nil {
		m.setStatus(err.Error())
		m.reload()
		return
	}
	if err := m.store.Save(m.project); err != nil {
		m.setStatus("save failed: " + err.Error())
		m.reload()
		return
	}
	m.refresh()
}

// reload re-reads the project from disk and rebuilds the visible rows.
func (m *Model) reload() {
	p, err := m.store.Load()
	m.loadErr = err
	if err != nil {
		m.project = nil
		m.visibleItems = nil
		return
	}
	m.project = p
	m.refresh()
}

// refresh rebuilds the flattened rows from the in-memory project.
func (m *Model) refresh() {
	if m.project == nil {
		return
	}
	items := FlattenVisibleItems(m.project, m.expanded)
	m.visibleItems = FilterItems(items, m.filterQuery)
	if m.cursor >= len(m.visibleItems) {
		m.cursor = len(m.visibleItems) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visibleItems) {
		return TreeItem{}, false
	}
	return m.visibleItems[m.cursor], true
}

func (m *Model) moveToParent(item TreeItem) {
	for i := m.cursor - 1; i >= 0; i-- {
		if m.visibleItems[i].Depth < item.Depth {
			m.cursor = i
			return
		}
	}
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(4 * time.Second)
}
