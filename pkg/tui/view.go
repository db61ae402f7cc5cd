package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/prism/pkg/tracker"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.loadErr != nil {
		return "Error loading project: " + m.loadErr.Error() + "\n\nPress q to quit.\n"
	}
	if m.project == nil {
		return "Loading...\n"
	}
	if m.showHelpModal {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTree())
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	counts := m.project.Counts()
	actions := counts[tracker.KindAction]
	summary := fmt.Sprintf("  %d/%d actions done", actions.Completed, actions.Total)

	title := HeaderStyle.Render("prism")
	if obj := m.project.CurrentObjective(); obj != nil {
		title += HeaderCountStyle.Render("  ·  " + obj.Name)
	}
	return title + HeaderCountStyle.Render(summary) + "\n"
}

func (m Model) renderTree() string {
	if len(m.visibleItems) == 0 {
		if m.filterQuery != "" {
			return "  no matches\n\n"
		}
		return "  Empty project. Use `prism add phase <name>` to begin.\n\n"
	}

	// Keep the selection in view.
	visibleRows := m.height - 4
	if visibleRows < 1 {
		visibleRows = 1
	}
	start := 0
	if m.cursor >= visibleRows {
		start = m.cursor - visibleRows + 1
	}
	end := start + visibleRows
	if end > len(m.visibleItems) {
		end = len(m.visibleItems)
	}

	current := m.project.CurrentAction()

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.visibleItems[i], i == m.cursor, current))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(item TreeItem, selected bool, current *tracker.Item) string {
	it := item.Item

	fold := " "
	if item.HasChildren {
		fold = IconCollapsed
		if item.IsExpanded {
			fold = IconExpanded
		}
	}

	var icon string
	var style lipgloss.Style
	switch it.Status {
	case tracker.StatusCompleted:
		icon, style = IconCompleted, CompletedStyle
	case tracker.StatusInProgress:
		icon, style = IconInProgress, InProgressStyle
	case tracker.StatusArchived:
		icon, style = IconArchived, ArchivedStyle
	default:
		icon, style = IconPending, PendingStyle
	}

	name := it.Name
	if it.Kind == tracker.KindAction && it.DueDate != nil {
		due := it.DueDate.Format("2006-01-02")
		if !it.Terminal() && it.DueDate.Before(time.Now()) {
			name += " " + OverdueStyle.Render("(due "+due+")")
		} else {
			name += " " + KindStyle.Render("(due "+due+")")
		}
	}

	mark := " "
	if current != nil && it.ID == current.ID {
		mark = CursorMarkStyle.Render(IconCursor)
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(DepthIndent, item.Depth),
		fold,
		style.Render(icon),
		mark,
		name,
	)

	if selected {
		return SelectedStyle.Render(line)
	}
	return NormalStyle.Render(line)
}

func (m Model) renderFooter() string {
	if m.isFiltering {
		return FilterBarStyle.Render("/"+m.filterQuery) +
			FilterCountStyle.Render(fmt.Sprintf("  %d rows", len(m.visibleItems)))
	}
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		return StatusMsgStyle.Render(m.statusMsg)
	}
	return FooterStyle.Render(m.keys.ShortHelp())
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(ModalTitleStyle.Render("prism keys"))
	b.WriteString("\n\n")
	for _, row := range m.keys.FullHelp() {
		b.WriteString(ModalLabelStyle.Render(row[0]))
		b.WriteString(row[1])
		b.WriteString("\n")
	}
	b.WriteString("\nPress any key to close.")
	return ModalStyle.Render(b.String())
}
