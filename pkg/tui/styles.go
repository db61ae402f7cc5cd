package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
)

// Header and footer styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)
)

// Tree item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NormalStyle = lipgloss.NewStyle()

	CompletedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	InProgressStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	ArchivedStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Strikethrough(true)

	CursorMarkStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	KindStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	OverdueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	DepthIndent = "  "
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(10)
)

// Filter bar styles
var (
	FilterBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	FilterCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Status icons
const (
	IconCompleted  = "✓"
	IconInProgress = "◐"
	IconPending    = "○"
	IconArchived   = "⊘"
	IconExpanded   = "▼"
	IconCollapsed  = "▶"
	IconCursor     = "▸"
)
