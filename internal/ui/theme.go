package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/balloon/internal/state"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	StateColors map[state.JobState]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style
	Label  lipgloss.Style
	Panel  lipgloss.Style

	stateColors map[state.JobState]string
	background  string
	muted       string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(10),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Faint)).
			Padding(0, 1),

		stateColors: t.StateColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// StateBadge returns the badge style for a job state.
func (s Styles) StateBadge(js state.JobState) lipgloss.Style {
	color := s.stateColors[js]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1)
}

var themes = map[string]Theme{
	"Ink":   inkTheme(),
	"Paper": paperTheme(),
}

var themeOrder = []string{"Ink", "Paper"}

// GetTheme returns a theme by name, falling back to Ink.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return inkTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func inkTheme() Theme {
	return Theme{
		Name:       "Ink",
		Background: "#191A21",
		Surface:    "#282A36",
		Text:       "#F8F8F2",
		Muted:      "#6272A4",
		Faint:      "#44475A",
		Accent:     "#BD93F9",
		Success:    "#50FA7B",
		Warning:    "#FFB86C",
		Danger:     "#FF5555",
		Info:       "#8BE9FD",
		StateColors: map[state.JobState]string{
			state.Idle:       "#6272A4",
			state.Submitting: "#8BE9FD",
			state.Processing: "#BD93F9",
			state.Done:       "#50FA7B",
			state.Error:      "#FF5555",
			state.TimedOut:   "#FFB86C",
		},
	}
}

func paperTheme() Theme {
	return Theme{
		Name:       "Paper",
		Background: "#FAF8F2",
		Surface:    "#ECE8DC",
		Text:       "#2B2A26",
		Muted:      "#6F6A5E",
		Faint:      "#B9B2A2",
		Accent:     "#5B4FC4",
		Success:    "#2E7D32",
		Warning:    "#B26A00",
		Danger:     "#C62828",
		Info:       "#00838F",
		StateColors: map[state.JobState]string{
			state.Idle:       "#6F6A5E",
			state.Submitting: "#00838F",
			state.Processing: "#5B4FC4",
			state.Done:       "#2E7D32",
			state.Error:      "#C62828",
			state.TimedOut:   "#B26A00",
		},
	}
}
