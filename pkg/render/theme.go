package render

import "github.com/charmbracelet/lipgloss"

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style // rule IDs, file paths
	Success lipgloss.Style // clean documents, fewer results
	Warning lipgloss.Style // result counts, base rewrites
	Error   lipgloss.Style
	Muted   lipgloss.Style // help text, suppressed rules, bases
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Clean      string
	Error      string
	Warn       string
	Info       string
	Rule       string
	Suppressed string
	Bullet     string
	Fewer      string
	More       string
	Same       string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Clean:      "✓",
			Error:      "✗",
			Warn:       "⚠",
			Info:       "●",
			Rule:       "●",
			Suppressed: "✗",
			Bullet:     "·",
			Fewer:      "↓",
			More:       "↑",
			Same:       "=",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // lighter gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Clean:      "✓",
			Error:      "✗",
			Warn:       "!",
			Info:       "·",
			Rule:       "·",
			Suppressed: "–",
			Bullet:     "·",
			Fewer:      "↓",
			More:       "↑",
			Same:       "=",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors). Suppressed rules stay
// distinguishable by icon alone.
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Primary: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Clean:      "+",
			Error:      "x",
			Warn:       "!",
			Info:       "*",
			Rule:       "*",
			Suppressed: "x",
			Bullet:     "-",
			Fewer:      "↓",
			More:       "↑",
			Same:       "=",
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// ForKind returns the icon and style for a summary metric kind.
func (th Theme) ForKind(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return th.Icons.Clean, th.Success
	case "error":
		return th.Icons.Error, th.Error
	case "warning":
		return th.Icons.Warn, th.Warning
	default:
		return th.Icons.Info, th.Primary
	}
}

// ForRule returns the row marker and style for a rule table entry.
func (th Theme) ForRule(suppressed bool) (string, lipgloss.Style) {
	if suppressed {
		return th.Icons.Suppressed, th.Muted
	}
	return th.Icons.Rule, th.Primary
}

// ForChange returns the arrow and style for a result count delta. Fewer
// results is good news.
func (th Theme) ForChange(delta int) (string, lipgloss.Style) {
	switch {
	case delta < 0:
		return th.Icons.Fewer, th.Success
	case delta > 0:
		return th.Icons.More, th.Warning
	default:
		return th.Icons.Same, th.Muted
	}
}
