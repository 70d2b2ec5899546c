package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Diff colors
	DiffInsertBg string
	DiffDeleteBg string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu sync.RWMutex
	current   = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		Label: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		Value: lipgloss.NewStyle().
			Foreground(c(t.FgBase)),
		Muted: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
		Error: lipgloss.NewStyle().
			Foreground(c(t.Error)),
		Success: lipgloss.NewStyle().
			Foreground(c(t.Success)),
		Warning: lipgloss.NewStyle().
			Foreground(c(t.Warning)),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BgSurface2)).
			Padding(0, 1),
		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true).
			Align(lipgloss.Center),
		HintKey: lipgloss.NewStyle().
			Foreground(c(t.FgBright)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(c(t.BgSurface2)),
		DiffInsert: lipgloss.NewStyle().
			Foreground(c(t.Success)).
			Background(c(t.DiffInsertBg)),
		DiffDelete: lipgloss.NewStyle().
			Foreground(c(t.Error)).
			Background(c(t.DiffDeleteBg)),
		DiffHunk: lipgloss.NewStyle().
			Foreground(c(t.Info)),
	}
}
