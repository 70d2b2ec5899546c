package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/tui"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// StatusFetcher reports the usage of one environment.
type StatusFetcher interface {
	EnvironmentStatus(ctx context.Context, env string) (*api.EnvironmentStatus, error)
}

// StatusMsg carries the result of one environment status fetch.
type StatusMsg struct {
	Environment string
	Status      *api.EnvironmentStatus
	Err         error
}

// refreshTickMsg starts a polling round.
type refreshTickMsg struct{}

// Model is the environment dashboard.
type Model struct {
	fetcher  StatusFetcher
	interval time.Duration
	now      func() time.Time

	cards    []Card
	selected int
	pending  int

	spinner spinner.Model
	confirm *tui.ConfirmationModal
	toast   *tui.Toast

	width  int
	height int
}

// New creates a dashboard polling each environment every interval. A zero
// interval disables polling; "r" still refreshes.
func New(fetcher StatusFetcher, environments []string, interval time.Duration) *Model {
	cards := make([]Card, len(environments))
	for i, env := range environments {
		cards[i] = Card{Environment: env, LastActivity: "-"}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	return &Model{
		fetcher:  fetcher,
		interval: interval,
		now:      time.Now,
		cards:    cards,
		spinner:  s,
		confirm:  tui.NewConfirmationModal("Cleanup environment", ""),
		toast:    tui.NewToast(),
		width:    80,
		height:   24,
	}
}

// Run shows the dashboard until the user quits.
func Run(fetcher StatusFetcher, environments []string, interval time.Duration) error {
	if _, err := tea.NewProgram(New(fetcher, environments, interval)).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// Cards returns the current environment cards.
func (m *Model) Cards() []Card {
	return m.cards
}

// Selected returns the highlighted environment.
func (m *Model) Selected() string {
	if len(m.cards) == 0 {
		return ""
	}
	return m.cards[m.selected].Environment
}

// Init starts the first refresh and the poll loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.scheduleTick())
}

func (m *Model) scheduleTick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// refresh fetches every environment; each fetch is its own command so one
// slow environment does not hold up the others. A round still running is
// left to finish.
func (m *Model) refresh() tea.Cmd {
	if len(m.cards) == 0 || m.Loading() {
		return nil
	}
	cmds := []tea.Cmd{m.spinner.Tick}
	for _, c := range m.cards {
		cmds = append(cmds, m.fetch(c.Environment))
	}
	m.pending = len(m.cards)
	return tea.Batch(cmds...)
}

func (m *Model) fetch(env string) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		status, err := fetcher.EnvironmentStatus(context.Background(), env)
		return StatusMsg{Environment: env, Status: status, Err: err}
	}
}

// Loading reports whether a refresh round is still running.
func (m *Model) Loading() bool {
	return m.pending > 0
}

// Update handles messages for the dashboard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case StatusMsg:
		for i := range m.cards {
			if m.cards[i].Environment == msg.Environment {
				if msg.Err != nil {
					logger.Warn("status of %s: %v", msg.Environment, msg.Err)
				}
				m.cards[i].apply(msg.Status, msg.Err, m.now())
			}
		}
		if m.pending > 0 {
			m.pending--
		}
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.refresh(), m.scheduleTick())

	case spinner.TickMsg:
		if !m.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tui.ToastDismissMsg:
		m.toast.Update(msg)
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.confirm.IsVisible() {
		if m.confirm.HandleKey(msg) == tui.ConfirmYes {
			// No cleanup endpoint exists for whole environments yet.
			return m.toast.Show(tui.ToastInfo, fmt.Sprintf("Cleanup %s - coming soon", m.Selected()))
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "left", "h", "shift+tab":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l", "tab":
		if m.selected < len(m.cards)-1 {
			m.selected++
		}
	case "r":
		return m.refresh()
	case "c":
		if len(m.cards) > 0 {
			m.confirm.Show(fmt.Sprintf("Are you sure you want to cleanup the %s environment?", m.Selected()))
		}
	}
	return nil
}

func statusStyle(s Status) lipgloss.Style {
	t := theme.Current()
	color := t.FgMuted
	switch s {
	case StatusClean:
		color = t.Success
	case StatusInUse:
		color = t.Info
	case StatusNeedsCleanup:
		color = t.Warning
	case StatusError:
		color = t.Error
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

func (m *Model) renderCard(c Card, selected bool, width int) string {
	st := theme.Current().S()
	title := lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(c.Environment))
	status := statusStyle(c.Status).Render("● " + c.Status.String())
	if c.Status == StatusLoading {
		status = m.spinner.View() + " " + st.Muted.Render("Loading")
	}

	lines := []string{
		title,
		status,
		"",
		st.Label.Render("Subaccounts: ") + st.Value.Render(fmt.Sprint(c.Subaccounts)),
		st.Label.Render("Courses: ") + st.Value.Render(fmt.Sprint(c.Courses)),
		st.Label.Render("Last activity: ") + st.Value.Render(c.LastActivity),
	}

	card := st.Card
	if selected {
		card = st.CardFocused
	}
	return card.Width(width).Render(strings.Join(lines, "\n"))
}

// View renders the dashboard.
func (m *Model) View() tea.View {
	st := theme.Current().S()

	header := st.HeaderTitle.Render("Test environments")
	if m.Loading() {
		header += " " + m.spinner.View()
	}

	cardWidth := 30
	if n := len(m.cards); n > 0 {
		cardWidth = max(min((m.width-4)/n-2, 40), 24)
	}
	cards := make([]string, len(m.cards))
	for i, c := range m.cards {
		cards[i] = m.renderCard(c, i == m.selected, cardWidth)
	}

	body := st.Muted.Render("No environments configured")
	if len(cards) > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	hints := tui.RenderHintBar(
		tui.KeyLeftRight, "select",
		"r", "refresh",
		"c", "cleanup",
		"q", "quit",
	)
	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", hints)
	content = lipgloss.NewStyle().Padding(1, 2).Render(content)

	if m.confirm.IsVisible() {
		content = tui.Overlay(m.confirm.Render(), m.width, m.height)
	}
	if m.toast.IsVisible() {
		content = tui.OverlayToast(lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content), m.toast.View(m.width, m.height))
	}
	return tui.Screen(content, m.width, m.height)
}
