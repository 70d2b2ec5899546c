package requests

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

const cleanupQuestion = "Are you sure you want to cleanup this request? This will delete all created resources."

// Backend is the part of the API the request list uses.
type Backend interface {
	ListRequests(ctx context.Context) ([]api.RequestRecord, error)
	CleanupRequest(ctx context.Context, id string) (*api.CleanupResult, error)
}

// LoadedMsg carries the result of loading the request list.
type LoadedMsg struct {
	Records []api.RequestRecord
	Err     error
}

// CleanedMsg carries the result of a cleanup.
type CleanedMsg struct {
	ID     string
	Result *api.CleanupResult
	Err    error
}

// Model is the request list.
type Model struct {
	backend Backend
	now     func() time.Time

	records  []api.RequestRecord
	loadErr  error
	loading  bool
	cleaning string // id of the request being cleaned up
	selected int
	offset   int

	spinner spinner.Model
	confirm *tui.ConfirmationModal
	toast   *tui.Toast

	width  int
	height int
}

// New creates the request list.
func New(backend Backend) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	return &Model{
		backend: backend,
		now:     time.Now,
		spinner: s,
		confirm: tui.NewConfirmationModal("Cleanup request", cleanupQuestion),
		toast:   tui.NewToast(),
		width:   80,
		height:  24,
	}
}

// Run shows the request list until the user quits.
func Run(backend Backend) error {
	if _, err := tea.NewProgram(New(backend)).Run(); err != nil {
		return fmt.Errorf("request list failed: %w", err)
	}
	return nil
}

// Records returns the loaded records.
func (m *Model) Records() []api.RequestRecord {
	return m.records
}

// Selected returns the highlighted record, if any.
func (m *Model) Selected() (api.RequestRecord, bool) {
	if m.selected < 0 || m.selected >= len(m.records) {
		return api.RequestRecord{}, false
	}
	return m.records[m.selected], true
}

// Init loads the list.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	backend := m.backend
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		records, err := backend.ListRequests(context.Background())
		return LoadedMsg{Records: records, Err: err}
	})
}

func (m *Model) cleanup(id string) tea.Cmd {
	m.cleaning = id
	backend := m.backend
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := backend.CleanupRequest(context.Background(), id)
		return CleanedMsg{ID: id, Result: res, Err: err}
	})
}

// Update handles messages for the request list.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.loadErr = msg.Err
		if msg.Err != nil {
			logger.Warn("loading requests: %v", msg.Err)
			return m, nil
		}
		m.records = msg.Records
		m.selected = min(m.selected, max(len(m.records)-1, 0))
		return m, nil

	case CleanedMsg:
		m.cleaning = ""
		if msg.Err != nil {
			logger.Warn("cleanup of %s: %v", msg.ID, msg.Err)
			return m, m.toast.Show(tui.ToastError, "Failed to cleanup request: "+msg.Err.Error())
		}
		logger.Info("cleaned up request %s", msg.ID)
		return m, tea.Batch(
			m.toast.Show(tui.ToastSuccess, CleanupNotice(msg.Result)),
			m.load(),
		)

	case spinner.TickMsg:
		if !m.loading && m.cleaning == "" {
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
			if rec, ok := m.Selected(); ok {
				return m.cleanup(rec.ID)
			}
		}
		return nil
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.records)-1 {
			m.selected++
		}
	case "r":
		if !m.loading {
			return m.load()
		}
	case "c":
		rec, ok := m.Selected()
		if ok && !rec.Cleaned && m.cleaning == "" {
			m.confirm.Show(cleanupQuestion)
		}
	}
	return nil
}

func stateStyle(state string) lipgloss.Style {
	t := theme.Current()
	color := t.Success
	switch state {
	case api.StateExpired:
		color = t.Warning
	case api.StateCleaned:
		color = t.FgMuted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

func (m *Model) renderRecord(r api.RequestRecord, selected bool, width int) string {
	st := theme.Current().S()
	state := r.State(m.now())

	title := lipgloss.NewStyle().Bold(true).Render(r.DisplayName())
	badge := stateStyle(state).Render(state)
	if m.cleaning == r.ID {
		badge = m.spinner.View() + " cleaning up"
	}

	created := "-"
	if items := Created(r); len(items) > 0 {
		created = strings.Join(items, ", ")
	}

	lines := []string{
		title + "  " + badge,
		st.Label.Render("Request ID: ") + st.Value.Render(r.ID),
		st.Label.Render("Requester: ") + st.Value.Render(r.Requester),
		st.Label.Render("Environment: ") + st.Value.Render(r.Environment),
		st.Label.Render("Period: ") + st.Value.Render(Period(r)),
		st.Label.Render("Created: ") + st.Value.Render(created),
	}

	card := st.Card
	if selected {
		card = st.CardFocused
	}
	return card.Width(width).Render(strings.Join(lines, "\n"))
}

// Body renders the list without the surrounding screen.
func (m *Model) Body() string {
	st := theme.Current().S()
	switch {
	case m.loadErr != nil:
		return st.Error.Render("Failed to load requests: " + m.loadErr.Error())
	case m.loading && m.records == nil:
		return m.spinner.View() + " Loading requests..."
	case len(m.records) == 0:
		return st.Muted.Render("No active requests found")
	}

	// Each card takes eight lines with its border.
	perPage := max((m.height-8)/8, 1)
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+perPage {
		m.offset = m.selected - perPage + 1
	}
	end := min(m.offset+perPage, len(m.records))

	width := max(min(m.width-6, 90), 40)
	cards := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		cards = append(cards, m.renderRecord(m.records[i], i == m.selected, width))
	}
	return strings.Join(cards, "\n")
}

// View renders the request list.
func (m *Model) View() tea.View {
	st := theme.Current().S()
	header := st.HeaderTitle.Render(fmt.Sprintf("Requests (%d)", len(m.records)))

	hints := tui.RenderHintBar(
		tui.KeyUpDown, "select",
		"c", "cleanup",
		"r", "reload",
		"q", "quit",
	)
	content := lipgloss.JoinVertical(lipgloss.Left, header, "", m.Body(), "", hints)
	content = lipgloss.NewStyle().Padding(1, 2).Render(content)

	if m.confirm.IsVisible() {
		content = tui.Overlay(m.confirm.Render(), m.width, m.height)
	}
	if m.toast.IsVisible() {
		content = tui.OverlayToast(lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content), m.toast.View(m.width, m.height))
	}
	return tui.Screen(content, m.width, m.height)
}
