package wizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/lmsenv/internal/request"
	"github.com/mark3labs/lmsenv/internal/tui/theme"
)

// ScenarioStep shows the scenario cards.
type ScenarioStep struct {
	scenarios   []request.Scenario
	selectedIdx int
	width       int
	height      int
}

// NewScenarioStep creates the scenario step with the cards in display order.
func NewScenarioStep() *ScenarioStep {
	return &ScenarioStep{
		scenarios: request.Scenarios(),
		width:     60,
		height:    20,
	}
}

// SetSize updates the dimensions for the scenario step.
func (s *ScenarioStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Selected returns the highlighted scenario.
func (s *ScenarioStep) Selected() request.Scenario {
	return s.scenarios[s.selectedIdx]
}

// Select highlights the card of id, if there is one.
func (s *ScenarioStep) Select(id request.ScenarioID) {
	for i, sc := range s.scenarios {
		if sc.ID == id {
			s.selectedIdx = i
			return
		}
	}
}

// Update handles messages for the scenario step.
func (s *ScenarioStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k", "shift+tab":
		if s.selectedIdx > 0 {
			s.selectedIdx--
		}
	case "down", "j", "tab":
		if s.selectedIdx < len(s.scenarios)-1 {
			s.selectedIdx++
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(keyMsg.String()[0] - '1')
		if idx < len(s.scenarios) {
			s.selectedIdx = idx
		}
	case "enter", "space":
		id := s.Selected().ID
		return func() tea.Msg {
			return ScenarioSelectedMsg{ID: id}
		}
	}
	return nil
}

// View renders the scenario step.
func (s *ScenarioStep) View() string {
	st := theme.Current().S()
	cardWidth := max(s.width-4, 30)

	var b strings.Builder
	for i, sc := range s.scenarios {
		title := lipgloss.NewStyle().Bold(true).Render(sc.Title)
		body := title + "\n" + st.Muted.Render(sc.Description)

		card := st.Card
		if i == s.selectedIdx {
			card = st.CardFocused
			body = styleCursor.Render("▸ ") + body
		}
		b.WriteString(card.Width(cardWidth).Render(body))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑↓", "navigate",
		"enter", "select",
		"esc", "quit",
	))
	return b.String()
}
