// Package tui draws the quiz board in the terminal and turns key presses
// into raw input events.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/osa030/tunequiz/internal/app/input"
	"github.com/osa030/tunequiz/internal/app/round"
	"github.com/osa030/tunequiz/internal/domain/actor"
)

// BoardMsg carries a new board snapshot.
type BoardMsg round.Board

// ChangeMsg carries one actor change.
type ChangeMsg round.Change

// SessionEndedMsg tells the model the session is over.
type SessionEndedMsg struct{}

// Model is the Bubble Tea model of the board. It never touches the game:
// keys go out through the queue and boards come back as messages.
type Model struct {
	keys  input.KeyMap
	help  help.Model
	queue *input.Queue
	now   func() time.Time

	board    round.Board
	hasBoard bool
	status   string

	width    int
	quitting bool
}

// NewModel creates a new board model.
func NewModel(keys input.KeyMap, queue *input.Queue) *Model {
	return &Model{
		keys:   keys,
		help:   help.New(),
		queue:  queue,
		now:    time.Now,
		status: "Waiting for the session to start...",
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		name := keyName(msg)
		m.queue.Push(input.RawEvent{Key: name, At: m.now()})
		// ctrl+c always gets the terminal back, even if the loop is stuck.
		if name == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case BoardMsg:
		m.board = round.Board(msg)
		m.hasBoard = true

	case ChangeMsg:
		m.status = m.describe(round.Change(msg))

	case SessionEndedMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// keyName normalises a key press to the names used in the key map.
func keyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace {
		return "space"
	}
	return msg.String()
}

func (m *Model) describe(c round.Change) string {
	name := m.actorName(c.Actor)
	switch {
	case c.Greeting:
		return name + " says hi!"
	case c.Actor == actor.HostID && c.Highlighted:
		return name + " is in control"
	case c.Actor == actor.HostID:
		return fmt.Sprintf("%s: %s", name, c.State)
	default:
		return fmt.Sprintf("%s: %s (score %d)", name, c.State, c.Score)
	}
}

func (m *Model) actorName(id actor.ID) string {
	if id == actor.HostID {
		if m.hasBoard && m.board.Host.Name != "" {
			return m.board.Host.Name
		}
		return "HOST"
	}
	if p, ok := m.board.Player(id); ok && p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Player #%d", id)
}

// View renders the board.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("tunequiz"))
	b.WriteString(" ")
	b.WriteString(PhaseStyle.Render(m.phaseLine()))
	b.WriteString("\n\n")

	if m.hasBoard {
		cards := []string{m.hostCard()}
		for _, p := range m.board.Players {
			cards = append(cards, m.playerCard(p))
		}
		b.WriteString(m.layout(cards))
		b.WriteString("\n\n")
	}

	b.WriteString(StatusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) phaseLine() string {
	if !m.hasBoard {
		return "loading"
	}
	switch m.board.Phase {
	case round.PhaseIntro:
		return "Introductions"
	case round.PhaseIdle:
		return fmt.Sprintf("Songs played: %d, host starts the next one", m.board.SongsPlayed)
	case round.PhaseMusicRound:
		return fmt.Sprintf("Song #%d is playing, buzz to stop it!", m.board.SongsPlayed)
	case round.PhaseRankingRound:
		return "Was it right? Host decides"
	case round.PhaseQuit:
		return "Game over"
	}
	return m.board.Phase.String()
}

func (m *Model) hostCard() string {
	h := m.board.Host
	lines := []string{
		NameStyle.Render(h.Name),
		stateStyle(h.State.String()).Render(h.State.String()),
	}
	if h.Greeting {
		lines = append(lines, GreetingStyle.Render("says hi!"))
	}
	return m.card(lines, h.Highlighted || m.introducing(actor.HostID))
}

func (m *Model) playerCard(p actor.Player) string {
	state := p.State.String()
	if m.board.IsDisabled(p.ID) {
		state += " (out this song)"
	}
	lines := []string{
		NameStyle.Render(p.Name) + StatusStyle.Render(" ["+p.Buzzer+"]"),
		stateStyle(p.State.String()).Render(state),
		ScoreStyle.Render(fmt.Sprintf("%d pts", p.Score)),
	}
	if p.Greeting {
		lines = append(lines, GreetingStyle.Render("says hi!"))
	}
	return m.card(lines, p.Highlighted || m.introducing(p.ID))
}

func (m *Model) introducing(id actor.ID) bool {
	return m.board.IntroActor != nil && *m.board.IntroActor == id
}

func (m *Model) card(lines []string, highlighted bool) string {
	style := CardStyle
	if highlighted {
		style = HighlightedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// layout wraps the cards into rows that fit the terminal width.
func (m *Model) layout(cards []string) string {
	if m.width <= 0 {
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var (
		rows []string
		row  []string
		used int
	)
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(row) > 0 && used+w > m.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, c)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
