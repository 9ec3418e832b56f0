package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunequiz/internal/app/input"
	"github.com/osa030/tunequiz/internal/app/notification"
)

// Program runs the board and relays notifications into it.
type Program struct {
	program *tea.Program
}

// NewProgram creates the terminal program. Keys pressed are pushed to
// queue.
func NewProgram(ctx context.Context, keys input.KeyMap, queue *input.Queue, altScreen bool) *Program {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return &Program{program: tea.NewProgram(NewModel(keys, queue), opts...)}
}

// Send implements notification.Stream.
func (p *Program) Send(n notification.Notification) error {
	switch n.Kind {
	case notification.KindBoard:
		p.program.Send(BoardMsg(n.Board))
	case notification.KindStateChanged:
		p.program.Send(ChangeMsg(n.Change))
	}
	return nil
}

// Run blocks until the board is closed. A canceled context is a normal
// shutdown.
func (p *Program) Run(ctx context.Context) error {
	_, err := p.program.Run()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "terminal ui failed")
	}
	return nil
}

// End closes the board once the session is over.
func (p *Program) End() {
	p.program.Send(SessionEndedMsg{})
}
