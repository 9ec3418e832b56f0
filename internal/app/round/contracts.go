package round

import "github.com/osa030/tunequiz/internal/domain/actor"

// Outcome is the result of asking the audio side for the next song.
type Outcome int

const (
	Started        Outcome = iota // A new song is current
	QueueExhausted                // No more songs, the session ends
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case QueueExhausted:
		return "queue_exhausted"
	default:
		return "unknown"
	}
}

// Audio is what the state machine needs from playback. Commands are fire
// and forget; the only signal that flows back is QueueExhausted.
type Audio interface {
	AdvanceToNextSong() Outcome
	Pause()
	Resume()
	StartIntro()
	StopIntro()
}

// Change describes the visible state of one actor after a mutation.
type Change struct {
	Actor       actor.ID
	State       string
	Highlighted bool
	Greeting    bool
	Score       int
}

// Presenter receives state changes and render requests. Implementations
// must not block the caller.
type Presenter interface {
	NotifyStateChanged(change Change)
	Render(board Board)
}

// Board is an immutable snapshot of everything a presenter may draw.
type Board struct {
	Phase       Phase
	Responder   Responder
	Host        actor.Host
	Players     []actor.Player
	Disabled    []actor.ID
	SongsPlayed int
	IntroActor  *actor.ID // Set while the intro is running
}

// Player returns the snapshot of the given player.
func (b Board) Player(id actor.ID) (actor.Player, bool) {
	for _, p := range b.Players {
		if p.ID == id {
			return p, true
		}
	}
	return actor.Player{}, false
}

// IsDisabled reports whether the player is excluded for the current song.
func (b Board) IsDisabled(id actor.ID) bool {
	for _, d := range b.Disabled {
		if d == id {
			return true
		}
	}
	return false
}
