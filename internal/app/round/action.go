package round

import (
	"fmt"

	"github.com/osa030/tunequiz/internal/domain/actor"
)

// ActionKind represents a semantic input.
type ActionKind int

const (
	ActionNone            ActionKind = iota
	ActionPlayerBuzz                 // A player pressed their buzzer
	ActionHostAdvance                // Start the next song
	ActionHostSkip                   // Stop the current song without ranking
	ActionHostPause                  // Pause playback
	ActionHostResume                 // Resume playback
	ActionHostAward                  // +1 for the responder
	ActionHostPenalty                // -1 for the responder
	ActionHostAcknowledge            // Move the intro to the next actor
	ActionHostSayHi                  // Host greeting during the intro
	ActionQuit                       // End the session
)

// String returns the string representation of the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionPlayerBuzz:
		return "player_buzz"
	case ActionHostAdvance:
		return "host_advance"
	case ActionHostSkip:
		return "host_skip"
	case ActionHostPause:
		return "host_pause"
	case ActionHostResume:
		return "host_resume"
	case ActionHostAward:
		return "host_award"
	case ActionHostPenalty:
		return "host_penalty"
	case ActionHostAcknowledge:
		return "host_acknowledge"
	case ActionHostSayHi:
		return "host_say_hi"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Action is a classified input ready to be applied to a Game.
type Action struct {
	Kind   ActionKind
	Player actor.ID // Only meaningful for ActionPlayerBuzz
}

// Buzz returns the action of the given player pressing their buzzer.
func Buzz(id actor.ID) Action {
	return Action{Kind: ActionPlayerBuzz, Player: id}
}

// HostAction returns a host or system action of the given kind.
func HostAction(kind ActionKind) Action {
	return Action{Kind: kind, Player: actor.HostID}
}

// String returns the string representation of the action.
func (a Action) String() string {
	if a.Kind == ActionPlayerBuzz {
		return fmt.Sprintf("%s(%d)", a.Kind, a.Player)
	}
	return a.Kind.String()
}
