// Package state provides session state management.
package state

// Phase represents the session lifecycle phase.
type Phase int

const (
	PhaseWaiting    Phase = iota // Songs loaded, loop not started yet
	PhaseIntro                   // Introducing the host and players
	PhaseActive                  // Rounds are being played
	PhaseTerminated              // Session has ended
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseIntro:
		return "intro"
	case PhaseActive:
		return "active"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// EndReason tells why a session terminated.
type EndReason int

const (
	EndNone           EndReason = iota // Still running
	EndQuit                            // Host pressed quit
	EndSongsExhausted                  // Every song was played
	EndCanceled                        // The process is shutting down
)

// String returns the string representation of the end reason.
func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndQuit:
		return "quit"
	case EndSongsExhausted:
		return "songs_exhausted"
	case EndCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}
