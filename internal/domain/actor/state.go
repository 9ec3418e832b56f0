// Package actor provides the Player and Host domain entities.
package actor

// PlayerState represents how a player card should be presented.
type PlayerState int

const (
	PlayerIdle       PlayerState = iota // Waiting, not taking part yet
	PlayerIntro                         // Being introduced
	PlayerActive                        // Can buzz
	PlayerAnswering                     // Stopped the song, waiting for the host
	PlayerEliminated                    // Penalized for the current song
	PlayerWin                           // Guessed the current song
)

// String returns the string representation of the player state.
func (s PlayerState) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerIntro:
		return "intro"
	case PlayerActive:
		return "active"
	case PlayerAnswering:
		return "answering"
	case PlayerEliminated:
		return "eliminated"
	case PlayerWin:
		return "win"
	default:
		return "unknown"
	}
}

// HostState represents how the host card should be presented.
type HostState int

const (
	HostIdle    HostState = iota // Nothing to do
	HostIntro                    // Being introduced
	HostActive                   // Controls playback
	HostRanking                  // Has to score a responder
)

// String returns the string representation of the host state.
func (s HostState) String() string {
	switch s {
	case HostIdle:
		return "idle"
	case HostIntro:
		return "intro"
	case HostActive:
		return "active"
	case HostRanking:
		return "ranking"
	default:
		return "unknown"
	}
}
