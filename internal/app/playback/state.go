// Package playback provides playback control with integrated queue management.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No song current (not started or queue exhausted)
	StatePlaying              // Song is playing
	StatePaused               // Song is paused
	StateIntro                // Intro loop is playing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateIntro:
		return "intro"
	default:
		return "unknown"
	}
}
