package playback

import "github.com/osa030/tunequiz/internal/domain/song"

// EventType represents a playback event type.
type EventType int

const (
	EventSongStarted  EventType = iota // Song started playing
	EventSongFailed                    // Output could not play the song, it was dropped
	EventStateChanged                  // Playback state changed (pause/resume)
	EventIntroStarted                  // Intro loop started
	EventIntroStopped                  // Intro loop faded out
	EventQueueEmpty                    // Queue became empty
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventSongStarted:
		return "song_started"
	case EventSongFailed:
		return "song_failed"
	case EventStateChanged:
		return "state_changed"
	case EventIntroStarted:
		return "intro_started"
	case EventIntroStopped:
		return "intro_stopped"
	case EventQueueEmpty:
		return "queue_empty"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type  EventType
	Song  *song.Song // Current song (nil for some events)
	State State      // Current playback state
	Err   error      // Set for EventSongFailed
}
