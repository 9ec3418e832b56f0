// Package round provides the round state machine of the quiz.
package round

// Phase represents the coarse stage of a round.
type Phase int

const (
	PhaseIdle         Phase = iota // Host decides what happens next
	PhaseIntro                     // Actors are being introduced
	PhaseMusicRound                // A song is current, players may buzz
	PhaseRankingRound              // A player stopped the song, host scores
	PhaseQuit                      // Session is over
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseIntro:
		return "intro"
	case PhaseMusicRound:
		return "music_round"
	case PhaseRankingRound:
		return "ranking_round"
	case PhaseQuit:
		return "quit"
	default:
		return "unknown"
	}
}
