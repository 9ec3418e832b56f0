package round

import (
	"fmt"

	"github.com/osa030/tunequiz/internal/domain/actor"
)

// Responder is the actor who most recently stopped the current song:
// either a specific player or the host.
type Responder struct {
	isPlayer bool
	player   actor.ID
}

// HostResponder returns the responder meaning "the host is in control".
func HostResponder() Responder {
	return Responder{}
}

// PlayerResponder returns the responder for the given player.
func PlayerResponder(id actor.ID) Responder {
	return Responder{isPlayer: true, player: id}
}

// Player returns the responding player, if any.
func (r Responder) Player() (actor.ID, bool) {
	return r.player, r.isPlayer
}

// IsHost reports whether the host is the responder.
func (r Responder) IsHost() bool {
	return !r.isPlayer
}

// String returns the string representation of the responder.
func (r Responder) String() string {
	if !r.isPlayer {
		return "host"
	}
	return fmt.Sprintf("player#%d", r.player)
}
