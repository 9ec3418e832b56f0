package actor

// ID identifies an actor on the board. Players use their join number,
// the host uses HostID.
type ID int

// HostID is the board identity of the host.
const HostID ID = -1

// Player represents a contestant holding a buzzer.
type Player struct {
	ID          ID          // Join number, never reused in a session
	Name        string      // Display name
	Buzzer      string      // Input key bound to this player
	Score       int         // Signed, only changed while ranking
	State       PlayerState // Presentation state
	Highlighted bool        // Card is emphasised on the board
	Greeting    bool        // Toggled by "say hi" during the intro
}

// NewPlayer creates a new idle player with a zero score.
func NewPlayer(id ID, name, buzzer string) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Buzzer: buzzer,
		State:  PlayerIdle,
	}
}

func (p *Player) SetIdle()       { p.State = PlayerIdle }
func (p *Player) SetIntro()      { p.State = PlayerIntro }
func (p *Player) SetActive()     { p.State = PlayerActive }
func (p *Player) SetAnswering()  { p.State = PlayerAnswering }
func (p *Player) SetEliminated() { p.State = PlayerEliminated }
func (p *Player) SetWin()        { p.State = PlayerWin }

// SetHighlight sets whether the card is emphasised.
func (p *Player) SetHighlight(on bool) {
	p.Highlighted = on
}

// ToggleGreeting flips the "say hi" indicator.
func (p *Player) ToggleGreeting() {
	p.Greeting = !p.Greeting
}

// Snapshot returns a copy safe to hand to other goroutines.
func (p *Player) Snapshot() Player {
	return *p
}
