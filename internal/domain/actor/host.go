package actor

// Host represents the quiz master. The host never scores.
type Host struct {
	Name        string
	State       HostState
	Highlighted bool // Host input is needed
	Greeting    bool
}

// NewHost creates a new idle host.
func NewHost(name string) *Host {
	return &Host{Name: name, State: HostIdle}
}

func (h *Host) SetIdle()    { h.State = HostIdle }
func (h *Host) SetIntro()   { h.State = HostIntro }
func (h *Host) SetActive()  { h.State = HostActive }
func (h *Host) SetRanking() { h.State = HostRanking }

// SetHighlight sets whether the host card is emphasised.
func (h *Host) SetHighlight(on bool) {
	h.Highlighted = on
}

// ToggleGreeting flips the "say hi" indicator.
func (h *Host) ToggleGreeting() {
	h.Greeting = !h.Greeting
}

// Snapshot returns a copy safe to hand to other goroutines.
func (h *Host) Snapshot() Host {
	return *h
}
