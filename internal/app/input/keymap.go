// Package input classifies raw key events into round actions.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Keys lists the raw key names bound to each logical host control.
type Keys struct {
	Quit        []string
	Advance     []string
	Acknowledge []string
	Pause       []string
	Resume      []string
	Award       []string
	Penalty     []string
	SayHi       []string
}

// DefaultKeys returns the classic layout: space drives the game, s/c pause
// and continue, 1/0 score, h says hi, esc quits.
func DefaultKeys() Keys {
	return Keys{
		Quit:        []string{"esc", "ctrl+c"},
		Advance:     []string{"space"},
		Acknowledge: []string{"space"},
		Pause:       []string{"s"},
		Resume:      []string{"c"},
		Award:       []string{"1"},
		Penalty:     []string{"0"},
		SayHi:       []string{"h"},
	}
}

// KeyMap holds the host key bindings. It also satisfies help.KeyMap so the
// board can print it.
type KeyMap struct {
	Quit        key.Binding
	Advance     key.Binding
	Acknowledge key.Binding
	Pause       key.Binding
	Resume      key.Binding
	Award       key.Binding
	Penalty     key.Binding
	SayHi       key.Binding
}

// NewKeyMap builds bindings from raw key names. Missing entries fall back
// to DefaultKeys.
func NewKeyMap(k Keys) KeyMap {
	d := DefaultKeys()
	pick := func(v, def []string) []string {
		if len(v) == 0 {
			return def
		}
		return v
	}

	bind := func(keys []string, desc string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
	}

	return KeyMap{
		Quit:        bind(pick(k.Quit, d.Quit), "quit"),
		Advance:     bind(pick(k.Advance, d.Advance), "next/skip song"),
		Acknowledge: bind(pick(k.Acknowledge, d.Acknowledge), "next intro"),
		Pause:       bind(pick(k.Pause, d.Pause), "pause"),
		Resume:      bind(pick(k.Resume, d.Resume), "continue"),
		Award:       bind(pick(k.Award, d.Award), "point"),
		Penalty:     bind(pick(k.Penalty, d.Penalty), "penalty"),
		SayHi:       bind(pick(k.SayHi, d.SayHi), "say hi"),
	}
}

// ShortHelp returns the bindings shown in the board footer.
func (m KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Advance, m.Pause, m.Resume, m.Award, m.Penalty, m.Quit}
}

// FullHelp returns all bindings grouped by purpose.
func (m KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.Advance, m.Pause, m.Resume},
		{m.Award, m.Penalty},
		{m.Acknowledge, m.SayHi, m.Quit},
	}
}

// All returns every binding.
func (m KeyMap) All() []key.Binding {
	return []key.Binding{m.Quit, m.Advance, m.Acknowledge, m.Pause, m.Resume, m.Award, m.Penalty, m.SayHi}
}

// Reserved returns every raw key bound to a host control. Buzzers may not
// use them.
func (m KeyMap) Reserved() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, b := range m.All() {
		for _, k := range b.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// matches compares key names the way buzzers are compared, so a host key
// still works with shift or caps lock held.
func matches(name string, b key.Binding) bool {
	if !b.Enabled() {
		return false
	}
	name = normalizeKey(name)
	for _, k := range b.Keys() {
		if normalizeKey(k) == name {
			return true
		}
	}
	return false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
