package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunequiz/internal/domain/actor"
)

func TestPlayerRegistry_Join(t *testing.T) {
	r := NewPlayerRegistry([]string{"space", "s", "esc"})

	alice, err := r.Join("Alice", "a")
	require.NoError(t, err)
	anon, err := r.Join("", "B")
	require.NoError(t, err)

	assert.Equal(t, actor.ID(0), alice)
	assert.Equal(t, actor.ID(1), anon)
	assert.Equal(t, 2, r.Count())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "Player #1", all[1].Name)
	assert.Equal(t, "b", all[1].Buzzer)
	assert.Equal(t, actor.PlayerIdle, all[1].State)
}

func TestPlayerRegistry_JoinErrors(t *testing.T) {
	tests := []struct {
		name    string
		buzzer  string
		wantErr error
	}{
		{name: "duplicate", buzzer: "A", wantErr: ErrDuplicateBuzzer},
		{name: "reserved", buzzer: "S", wantErr: ErrReservedKey},
		{name: "reserved named key", buzzer: "space", wantErr: ErrReservedKey},
		{name: "empty", buzzer: "  ", wantErr: ErrEmptyBuzzer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPlayerRegistry([]string{"space", "s"})
			_, err := r.Join("Alice", "a")
			require.NoError(t, err)

			_, err = r.Join("Bob", tt.buzzer)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, r.Count(), "a failed join adds nobody")
		})
	}
}

func TestPlayerRegistry_Lookup(t *testing.T) {
	r := NewPlayerRegistry(nil)
	id, err := r.Join("Alice", "q")
	require.NoError(t, err)

	got, ok := r.ByBuzzer("Q")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = r.ByBuzzer("w")
	assert.False(t, ok)
}
