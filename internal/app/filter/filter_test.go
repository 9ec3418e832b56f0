package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunequiz/internal/domain/song"
	"github.com/osa030/tunequiz/internal/infra/config"
)

func TestExtensionFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		settings     map[string]any
		location     string
		wantAccepted bool
	}{
		{name: "default mp3", location: "/m/a.mp3", wantAccepted: true},
		{name: "default wav upper case", location: "/m/a.WAV", wantAccepted: true},
		{name: "default rejects flac", location: "/m/a.flac", wantAccepted: false},
		{name: "default rejects text", location: "/m/notes.txt", wantAccepted: false},
		{
			name:         "configured flac",
			settings:     map[string]any{"extensions": []any{".flac", ".ogg"}},
			location:     "/m/a.flac",
			wantAccepted: true,
		},
		{
			name:         "configured list replaces defaults",
			settings:     map[string]any{"extensions": []any{".flac"}},
			location:     "/m/a.mp3",
			wantAccepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExtensionFilter()
			require.NoError(t, f.ValidateConfig(tt.settings))

			result := f.Check(context.Background(), song.FromFile(tt.location))
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "unsupported_extension", result.Code)
			}
		})
	}
}

func TestExtensionFilter_InvalidConfig(t *testing.T) {
	f := NewExtensionFilter()
	err := f.ValidateConfig(map[string]any{"extensions": []any{"mp3"}})
	assert.Error(t, err, "extensions must start with a dot")
}

func TestExtensionFilter_WithoutConfigAcceptsAll(t *testing.T) {
	f := NewExtensionFilter()
	assert.True(t, f.Check(context.Background(), song.FromFile("a.flac")).Accepted)
}

func TestHiddenFileFilter_Check(t *testing.T) {
	f := &HiddenFileFilter{}

	tests := []struct {
		name         string
		s            song.Song
		wantAccepted bool
	}{
		{name: "regular file", s: song.FromFile("/music/track.mp3"), wantAccepted: true},
		{name: "resource fork", s: song.FromFile("/music/._track.mp3"), wantAccepted: false},
		{name: "dot file", s: song.FromFile("/music/.hidden.wav"), wantAccepted: false},
		{name: "mpd uri", s: song.Song{Location: "albums/.cache/x.mp3", Source: song.SourceMPD}, wantAccepted: true},
		{name: "hidden mpd uri", s: song.Song{Location: "albums/.x.mp3", Source: song.SourceMPD}, wantAccepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAccepted, f.Check(context.Background(), tt.s).Accepted)
		})
	}
}

func TestNamePatternFilter(t *testing.T) {
	f := &NamePatternFilter{}
	require.NoError(t, f.ValidateConfig(map[string]any{"exclude": []any{"(?i)jingle", "^intro"}}))

	assert.False(t, f.Check(context.Background(), song.Song{Name: "Station JINGLE 3"}).Accepted)
	assert.False(t, f.Check(context.Background(), song.Song{Name: "intro loop"}).Accepted)
	assert.True(t, f.Check(context.Background(), song.Song{Name: "Outro"}).Accepted)

	assert.Error(t, (&NamePatternFilter{}).ValidateConfig(map[string]any{"exclude": []any{"("}}))
	assert.Error(t, (&NamePatternFilter{}).ValidateConfig(nil))
}

func TestAppliesTo(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   map[song.SourceType]bool
	}{
		{
			name:   "extension",
			filter: NewExtensionFilter(),
			want:   map[song.SourceType]bool{song.SourceFolder: true, song.SourceMPD: true, song.SourceSpotify: false},
		},
		{
			name:   "hidden file",
			filter: &HiddenFileFilter{},
			want:   map[song.SourceType]bool{song.SourceFolder: true, song.SourceMPD: true, song.SourceSpotify: false},
		},
		{
			name:   "duplicate",
			filter: NewDuplicateSongFilter(),
			want:   map[song.SourceType]bool{song.SourceFolder: true, song.SourceMPD: true, song.SourceSpotify: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for source, want := range tt.want {
				assert.Equal(t, want, tt.filter.AppliesTo(source), string(source))
			}
		})
	}
}

func TestNewChainFromConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		chain, err := NewChainFromConfig(&config.Config{})
		require.NoError(t, err)

		var names []string
		for _, f := range chain.Filters() {
			names = append(names, f.Name())
		}
		assert.Equal(t, []string{"hidden_file_filter", "extension_filter"}, names)
	})

	t.Run("enabled filters in fixed order", func(t *testing.T) {
		chain, err := NewChainFromConfig(&config.Config{Filters: map[string]config.FilterConfig{
			"duplicate_song_filter": {Enabled: true},
			"name_pattern_filter":   {Enabled: true, Settings: map[string]any{"exclude": []any{"jingle"}}},
			"hidden_file_filter":    {Enabled: false},
		}})
		require.NoError(t, err)

		var names []string
		for _, f := range chain.Filters() {
			names = append(names, f.Name())
		}
		assert.Equal(t, []string{"extension_filter", "name_pattern_filter", "duplicate_song_filter"}, names)
	})

	t.Run("unknown filter", func(t *testing.T) {
		_, err := NewChainFromConfig(&config.Config{Filters: map[string]config.FilterConfig{
			"market_filter": {Enabled: true},
		}})
		assert.Error(t, err)
	})

	t.Run("invalid settings", func(t *testing.T) {
		_, err := NewChainFromConfig(&config.Config{Filters: map[string]config.FilterConfig{
			"name_pattern_filter": {Enabled: true},
		}})
		assert.Error(t, err)
	})
}

func TestChain_Apply(t *testing.T) {
	chain, err := NewChainFromConfig(&config.Config{Filters: map[string]config.FilterConfig{
		"duplicate_song_filter": {Enabled: true},
	}})
	require.NoError(t, err)

	in := []song.Song{
		song.FromFile("/m/b.mp3"),
		song.FromFile("/m/notes.txt"),
		song.FromFile("/m/._b.mp3"),
		song.FromFile("/m/a.wav"),
		song.FromFile("/m/b.wav"),
		{ID: "spotify:track:1", Name: "b", Artist: "Band", Source: song.SourceSpotify},
	}

	out := chain.Apply(context.Background(), in)

	var ids []string
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"/m/b.mp3", "/m/a.wav", "spotify:track:1"}, ids,
		"b.wav duplicates b.mp3; the Spotify song has a known artist")
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{
		"duplicate_song_filter",
		"extension_filter",
		"hidden_file_filter",
		"name_pattern_filter",
	}, Names())

	f, ok := New("hidden_file_filter")
	require.True(t, ok)
	assert.Equal(t, "hidden_file_filter", f.Name())

	_, ok = New("market_filter")
	assert.False(t, ok)
}
