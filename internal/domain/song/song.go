// Package song provides the Song domain entity.
package song

import (
	"path/filepath"
	"strings"
)

// SourceType represents where a song was found.
type SourceType string

const (
	SourceFolder  SourceType = "FOLDER"
	SourceSpotify SourceType = "SPOTIFY"
	SourceMPD     SourceType = "MPD"
)

// Song represents a playable song. The round state machine never looks
// inside it; only the playback side does.
type Song struct {
	ID       string     // Stable identifier (file path, Spotify ID, MPD URI)
	Name     string     // Name shown in logs
	Artist   string     // Main artist, empty when unknown
	Location string     // Path or URI handed to the output backend
	Source   SourceType // Where the song came from
}

// Ext returns the lower-cased file extension of the song location.
func (s *Song) Ext() string {
	return strings.ToLower(filepath.Ext(s.Location))
}

// FromFile builds a folder song from a file path.
func FromFile(path string) Song {
	base := filepath.Base(path)
	return Song{
		ID:       path,
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		Location: path,
		Source:   SourceFolder,
	}
}
