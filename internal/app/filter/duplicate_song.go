package filter

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/osa030/tunequiz/internal/domain/song"
)

// DuplicateSongFilter drops songs already accepted into the queue.
// Detects:
// - Exact song ID matches
// - Remasters and alternate versions (normalized name + same artist)
// Excludes:
// - Cover songs (same name but different artist)
type DuplicateSongFilter struct {
	mu   sync.Mutex
	seen []song.Song
}

// NewDuplicateSongFilter creates a new duplicate song filter.
func NewDuplicateSongFilter() *DuplicateSongFilter {
	return &DuplicateSongFilter{}
}

// Name returns the filter name.
func (f *DuplicateSongFilter) Name() string {
	return "duplicate_song_filter"
}

// Description returns the filter description.
func (f *DuplicateSongFilter) Description() string {
	return "Skips songs already in the queue, including remasters and live versions. Covers by other artists are kept"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateSongFilter) ReturnCodes() []string {
	return []string{"duplicate_song"}
}

// AppliesTo returns which sources this filter applies to.
func (f *DuplicateSongFilter) AppliesTo(source song.SourceType) bool {
	return true
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateSongFilter) ValidateConfig(config map[string]any) error {
	// No configuration needed
	return nil
}

// Check checks if the song is a duplicate. Accepted songs are remembered
// so later candidates are compared against them.
func (f *DuplicateSongFilter) Check(ctx context.Context, candidate song.Song) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, seen := range f.seen {
		// 1. Exact song ID match
		if seen.ID == candidate.ID {
			return Reject("duplicate_song")
		}

		// 2. Remaster detection: normalized name + same artist
		if isRemaster(seen, candidate) {
			return Reject("duplicate_song")
		}
	}

	f.seen = append(f.seen, candidate)
	return Accept()
}

// isRemaster checks if two songs are the same song (remaster/different version).
// Returns true if:
// - Normalized song names match
// - Main artist is the same
func isRemaster(song1, song2 song.Song) bool {
	// Normalize song names
	name1 := normalizeSongName(song1.Name)
	name2 := normalizeSongName(song2.Name)

	// If normalized names don't match, they're different songs
	if name1 != name2 {
		return false
	}

	// Same normalized name - check if same artist
	// If different artists, it's a cover song (allowed)
	return isSameArtist(song1, song2)
}

// versionMarkers match remaster and alternate version suffixes. Remaster
// markers come first so "(Remastered 2011 Version)" is removed whole.
var versionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),      // "- 2011 Remaster"
	regexp.MustCompile(`\s*\(remaster(ed)?\s*\d{0,4}\)`),     // "(Remastered 2023)"
	regexp.MustCompile(`\s*\[remaster(ed)?\s*\d{0,4}\]`),     // "[Remastered]"
	regexp.MustCompile(`\s*-?\s*remaster(ed)?(\s+version)?`), // "- Remastered"
	regexp.MustCompile(`\s*\(.*?remaster.*?\)`),              // "(Any Remaster text)"
	regexp.MustCompile(`\s*\[.*?remaster.*?\]`),              // "[Any Remaster text]"
	regexp.MustCompile(`\s*\(.*?version\)`),                  // "(Single Version)"
	regexp.MustCompile(`\s*\(.*?edit\)`),                     // "(Radio Edit)"
	regexp.MustCompile(`\s*-?\s*live`),                       // "- Live"
	regexp.MustCompile(`\s*\(live\)`),                        // "(Live)"
	regexp.MustCompile(`\s*-?\s*radio\s+edit`),               // "- Radio Edit"
	regexp.MustCompile(`\s*-?\s*single\s+version`),           // "- Single Version"
}

var whitespace = regexp.MustCompile(`\s+`)

// normalizeSongName lower-cases name and strips version markers.
func normalizeSongName(name string) string {
	normalized := strings.ToLower(name)
	for _, marker := range versionMarkers {
		normalized = marker.ReplaceAllString(normalized, "")
	}

	normalized = whitespace.ReplaceAllString(strings.TrimSpace(normalized), " ")
	return strings.TrimRight(normalized, " -")
}

// isSameArtist checks if two songs have the same main artist. Songs
// without artist information (plain files) only match each other.
func isSameArtist(song1, song2 song.Song) bool {
	return strings.EqualFold(song1.Artist, song2.Artist)
}

func init() {
	Register("duplicate_song_filter", func() Filter {
		return NewDuplicateSongFilter()
	})
}
