// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", "discard" or a file path
	Level  string // "debug", "info", "warn", "error"
}

// Category values attached to game log lines.
const (
	CategoryGame   = "game"
	CategoryHost   = "host"
	CategoryPlayer = "player"
	CategorySound  = "sound"
	CategorySong   = "song"
)

// CategoryField is the field name carrying the category.
const CategoryField = "category"

// Init initializes the global zerolog logger with the given configuration.
// The returned closer releases the log file, if any.
func Init(cfg Config) (io.Closer, error) {
	level := parseLevel(cfg.Level)

	var (
		writer  io.Writer
		closer  io.Closer = nopCloser{}
		console bool
	)
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		writer, console = os.Stdout, true
	case "stderr":
		writer, console = os.Stderr, true
	case "discard":
		writer = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open log file %s", cfg.Output)
		}
		writer, closer = f, f
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.TimeOnly
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		parts := strings.Split(file, string(filepath.Separator))
		if len(parts) > 1 {
			return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	// Console output gets colors and the category up front, files get JSON.
	var logger zerolog.Logger
	if console {
		cw := zerolog.ConsoleWriter{
			Out:           writer,
			TimeFormat:    time.TimeOnly,
			PartsOrder:    []string{"time", "level", CategoryField, "message"},
			FieldsExclude: []string{CategoryField},
		}
		if level == zerolog.DebugLevel {
			cw.PartsOrder = append(cw.PartsOrder, "caller")
			cw.FormatCaller = func(i interface{}) string {
				return "(" + i.(string) + ")"
			}
			logger = zerolog.New(cw).With().Timestamp().Caller().Logger()
		} else {
			logger = zerolog.New(cw).With().Timestamp().Logger()
		}
	} else {
		baseLogger := zerolog.New(writer).With().Timestamp()
		if level == zerolog.DebugLevel {
			logger = baseLogger.Caller().Logger()
		} else {
			logger = baseLogger.Logger()
		}
	}
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return closer, nil
}

// Game starts an info line about the game flow.
func Game() *zerolog.Event { return categorized(CategoryGame) }

// Host starts an info line addressed to the host.
func Host() *zerolog.Event { return categorized(CategoryHost) }

// Player starts an info line about a player.
func Player() *zerolog.Event { return categorized(CategoryPlayer) }

// Sound starts an info line about playback control.
func Sound() *zerolog.Event { return categorized(CategorySound) }

// Song starts an info line about the song being played.
func Song() *zerolog.Event { return categorized(CategorySong) }

func categorized(category string) *zerolog.Event {
	return zlog.Info().Str(CategoryField, category)
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
