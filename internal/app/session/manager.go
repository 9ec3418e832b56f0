// Package session provides the session manager: it owns one game and
// drives it from keyboard input on a fixed poll interval.
package session

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunequiz/internal/app/input"
	"github.com/osa030/tunequiz/internal/app/notification"
	"github.com/osa030/tunequiz/internal/app/playback"
	"github.com/osa030/tunequiz/internal/app/round"
	"github.com/osa030/tunequiz/internal/app/session/registry"
	"github.com/osa030/tunequiz/internal/app/session/state"
	"github.com/osa030/tunequiz/internal/domain/actor"
	"github.com/osa030/tunequiz/internal/domain/song"
	"github.com/osa030/tunequiz/internal/infra/config"
	"github.com/osa030/tunequiz/internal/infra/logger"
)

var (
	ErrAlreadyStarted = errors.New("session already started")
	ErrNoSongs        = errors.New("session needs at least one song")
)

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces the real clock, typically with a quartz mock in tests.
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

// Status is a point-in-time view of the session, safe to read from any
// goroutine.
type Status struct {
	SessionID   string
	Phase       state.Phase
	EndReason   state.EndReason
	Board       round.Board
	CurrentSong *song.Song  // nil before the first song and once the session ended
	Played      []song.Song // every song that was started, in order
	SongsTotal  int
	SongsQueued int
	Elapsed     time.Duration
}

// Manager manages the quiz session.
type Manager struct {
	mu sync.RWMutex

	// Configuration
	config *config.Config
	clock  quartz.Clock

	// Components
	stateMgr     *state.Manager
	players      *registry.PlayerRegistry
	playback     *playback.Controller
	audio        *audio
	notification *notification.Manager
	classifier   *input.Classifier
	input        input.Source
	game         *round.Game

	// Last rendered board
	board round.Board

	started    atomic.Bool
	done       chan struct{}
	doneOnce   sync.Once
	eventsDone chan struct{}
}

// NewManager creates a new session manager. Players join in the order of
// the configured buzzers and songs are played in the given order.
func NewManager(cfg *config.Config, songs []song.Song, output playback.Output, in input.Source, opts ...Option) (*Manager, error) {
	if len(songs) == 0 {
		return nil, ErrNoSongs
	}

	keys := KeyMapFromConfig(cfg)
	players := registry.NewPlayerRegistry(keys.Reserved())
	for _, b := range cfg.Game.Buzzers {
		if _, err := players.Join(b.Name, b.Key); err != nil {
			return nil, errors.Wrapf(err, "failed to add player %q", b.Name)
		}
	}

	ctrl := playback.NewController(output, playback.Config{
		IntroStart:     cfg.Intro.Start,
		IntroLoop:      cfg.Intro.Loop,
		CommandTimeout: cfg.CommandTimeout(),
		Fade:           cfg.FadeDuration(),
	})
	ctrl.EnqueueMultiple(songs)

	m := &Manager{
		config:       cfg,
		clock:        quartz.NewReal(),
		stateMgr:     state.New(uuid.New().String()),
		players:      players,
		playback:     ctrl,
		audio:        newAudio(ctrl),
		notification: notification.NewManager(0),
		classifier:   input.NewClassifier(keys, players),
		input:        in,
		done:         make(chan struct{}),
		eventsDone:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.stateMgr.SetSongsTotal(len(songs))

	game, err := round.New(actor.NewHost(cfg.Game.HostName), players.All(), m.audio, m.notification)
	if err != nil {
		_ = ctrl.Close()
		return nil, errors.Wrap(err, "failed to create game")
	}
	m.game = game
	m.board = game.Board()

	go m.playbackLoop()
	return m, nil
}

// KeyMapFromConfig builds the host key map, falling back to the default
// layout for every control the config leaves empty.
func KeyMapFromConfig(cfg *config.Config) input.KeyMap {
	k := cfg.Game.Keys
	return input.NewKeyMap(input.Keys{
		Quit:        k.Quit,
		Advance:     k.Advance,
		Acknowledge: k.Acknowledge,
		Pause:       k.Pause,
		Resume:      k.Resume,
		Award:       k.Award,
		Penalty:     k.Penalty,
		SayHi:       k.SayHi,
	})
}

// Run plays the session until the host quits, the songs run out or ctx is
// canceled. It must be called once; the loop runs on the caller's goroutine.
func (m *Manager) Run(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	phase := state.PhaseActive
	if m.config.Game.Intro {
		if _, err := m.game.BeginIntro(); err != nil {
			return errors.Wrap(err, "failed to begin intro")
		}
		phase = state.PhaseIntro
	}
	m.stateMgr.Start(m.clock.Now(), phase)
	zlog.Info().Msgf("session started: session_id=%s players=%d songs=%d intro=%v",
		m.stateMgr.GetSessionID(), m.players.Count(), m.stateMgr.GetSongsTotal(), m.config.Game.Intro)
	m.render()

	ticker := m.clock.NewTicker(m.config.PollInterval(), "session", "poll")
	defer ticker.Stop()

	for {
		if m.Step() {
			m.terminate(m.endReason())
			return nil
		}

		select {
		case <-ctx.Done():
			m.game.Apply(round.HostAction(round.ActionQuit))
			m.render()
			m.terminate(state.EndCanceled)
			return nil
		case <-m.done:
			return nil
		case <-ticker.C:
		}
	}
}

// Step drains the pending input once, applies it in arrival order and
// renders the board. It reports whether the game is over. Only the loop
// goroutine may call it.
func (m *Manager) Step() bool {
	for _, ev := range m.input.NextBatch() {
		if m.game.Done() {
			break
		}
		action, ok := m.classifier.Classify(ev, m.game.Phase())
		if !ok {
			continue
		}
		m.game.Apply(action)
	}
	m.render()
	return m.game.Done()
}

// render records the board for GetStatus and has the game push it to the
// presenter.
func (m *Manager) render() {
	board := m.game.Board()

	m.mu.Lock()
	m.board = board
	m.mu.Unlock()

	switch board.Phase {
	case round.PhaseIntro:
		m.stateMgr.SetPhase(state.PhaseIntro)
	case round.PhaseQuit:
	default:
		if m.started.Load() {
			m.stateMgr.SetPhase(state.PhaseActive)
		}
	}
	m.game.Render()
}

func (m *Manager) endReason() state.EndReason {
	if m.audio.Exhausted() {
		return state.EndSongsExhausted
	}
	return state.EndQuit
}

// terminate ends the session once: it stops playback, closes the input
// and logs the final scores.
func (m *Manager) terminate(reason state.EndReason) {
	if !m.stateMgr.Terminate(m.clock.Now(), reason) {
		return
	}
	zlog.Info().Msgf("phase changed: phase=TERMINATED session_id=%s reason=%s", m.stateMgr.GetSessionID(), reason)

	if err := m.playback.Close(); err != nil {
		zlog.Warn().Err(err).Msg("session: failed to close playback")
	}
	if c, ok := m.input.(interface{ Close() }); ok {
		c.Close()
	}

	for i, p := range m.Scores() {
		logger.Game().Int("rank", i+1).Int("player", int(p.ID)).Int("score", p.Score).
			Msgf("#%d %s: %d", i+1, p.Name, p.Score)
	}
	m.doneOnce.Do(func() { close(m.done) })
}

// Done returns a channel closed when the session has ended.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Scores returns the players of the last rendered board, best first. Ties
// keep join order.
func (m *Manager) Scores() []actor.Player {
	m.mu.RLock()
	players := slices.Clone(m.board.Players)
	m.mu.RUnlock()

	slices.SortStableFunc(players, func(a, b actor.Player) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return players
}

// GetStatus returns the current session status.
func (m *Manager) GetStatus() *Status {
	m.mu.RLock()
	board := m.board
	m.mu.RUnlock()

	current, _ := m.playback.GetCurrentSong()
	return &Status{
		SessionID:   m.stateMgr.GetSessionID(),
		Phase:       m.stateMgr.GetPhase(),
		EndReason:   m.stateMgr.GetEndReason(),
		Board:       board,
		CurrentSong: current,
		Played:      m.playback.GetPlayedSongs(),
		SongsTotal:  m.stateMgr.GetSongsTotal(),
		SongsQueued: m.playback.GetQueueSize(),
		Elapsed:     m.stateMgr.Elapsed(m.clock.Now()),
	}
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}

// playbackLoop logs playback events until the controller is closed.
func (m *Manager) playbackLoop() {
	defer close(m.eventsDone)
	for event := range m.playback.Events() {
		m.handlePlaybackEvent(event)
	}
}

func (m *Manager) handlePlaybackEvent(event playback.Event) {
	switch event.Type {
	case playback.EventSongStarted:
		if event.Song != nil {
			logger.Song().Str("song_id", event.Song.ID).Msgf("Song: %s", event.Song.Name)
		}
	case playback.EventSongFailed:
		name := ""
		if event.Song != nil {
			name = event.Song.Name
		}
		zlog.Error().Err(event.Err).Msgf("session: song could not be played, skip it with the advance key: song=%s", name)
	case playback.EventStateChanged:
		logger.Sound().Str("state", event.State.String()).Msg("Playback " + event.State.String())
	case playback.EventIntroStarted:
		logger.Sound().Msg("Intro music started")
	case playback.EventIntroStopped:
		logger.Sound().Msg("Intro music fading out")
	case playback.EventQueueEmpty:
		logger.Sound().Msg("No songs left in the queue")
	}
}

// Close ends the session if it is still running and releases every
// collaborator. It waits until queued notifications are delivered.
func (m *Manager) Close() {
	m.terminate(state.EndCanceled)
	<-m.eventsDone
	m.notification.Close()
}
