package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"moodtunes/internal/mood"
	"moodtunes/internal/video"
)

const (
	DefaultVolume     = 50
	DefaultErrorDelay = 2 * time.Second

	subscriberBuffer = 16
)

var (
	ErrClosed       = errors.New("playback: session closed")
	ErrInvalidIndex = errors.New("playback: index out of range")
)

// Session owns the playlist, the current selection and the single media
// engine. All methods are safe for concurrent use.
type Session struct {
	factory    EngineFactory
	resolver   video.Resolver
	clock      Clock
	errorDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	playlist  []mood.Song
	current   *mood.Song
	index     int
	playing   bool
	loading   bool
	volume    int
	engine    Engine
	selection uint64
	loaded    uint64
	pending   Timer
	pendingID uint64
	failures  int
	subs      map[int]chan Snapshot
	nextSub   int
	closed    bool
}

type Option func(*Session)

// WithResolver sets the lookup used for songs without a video identifier.
func WithResolver(r video.Resolver) Option {
	return func(s *Session) { s.resolver = r }
}

func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithErrorDelay sets how long the session waits after a playback error
// before moving to the next song.
func WithErrorDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.errorDelay = d
		}
	}
}

func WithVolume(v int) Option {
	return func(s *Session) { s.volume = clampVolume(v) }
}

func NewSession(factory EngineFactory, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		factory:    factory,
		clock:      realClock{},
		errorDelay: DefaultErrorDelay,
		volume:     DefaultVolume,
		ctx:        ctx,
		cancel:     cancel,
		subs:       map[int]chan Snapshot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPlaylist replaces the playlist and resets the index without starting
// playback.
func (s *Session) SetPlaylist(songs []mood.Song) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelPendingLocked()
	s.selection++
	s.playlist = append([]mood.Song(nil), songs...)
	s.index = 0
	s.loading = false
	s.failures = 0
	s.notifyLocked()
}

// PlaySong selects song at index and starts it. A song without a video
// identifier is looked up first; a newer selection made meanwhile wins.
func (s *Session) PlaySong(ctx context.Context, song mood.Song, index int) error {
	return s.play(ctx, song, index, true)
}

func (s *Session) NextSong(ctx context.Context) error {
	return s.step(ctx, 1, true)
}

func (s *Session) PreviousSong(ctx context.Context) error {
	return s.step(ctx, -1, true)
}

func (s *Session) step(ctx context.Context, delta int, user bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	n := len(s.playlist)
	if n == 0 {
		s.mu.Unlock()
		return nil
	}
	idx := ((s.index+delta)%n + n) % n
	song := s.playlist[idx]
	s.mu.Unlock()
	return s.play(ctx, song, idx, user)
}

func (s *Session) play(ctx context.Context, song mood.Song, index int, user bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if len(s.playlist) > 0 && (index < 0 || index >= len(s.playlist)) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	s.cancelPendingLocked()
	if user {
		s.failures = 0
	}
	s.selection++
	sel := s.selection
	s.loaded = 0
	cur := song
	s.current = &cur
	s.index = index
	s.loading = true
	s.notifyLocked()
	resolver := s.resolver
	s.mu.Unlock()

	if song.VideoID == "" && resolver != nil {
		id, err := resolver.Resolve(ctx, mood.SearchQuery(song))
		if err != nil {
			slog.Debug("lookup failed", "component", "playback", "song", song.Title, "err", err)
		} else if id != "" {
			song = song.WithVideoID(id)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || sel != s.selection {
		slog.Debug("dropping stale selection", "component", "playback", "song", song.Title)
		return nil
	}
	cur = song
	s.current = &cur
	if song.VideoID != "" && index >= 0 && index < len(s.playlist) {
		s.playlist[index] = song
	}
	s.loading = false
	s.playing = true

	if song.VideoID == "" {
		if s.engine != nil {
			_ = s.engine.Pause()
		}
		s.failLocked("no video for " + song.Title)
		s.notifyLocked()
		return nil
	}
	if err := s.startLocked(song.VideoID, sel); err != nil {
		s.failLocked(err.Error())
	}
	s.notifyLocked()
	return nil
}

// startLocked loads id into the engine under token sel. Events carrying any
// other token belong to an earlier track and are ignored.
func (s *Session) startLocked(id string, sel uint64) error {
	s.loaded = sel
	if s.engine == nil {
		if s.factory == nil {
			s.loaded = 0
			return errors.New("playback: no engine factory")
		}
		engine, err := s.factory(id, sel, s.volume, s.dispatch)
		if err != nil {
			s.loaded = 0
			return fmt.Errorf("playback: create engine: %w", err)
		}
		s.engine = engine
	} else if err := s.engine.Load(id, sel); err != nil {
		s.loaded = 0
		return fmt.Errorf("playback: load %s: %w", id, err)
	}
	if err := s.engine.Play(); err != nil {
		s.loaded = 0
		return fmt.Errorf("playback: play %s: %w", id, err)
	}
	return nil
}

// dispatch is handed to the engine. Events are processed on their own
// goroutine so engines may emit while the session lock is held.
func (s *Session) dispatch(token uint64, ev Event) {
	go s.handleEvent(token, ev)
}

func (s *Session) handleEvent(token uint64, ev Event) {
	s.mu.Lock()
	if s.closed || s.loading || s.current == nil || token == 0 || token != s.loaded {
		s.mu.Unlock()
		slog.Debug("dropping engine event", "component", "playback", "event", ev, "token", token)
		return
	}
	switch ev {
	case EventStarted:
		s.failures = 0
	case EventEnded:
		s.failures = 0
		s.mu.Unlock()
		if err := s.step(s.ctx, 1, false); err != nil && !errors.Is(err, ErrClosed) {
			slog.Warn("advance after end failed", "component", "playback", "err", err)
		}
		return
	case EventError:
		s.failLocked("engine error")
		s.notifyLocked()
	}
	s.mu.Unlock()
}

// failLocked counts a failure and schedules an auto-advance. The session
// only gives up once the failure streak has gone around the whole playlist
// and reached a song that already failed, with no track starting in between.
func (s *Session) failLocked(reason string) {
	s.failures++
	n := len(s.playlist)
	if n == 0 || s.failures > n {
		slog.Warn("playback stopped after repeated failures", "component", "playback", "reason", reason, "failures", s.failures)
		s.playing = false
		if s.engine != nil {
			_ = s.engine.Pause()
		}
		return
	}
	slog.Debug("scheduling auto-advance", "component", "playback", "reason", reason, "delay", s.errorDelay)
	s.cancelPendingLocked()
	s.pendingID++
	id := s.pendingID
	s.pending = s.clock.AfterFunc(s.errorDelay, func() { s.autoAdvance(id) })
}

func (s *Session) autoAdvance(id uint64) {
	s.mu.Lock()
	if s.closed || s.pending == nil || s.pendingID != id {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()
	if err := s.step(s.ctx, 1, false); err != nil && !errors.Is(err, ErrClosed) {
		slog.Warn("auto-advance failed", "component", "playback", "err", err)
	}
}

func (s *Session) cancelPendingLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// AdvancePending reports whether an auto-advance is scheduled.
func (s *Session) AdvancePending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// TogglePlayPause flips between playing and paused. Without an engine it
// does nothing.
func (s *Session) TogglePlayPause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.engine == nil {
		return nil
	}
	s.playing = !s.playing
	var err error
	if s.playing {
		err = s.engine.Play()
	} else {
		err = s.engine.Pause()
	}
	s.notifyLocked()
	return err
}

// SetVolume clamps v to 0..100 and forwards it to the engine if one exists.
func (s *Session) SetVolume(v int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.volume = clampVolume(v)
	var err error
	if s.engine != nil {
		err = s.engine.SetVolume(s.volume)
	}
	s.notifyLocked()
	return err
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Playlist:     append([]mood.Song(nil), s.playlist...),
		CurrentIndex: s.index,
		IsPlaying:    s.playing,
		IsLoading:    s.loading,
		Volume:       s.volume,
	}
	if s.current != nil {
		cur := *s.current
		snap.CurrentSong = &cur
	}
	switch {
	case s.loading:
		snap.State = Loading
	case s.current == nil:
		snap.State = Idle
	case s.playing:
		snap.State = Playing
	default:
		snap.State = Paused
	}
	return snap
}

// Subscribe returns a channel receiving a snapshot after every change.
// Slow subscribers miss updates rather than block the session. The returned
// func unsubscribes.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

func (s *Session) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close cancels pending work, closes the engine and ends subscriptions.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	s.cancelPendingLocked()
	s.selection++
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	if s.engine != nil {
		err := s.engine.Close()
		s.engine = nil
		return err
	}
	return nil
}
