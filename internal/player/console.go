// Package player implements a terminal media engine. It prints what would be
// playing and can hand the watch page to the system browser.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/browser"

	"moodtunes/internal/playback"
	"moodtunes/internal/video"
)

var ErrClosed = errors.New("player: closed")

var quietBrowser sync.Once

func openURL(url string) error {
	quietBrowser.Do(func() {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
	})
	return browser.OpenURL(url)
}

type Options struct {
	Out io.Writer
	// TrackLength simulates the end of a track while playing. Zero disables it.
	TrackLength time.Duration
	OpenBrowser bool
	// Open overrides browser.OpenURL.
	Open func(url string) error
}

// Console is a playback.Engine that writes to a terminal.
type Console struct {
	opts    Options
	onEvent playback.EventHandler

	mu        sync.Mutex
	videoID   string
	token     uint64
	failed    bool
	playing   bool
	volume    int
	closed    bool
	timer     *time.Timer
	remaining time.Duration
	startedAt time.Time
	loadSeq   uint64
}

// NewFactory returns a playback.EngineFactory building Console engines.
func NewFactory(opts Options) playback.EngineFactory {
	return func(videoID string, token uint64, volume int, onEvent playback.EventHandler) (playback.Engine, error) {
		c := New(opts, onEvent)
		c.volume = volume
		if err := c.Load(videoID, token); err != nil {
			return nil, err
		}
		return c, nil
	}
}

func New(opts Options, onEvent playback.EventHandler) *Console {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = openURL
	}
	return &Console{opts: opts, onEvent: onEvent, volume: playback.DefaultVolume}
}

// Load replaces the current video. Events about it carry token.
func (c *Console) Load(videoID string, token uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.stopTimerLocked()
	c.loadSeq++
	c.videoID = videoID
	c.token = token
	c.failed = false
	c.playing = false
	c.remaining = c.opts.TrackLength

	if videoID == "" {
		c.failed = true
		c.emit(playback.EventError)
		return nil
	}
	url := video.WatchURL(videoID)
	fmt.Fprintf(c.opts.Out, "Loaded %s\n", url)
	if c.opts.OpenBrowser {
		if err := c.opts.Open(url); err != nil {
			fmt.Fprintf(c.opts.Out, "Could not open browser: %v\n", err)
			c.failed = true
			c.emit(playback.EventError)
		}
	}
	return nil
}

func (c *Console) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.playing || c.failed {
		return nil
	}
	c.playing = true
	if c.opts.TrackLength > 0 && c.remaining > 0 {
		seq := c.loadSeq
		c.startedAt = time.Now()
		c.timer = time.AfterFunc(c.remaining, func() { c.trackEnded(seq) })
	}
	c.emit(playback.EventStarted)
	return nil
}

func (c *Console) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.playing {
		return nil
	}
	c.playing = false
	if c.timer != nil {
		c.stopTimerLocked()
		c.remaining -= time.Since(c.startedAt)
		if c.remaining < 0 {
			c.remaining = 0
		}
	}
	return nil
}

func (c *Console) SetVolume(v int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.volume = v
	return nil
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
	return nil
}

// Status returns the loaded video, whether it plays and the volume.
func (c *Console) Status() (videoID string, playing bool, volume int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoID, c.playing, c.volume
}

func (c *Console) trackEnded(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.loadSeq || !c.playing {
		return
	}
	c.timer = nil
	c.playing = false
	c.remaining = 0
	c.emit(playback.EventEnded)
}

func (c *Console) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Console) emit(ev playback.Event) {
	if c.onEvent == nil {
		return
	}
	go c.onEvent(c.token, ev)
}
