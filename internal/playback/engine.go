package playback

import "time"

type Event int

const (
	EventEnded Event = iota + 1
	EventError
	// EventStarted reports that the loaded track is actually playing.
	EventStarted
)

func (e Event) String() string {
	switch e {
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	case EventStarted:
		return "started"
	default:
		return "unknown"
	}
}

// Engine plays one video at a time. Implementations report track start, end
// and playback failures through the EventHandler given to the factory,
// tagged with the token of the Load that produced them.
type Engine interface {
	Load(videoID string, token uint64) error
	Play() error
	Pause() error
	SetVolume(v int) error
	Close() error
}

type EventHandler func(token uint64, ev Event)

// EngineFactory builds an engine with videoID already loaded under token.
type EngineFactory func(videoID string, token uint64, volume int, onEvent EventHandler) (Engine, error)

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
