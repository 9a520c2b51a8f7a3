// Package playback drives a media engine over a playlist of songs.
package playback

import "moodtunes/internal/mood"

// State is the session state machine.
//
//	Idle ──select──▶ Loading ──ready──▶ Playing ◀──toggle──▶ Paused
//	                    ▲                  │
//	                    └──ended / error───┘
type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	State        State       `json:"state"`
	CurrentSong  *mood.Song  `json:"currentSong,omitempty"`
	Playlist     []mood.Song `json:"playlist"`
	CurrentIndex int         `json:"currentIndex"`
	IsPlaying    bool        `json:"isPlaying"`
	IsLoading    bool        `json:"isLoading"`
	Volume       int         `json:"volume"`
}
