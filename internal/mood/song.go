// Package mood turns free text into a mood classification and a five song
// playlist, falling back to curated demo data when the model is unavailable.
package mood

// PlaylistSize is the number of songs a live analysis must return.
const PlaylistSize = 5

type Song struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Reason  string `json:"reason"`
	VideoID string `json:"videoId,omitempty"`
}

// SearchQuery is the query used to look the song up on the video platform.
func SearchQuery(s Song) string {
	return s.Title + " " + s.Artist + " official audio"
}

// WithVideoID returns a copy of s carrying id.
func (s Song) WithVideoID(id string) Song {
	s.VideoID = id
	return s
}

type Result struct {
	Mood      string   `json:"mood"`
	Intensity int      `json:"intensity"`
	Emotions  []string `json:"emotions"`
	Songs     []Song   `json:"songs"`
	IsDemo    bool     `json:"isDemo"`
}
