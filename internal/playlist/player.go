package playlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"moodtunes/internal/mood"
	"moodtunes/internal/output"
	"moodtunes/internal/playback"
)

const volumeStep = 10

type PlayerOptions struct {
	Session *playback.Session
	Songs   []mood.Song
	Output  *output.Output
	// Keys delivers single key presses. Nil means no interactive control;
	// Play then runs until ctx is cancelled.
	Keys io.Reader
}

// Play loads songs into the session, starts from the first one and handles
// key presses until the user quits or ctx is cancelled.
func Play(ctx context.Context, options PlayerOptions) error {
	session := options.Session
	out := options.Output
	if len(options.Songs) == 0 {
		return errors.New("playlist: nothing to play")
	}

	if options.Keys != nil {
		out.Info(out.Gray("Keys: space play/pause, n next, p previous, +/- volume, 1-5 jump, q quit"))
	}

	updates, unsubscribe := session.Subscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		printStatus(out, updates)
	}()
	defer func() {
		unsubscribe()
		<-printed
	}()

	session.SetPlaylist(options.Songs)
	if err := session.PlaySong(ctx, options.Songs[0], 0); err != nil {
		return err
	}
	keys := readKeys(ctx, options.Keys)
	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				<-ctx.Done()
				return nil
			}
			quit, err := HandleKey(ctx, session, key)
			if err != nil {
				slog.Warn("key handling failed", "component", "playlist", "key", string(key), "err", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// HandleKey applies one key press to the session and reports whether the
// user asked to quit.
func HandleKey(ctx context.Context, session *playback.Session, key byte) (bool, error) {
	switch key {
	case 'q', 'Q', 0x03, 0x04:
		return true, nil
	case ' ', 'k':
		return false, session.TogglePlayPause()
	case 'n', 'N':
		return false, session.NextSong(ctx)
	case 'p', 'P':
		return false, session.PreviousSong(ctx)
	case '+', '=':
		return false, session.SetVolume(session.Snapshot().Volume + volumeStep)
	case '-', '_':
		return false, session.SetVolume(session.Snapshot().Volume - volumeStep)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		idx := int(key - '1')
		snap := session.Snapshot()
		if idx >= len(snap.Playlist) {
			return false, nil
		}
		return false, session.PlaySong(ctx, snap.Playlist[idx], idx)
	}
	return false, nil
}

func readKeys(ctx context.Context, r io.Reader) <-chan byte {
	ch := make(chan byte)
	if r == nil {
		close(ch)
		return ch
	}
	go func() {
		defer close(ch)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n == 1 {
				select {
				case ch <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return ch
}

type statusKey struct {
	index   int
	state   playback.State
	videoID string
	volume  int
}

func printStatus(out *output.Output, updates <-chan playback.Snapshot) {
	var last statusKey
	first := true
	for snap := range updates {
		if snap.CurrentSong == nil {
			continue
		}
		k := statusKey{index: snap.CurrentIndex, state: snap.State, videoID: snap.CurrentSong.VideoID, volume: snap.Volume}
		if !first && k == last {
			continue
		}
		first = false
		last = k
		out.Print(StatusLine(out, snap))
	}
}

// StatusLine renders the one line player summary.
func StatusLine(out *output.Output, snap playback.Snapshot) string {
	if snap.CurrentSong == nil {
		return out.Gray("Nothing playing")
	}
	song := snap.CurrentSong
	total := len(snap.Playlist)
	if total == 0 {
		total = 1
	}
	var icon string
	switch snap.State {
	case playback.Loading:
		icon = out.Gray("…")
	case playback.Playing:
		icon = out.Green("▶")
	default:
		icon = out.Yellow("⏸")
	}
	line := fmt.Sprintf("%s %d/%d %s - %s", icon, snap.CurrentIndex+1, total, song.Artist, song.Title)
	if snap.State != playback.Loading && song.VideoID == "" {
		line += out.Red(" (no preview)")
	}
	return line + out.Gray(fmt.Sprintf("  [%s, vol %d]", snap.State, snap.Volume))
}
