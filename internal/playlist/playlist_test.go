package playlist

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodtunes/internal/mood"
	"moodtunes/internal/output"
	"moodtunes/internal/playback"
)

var testSongs = []mood.Song{
	{Title: "Hurt", Artist: "Johnny Cash", Reason: "Depth", VideoID: "a"},
	{Title: "Mad World", Artist: "Gary Jules", Reason: "Haunting", VideoID: "b"},
	{Title: "Black", Artist: "Pearl Jam", Reason: "Raw"},
}

type staticAnalyzer struct{ res mood.Result }

func (s staticAnalyzer) Analyze(context.Context, string) mood.Result { return s.res }

func newTestOutput(json bool) (*output.Output, *bytes.Buffer) {
	var buf bytes.Buffer
	return output.New(output.Options{NoColor: true, JSON: json, Stdout: &buf, Stderr: &buf}), &buf
}

func newTestSession(t *testing.T) (*playback.Session, *playback.MockFactory) {
	t.Helper()
	factory := playback.NewMockFactory()
	s := playback.NewSession(factory.New)
	t.Cleanup(func() { _ = s.Close() })
	return s, factory
}

func TestGenerate_PrintsResult(t *testing.T) {
	out, buf := newTestOutput(false)
	sub := mood.NewSubmitter(staticAnalyzer{res: mood.Result{
		Mood: "melancholic", Intensity: 8, Emotions: []string{"sad", "tired"}, Songs: testSongs, IsDemo: true,
	}})

	res, err := Generate(context.Background(), GeneratorOptions{Submitter: sub, Text: "rough day", Output: out})
	require.NoError(t, err)
	assert.Equal(t, "melancholic", res.Mood)

	text := buf.String()
	assert.Contains(t, text, "Demo mode")
	assert.Contains(t, text, "Mood: melancholic")
	assert.Contains(t, text, "intensity 8/10")
	assert.Contains(t, text, "Emotions: sad, tired")
	assert.Contains(t, text, "1. Johnny Cash - Hurt")
	assert.Contains(t, text, "https://www.youtube.com/watch?v=a")
	assert.Contains(t, text, "no preview available")
}

func TestGenerate_JSON(t *testing.T) {
	out, buf := newTestOutput(true)
	sub := mood.NewSubmitter(staticAnalyzer{res: mood.Result{Mood: "calm", Intensity: 2, Songs: testSongs}})

	_, err := Generate(context.Background(), GeneratorOptions{Submitter: sub, Text: "fine", Output: out})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"mood": "calm"`)
	assert.Contains(t, buf.String(), `"isDemo": false`)
	assert.NotContains(t, buf.String(), "Analyzing")
}

func TestGenerate_EmptyInput(t *testing.T) {
	out, _ := newTestOutput(false)
	sub := mood.NewSubmitter(staticAnalyzer{})

	_, err := Generate(context.Background(), GeneratorOptions{Submitter: sub, Text: "  ", Output: out})
	assert.ErrorIs(t, err, mood.ErrEmptyInput)
}

func TestHandleKey(t *testing.T) {
	s, factory := newTestSession(t)
	ctx := context.Background()
	s.SetPlaylist(testSongs)
	require.NoError(t, s.PlaySong(ctx, testSongs[0], 0))

	quit, err := HandleKey(ctx, s, 'n')
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)

	_, _ = HandleKey(ctx, s, 'p')
	_, _ = HandleKey(ctx, s, 'p')
	assert.Equal(t, 2, s.Snapshot().CurrentIndex)

	_, _ = HandleKey(ctx, s, '2')
	assert.Equal(t, 1, s.Snapshot().CurrentIndex)

	_, _ = HandleKey(ctx, s, '9')
	assert.Equal(t, 1, s.Snapshot().CurrentIndex, "out of range jump is ignored")

	_, _ = HandleKey(ctx, s, '+')
	assert.Equal(t, 60, s.Snapshot().Volume)
	_, _ = HandleKey(ctx, s, '-')
	_, _ = HandleKey(ctx, s, '-')
	assert.Equal(t, 40, s.Snapshot().Volume)

	_, _ = HandleKey(ctx, s, ' ')
	assert.Equal(t, playback.Paused, s.Snapshot().State)
	assert.Equal(t, 1, factory.Engine.Pauses())

	quit, _ = HandleKey(ctx, s, 'q')
	assert.True(t, quit)
	quit, _ = HandleKey(ctx, s, 0x03)
	assert.True(t, quit)
}

func TestPlay_KeysUntilQuit(t *testing.T) {
	s, factory := newTestSession(t)
	out, buf := newTestOutput(false)

	err := Play(context.Background(), PlayerOptions{
		Session: s,
		Songs:   testSongs,
		Output:  out,
		Keys:    strings.NewReader("nq"),
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.CurrentIndex)
	assert.Equal(t, playback.Playing, snap.State)
	assert.Equal(t, 1, factory.Count())
	assert.Contains(t, buf.String(), "Johnny Cash - Hurt")
	assert.Contains(t, buf.String(), "Gary Jules - Mad World")
}

func TestPlay_NoKeysWaitsForCancel(t *testing.T) {
	s, _ := newTestSession(t)
	out, _ := newTestOutput(false)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Play(ctx, PlayerOptions{Session: s, Songs: testSongs, Output: out})
	}()

	require.Eventually(t, func() bool {
		return s.Snapshot().State == playback.Playing
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Play did not return after cancel")
	}
}

func TestPlay_EmptyPlaylist(t *testing.T) {
	s, _ := newTestSession(t)
	out, _ := newTestOutput(false)

	err := Play(context.Background(), PlayerOptions{Session: s, Output: out})
	assert.Error(t, err)
}

func TestStatusLine(t *testing.T) {
	out, _ := newTestOutput(false)
	song := testSongs[2]

	line := StatusLine(out, playback.Snapshot{
		State: playback.Playing, CurrentSong: &song, Playlist: testSongs, CurrentIndex: 2, Volume: 50,
	})
	assert.Contains(t, line, "3/3 Pearl Jam - Black")
	assert.Contains(t, line, "(no preview)")
	assert.Contains(t, line, "[Playing, vol 50]")

	assert.Contains(t, StatusLine(out, playback.Snapshot{}), "Nothing playing")
}
