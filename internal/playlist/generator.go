package playlist

import (
	"context"
	"fmt"
	"strings"

	"moodtunes/internal/mood"
	"moodtunes/internal/output"
	"moodtunes/internal/video"
)

type GeneratorOptions struct {
	Submitter *mood.Submitter
	Text      string
	Output    *output.Output
}

// Generate analyzes the text and prints the mood and playlist.
func Generate(ctx context.Context, options GeneratorOptions) (mood.Result, error) {
	out := options.Output

	out.Info(out.Gray("Analyzing your mood..."))
	res, err := options.Submitter.Submit(ctx, options.Text)
	if err != nil {
		return mood.Result{}, err
	}
	if out.JSON {
		return res, out.EmitJSON(res)
	}
	PrintResult(out, res)
	return res, nil
}

// PrintResult writes a human readable analysis.
func PrintResult(out *output.Output, res mood.Result) {
	if res.IsDemo {
		out.Warn("Demo mode: showing sample recommendations (no model configured or the model answer was unusable)")
	}
	out.Print(out.Bold("Mood: ") + out.Mood(res.Mood, res.Mood) + out.Gray(fmt.Sprintf("  intensity %d/10", res.Intensity)))
	if len(res.Emotions) > 0 {
		out.Print(out.Bold("Emotions: ") + strings.Join(res.Emotions, ", "))
	}
	out.Print("")
	out.Print(out.Bold("Playlist:"))
	for i, song := range res.Songs {
		out.Print(fmt.Sprintf("  %d. %s - %s", i+1, song.Artist, song.Title))
		if song.Reason != "" {
			out.Print(out.Gray("     " + song.Reason))
		}
		if song.VideoID != "" {
			out.Print(out.Gray("     " + video.WatchURL(song.VideoID)))
		} else {
			out.Print(out.Gray("     no preview available"))
		}
	}
	out.Print("")
}
