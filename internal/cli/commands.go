package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"moodtunes/internal/api"
	"moodtunes/internal/mood"
	"moodtunes/internal/playback"
	"moodtunes/internal/player"
	"moodtunes/internal/playlist"
	"moodtunes/internal/video"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Detect the mood of a text and recommend five songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.text(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			resolver, err := a.resolver(ctx)
			if err != nil {
				return err
			}
			sub := mood.NewSubmitter(a.pipeline(resolver))
			_, err = playlist.Generate(ctx, playlist.GeneratorOptions{Submitter: sub, Text: text, Output: a.out})
			return translateInputError(err)
		},
	}
}

type playFlags struct {
	Server      string
	Volume      int
	TrackLength time.Duration
	ErrorDelay  time.Duration
	OpenBrowser bool
}

func newPlayCommand(a *app) *cobra.Command {
	var pf playFlags
	cmd := &cobra.Command{
		Use:   "play [text...]",
		Short: "Analyze a text and play the recommended songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.JSON {
				return usageErrorf("--json is not supported by play")
			}
			fs := cmd.Flags()
			if !flagChanged(fs, "volume") {
				pf.Volume = a.cfg.Volume
			}
			if !flagChanged(fs, "track-length") {
				pf.TrackLength = a.cfg.TrackLength
			}
			if !flagChanged(fs, "error-delay") {
				pf.ErrorDelay = a.cfg.ErrorDelay
			}
			if !flagChanged(fs, "open-browser") {
				pf.OpenBrowser = a.cfg.OpenBrowser
			}
			if pf.Volume < 0 || pf.Volume > 100 {
				return usageErrorf("volume must be between 0 and 100")
			}
			text, err := a.text(args)
			if err != nil {
				return err
			}
			return a.play(cmd, text, pf)
		},
	}
	f := cmd.Flags()
	f.StringVar(&pf.Server, "server", "", "Resolve videos through a running moodtunes API (e.g. http://localhost:8080)")
	f.IntVar(&pf.Volume, "volume", 0, "Initial volume 0-100 (default from config, 50)")
	f.DurationVar(&pf.TrackLength, "track-length", 0, "Simulated track length; advance automatically when it elapses")
	f.DurationVar(&pf.ErrorDelay, "error-delay", 0, "Wait before skipping a song that failed (default 2s)")
	f.BoolVar(&pf.OpenBrowser, "open-browser", false, "Open each song in the system browser")
	return cmd
}

func (a *app) play(cmd *cobra.Command, text string, pf playFlags) error {
	ctx := cmd.Context()
	local, err := a.resolver(ctx)
	if err != nil {
		return err
	}
	sessionResolver := local
	if pf.Server != "" {
		sessionResolver = api.NewClient(pf.Server)
		a.out.Info(a.out.Gray("Resolving videos through " + pf.Server))
	}

	sub := mood.NewSubmitter(a.pipeline(local))
	res, err := playlist.Generate(ctx, playlist.GeneratorOptions{Submitter: sub, Text: text, Output: a.out})
	if err != nil {
		return translateInputError(err)
	}

	opts := playlist.PlayerOptions{Songs: res.Songs, Output: a.out}
	stdout := a.stdio.Out
	if isTerminal(a.stdio.In) {
		state, err := term.MakeRaw(int(a.stdio.In.Fd()))
		if err != nil {
			return fmt.Errorf("cli: raw terminal: %w", err)
		}
		defer func() { _ = term.Restore(int(a.stdio.In.Fd()), state) }()
		stdout = crlfWriter{w: a.stdio.Out}
		enableLoggingTo(crlfWriter{w: a.stdio.Err}, logLevel(a.flags.Debug))
		opts.Keys = a.stdio.In
		a.setOutput(stdout)
		opts.Output = a.out
	} else {
		a.out.Info(a.out.Gray("Playing without keyboard control (stdin is not a terminal). Ctrl-C to stop."))
	}

	session := playback.NewSession(
		player.NewFactory(player.Options{
			Out:         stdout,
			TrackLength: pf.TrackLength,
			OpenBrowser: pf.OpenBrowser,
		}),
		playback.WithResolver(sessionResolver),
		playback.WithErrorDelay(pf.ErrorDelay),
		playback.WithVolume(pf.Volume),
	)
	defer session.Close()

	opts.Session = session
	return playlist.Play(ctx, opts)
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func newResolveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <query...>",
		Short: "Look up the video id for a search query",
		Args: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(strings.Join(args, " ")) == "" {
				return usageErrorf("resolve needs a search query", "  moodtunes resolve \"Hurt Johnny Cash official audio\"")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			resolver, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolver.Resolve(cmd.Context(), query)
			if errors.Is(err, video.ErrNotFound) {
				return fmt.Errorf("no video found for %q", query)
			}
			if err != nil {
				return err
			}
			if a.out.JSON {
				return a.out.EmitJSON(map[string]any{"query": query, "videoId": id, "url": video.WatchURL(id)})
			}
			fmt.Fprintln(a.out.Stdout(), id)
			a.out.Info(a.out.Gray(video.WatchURL(id)))
			return nil
		},
	}
}

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flagChanged(cmd.Flags(), "addr") {
				addr = a.cfg.Addr
			}
			resolver, err := a.resolver(cmd.Context())
			if err != nil {
				return err
			}
			srv := api.NewServer(a.pipeline(resolver), resolver, api.Options{Debug: a.flags.Debug})
			a.out.Success("Serving moodtunes API on " + addr)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.out.JSON {
				return a.out.EmitJSON(map[string]string{"version": a.version})
			}
			fmt.Fprintln(a.out.Stdout(), a.version)
			return nil
		},
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf(fmt.Sprintf("%s takes no arguments, got %q", cmd.Name(), args))
	}
	return nil
}

func translateInputError(err error) error {
	if errors.Is(err, mood.ErrEmptyInput) {
		return usageErrorf("Missing text describing how you feel.")
	}
	return err
}
