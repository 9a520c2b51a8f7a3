// Package cli wires configuration, the analysis pipeline, the playback
// session and the HTTP API into the moodtunes command tree.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"moodtunes/internal/ai"
	"moodtunes/internal/config"
	"moodtunes/internal/mood"
	"moodtunes/internal/output"
	"moodtunes/internal/video"
)

// UsageError marks errors caused by how the command was invoked.
type UsageError struct{ Msg string }

func (e UsageError) Error() string { return e.Msg }

func usageErrorf(msg string, lines ...string) error {
	return UsageError{Msg: strings.Join(append([]string{msg}, lines...), "\n")}
}

// IO holds the streams commands read from and write to.
type IO struct {
	In  *os.File
	Out io.Writer
	Err io.Writer
}

type rootFlags struct {
	Debug   bool
	NoColor bool
	Quiet   bool
	JSON    bool
}

type app struct {
	version string
	stdio   IO
	flags   rootFlags
	cfg     config.Config
	out     *output.Output
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, version string, stdio IO) error {
	if stdio.Out == nil {
		stdio.Out = os.Stdout
	}
	if stdio.Err == nil {
		stdio.Err = os.Stderr
	}
	root := newRootCommand(&app{version: version, stdio: stdio})
	root.SetArgs(args)
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)
	err := root.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		return usageErrorf(err.Error(), "(run with --help for usage)")
	}
	return err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "moodtunes",
		Version:       a.version,
		Short:         "Turn how you feel into a playlist",
		Long:          "moodtunes reads a few sentences about how you feel, detects the mood and plays five matching songs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf(err.Error(), "(run with --help for usage)")
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&a.flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&a.flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	pf.BoolVar(&a.flags.JSON, "json", false, "Output machine-readable JSON")

	root.AddCommand(
		newAnalyzeCommand(a),
		newPlayCommand(a),
		newResolveCommand(a),
		newServeCommand(a),
		newVersionCommand(a),
	)
	return root
}

func (a *app) setup() error {
	if a.flags.Debug {
		enableDebugLogging()
	}
	a.cfg = config.Load()
	a.setOutput(a.stdio.Out)
	return nil
}

func (a *app) setOutput(stdout io.Writer) {
	a.out = output.New(output.Options{
		JSON:    a.flags.JSON,
		Quiet:   a.flags.Quiet,
		Verbose: a.flags.Debug,
		NoColor: a.flags.NoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb",
		Stdout:  stdout,
		Stderr:  a.stdio.Err,
	})
}

func (a *app) resolver(ctx context.Context) (video.Resolver, error) {
	if !a.cfg.HasSearch() {
		a.out.Debug("No SEARCH_API_KEY set; using offline video ids")
	}
	return video.New(ctx, a.cfg.SearchAPIKey)
}

func (a *app) pipeline(resolver video.Resolver) *mood.Pipeline {
	var model mood.Model
	if a.cfg.HasModel() {
		model = ai.New(ai.Options{
			APIKey:  a.cfg.ModelAPIKey,
			Model:   a.cfg.ModelName,
			BaseURL: a.cfg.ModelBaseURL,
		})
	} else {
		a.out.Debug("No MODEL_API_KEY set; using demo recommendations")
	}
	return mood.NewPipeline(model, resolver)
}

func (a *app) text(args []string) (string, error) {
	text := textFromArgs(args, a.stdio.In)
	if text == "" {
		return "", usageErrorf("Missing text describing how you feel.",
			"Examples:",
			"  moodtunes analyze \"I finally finished my thesis and I feel light\"",
			"  moodtunes play \"long rainy sunday, a bit lonely\"",
			"  echo \"nervous about tomorrow\" | moodtunes analyze",
		)
	}
	return text, nil
}

// flagChanged reports whether name was set on the command line.
func flagChanged(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}

// IsUsage reports whether err came from bad invocation.
func IsUsage(err error) bool {
	var ue UsageError
	return errors.As(err, &ue)
}
