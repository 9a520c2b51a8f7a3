package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"moodtunes/internal/cli"
)

const (
	exitSuccess     = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
	version         = "1.0.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, os.Args[1:], version, cli.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	interrupted := ctx.Err() != nil
	stop()

	if err != nil {
		var ue cli.UsageError
		if errors.As(err, &ue) {
			fmt.Fprintln(os.Stderr, ue.Msg)
			os.Exit(exitUsage)
		}
		if interrupted && errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted (Ctrl-C)")
			os.Exit(exitInterrupted)
		}
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(exitFailure)
	}
	if interrupted {
		fmt.Fprintln(os.Stderr, "Interrupted (Ctrl-C)")
		os.Exit(exitInterrupted)
	}
	os.Exit(exitSuccess)
}
