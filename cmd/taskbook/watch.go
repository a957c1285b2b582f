package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cuemby/taskbook/pkg/credentials"
	"github.com/cuemby/taskbook/pkg/livesync"
)

// watchCmd runs the client's live-update loop in the foreground: it holds
// one connection to the configured sync server's /events stream open and
// prints a line every time the server reports a bucket changed, until
// interrupted. It only makes sense once this machine is logged in to a
// sync server; a local-only setup has nothing to watch.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a sync server for live updates and print them as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := credentials.DefaultPath()
		if err != nil {
			return err
		}
		creds, err := credentials.Load(path)
		if err != nil {
			return fmt.Errorf("not logged in to a sync server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reader := livesync.New(creds.ServerURL, creds.Token)
		out := livesync.NewChannel()
		go reader.Run(ctx, out)

		fmt.Println("Watching", creds.ServerURL, "for live updates (Ctrl-C to stop)")
		for ev := range out {
			if ev.Archive {
				fmt.Println("archive bucket changed")
			} else {
				fmt.Println("active bucket changed")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
