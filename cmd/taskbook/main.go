// Command taskbook is the thin client entrypoint: it wires a Store (local
// filesystem or remote sync server, selected by whether a credentials
// file is present) to taskservice.Service and dispatches one subcommand
// per invocation. Interactive rendering is explicitly out of scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "taskbook",
	Short: "taskbook manages tasks and notes from the terminal",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Local storage directory (ignored once logged in to a sync server)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(addTaskCmd)
	rootCmd.AddCommand(addNoteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(beginCmd)
	rootCmd.AddCommand(starCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(renameBoardCmd)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskbook"
	}
	return home + "/.taskbook"
}
