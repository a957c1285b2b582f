package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/taskbook/pkg/item"
)

func parseIDs(args []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var taskBody string

// addTaskCmd and addNoteCmd parse their positional words the same way the
// original CLI does: "@board" and "+tag" tokens and the literal "p:1"/"p:2"/
// "p:3" priority tokens are pulled out, everything else concatenates into
// the description (item.ParseCLIInput).
var addTaskCmd = &cobra.Command{
	Use:   "add WORDS...",
	Short: "Add a new task (@board, +tag, p:1|p:2|p:3 tokens; rest is the description)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boards, tags, description, priority := item.ParseCLIInput(args)
		if description == "" {
			return fmt.Errorf("description is required")
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		it, err := svc.CreateTask(context.Background(), description, boards, tags, priority)
		if err != nil {
			return err
		}
		fmt.Printf("Added task #%d\n", it.ID)
		return nil
	},
}

var addNoteCmd = &cobra.Command{
	Use:   "addnote WORDS...",
	Short: "Add a new note (@board, +tag tokens; rest is the description)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boards, tags, description, _ := item.ParseCLIInput(args)
		if description == "" {
			return fmt.Errorf("description is required")
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		it, err := svc.CreateNote(context.Background(), description, taskBody, boards, tags)
		if err != nil {
			return err
		}
		fmt.Printf("Added note #%d\n", it.ID)
		return nil
	},
}

func init() {
	addNoteCmd.Flags().StringVar(&taskBody, "body", "", "Note body")
}

var checkCmd = &cobra.Command{
	Use:   "check ID...",
	Short: "Toggle completion on the given items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.Check(context.Background(), ids)
	},
}

var beginCmd = &cobra.Command{
	Use:   "begin ID...",
	Short: "Toggle in-progress on the given items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.Begin(context.Background(), ids)
	},
}

var starCmd = &cobra.Command{
	Use:   "star ID...",
	Short: "Toggle starred on the given items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.Star(context.Background(), ids)
	},
}

var priorityValue int

var priorityCmd = &cobra.Command{
	Use:   "priority ID...",
	Short: "Set priority on the given items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.Priority(context.Background(), ids, priorityValue)
	},
}

func init() {
	priorityCmd.Flags().IntVar(&priorityValue, "value", 1, "Priority (1-3)")
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID...",
	Short: "Move the given items to the archive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.Delete(context.Background(), ids)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore ID...",
	Short: "Move the given items out of the archive",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.Restore(context.Background(), ids)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Archive every completed task",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		n, err := svc.ClearCompleted(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Archived %d completed task(s)\n", n)
		return nil
	},
}

var moveBoards []string

var moveCmd = &cobra.Command{
	Use:   "move ID...",
	Short: "Replace the boards on the given items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		svc, err := openService()
		if err != nil {
			return err
		}
		return svc.MoveBoards(context.Background(), ids, moveBoards)
	},
}

func init() {
	moveCmd.Flags().StringSliceVar(&moveBoards, "board", nil, "New boards (repeatable)")
}

var renameBoardCmd = &cobra.Command{
	Use:   "rename-board OLD NEW",
	Short: "Rename a board across every item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		n, err := svc.RenameBoard(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed board on %d item(s)\n", n)
		return nil
	},
}
