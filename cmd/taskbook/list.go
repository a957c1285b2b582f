package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cuemby/taskbook/pkg/item"
)

var listArchive bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in the active bucket (or --archive)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}

		var items map[string]item.Item
		if listArchive {
			items, err = s.ReadArchive(context.Background())
		} else {
			items, err = s.ReadActive(context.Background())
		}
		if err != nil {
			return err
		}

		sorted := make([]item.Item, 0, len(items))
		for _, it := range items {
			sorted = append(sorted, it)
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

		for _, it := range sorted {
			printItem(it)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listArchive, "archive", false, "List the archive instead of active items")
}

func printItem(it item.Item) {
	mark := " "
	switch {
	case it.IsTask() && it.Complete:
		mark = "x"
	case it.IsTask() && it.InProgress:
		mark = "~"
	}
	star := ""
	if it.Starred {
		star = " *"
	}
	kind := "note"
	if it.IsTask() {
		kind = fmt.Sprintf("task p%d", it.Priority)
	}
	fmt.Printf("[%s] #%d (%s) %s%s\n", mark, it.ID, kind, it.Description, star)
}
