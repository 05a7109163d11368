package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List board variants",
	Long:  `Shows every board variant with its size and target tile.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	maxIDLen := 2 // "ID" header
	for _, v := range t2048.Variants {
		maxIDLen = max(maxIDLen, len(v.ID))
	}

	fmt.Println("Available boards:")
	fmt.Println()
	fmt.Printf("  %-*s  %-5s  %-7s  %s\n", maxIDLen, "ID", "Size", "Target", "Description")
	fmt.Printf("  %-*s  %-5s  %-7s  %s\n", maxIDLen, "--", "----", "------", "-----------")

	for _, v := range t2048.Variants {
		v = v.Resolved()
		target := "-"
		if v.Threshold > 0 {
			target = fmt.Sprint(v.Threshold)
		}
		size := fmt.Sprintf("%dx%d", v.Size, v.Size)
		fmt.Printf("  %-*s  %-5s  %-7s  %s\n", maxIDLen, v.ID, size, target, v.Description)
	}

	fmt.Println()
	fmt.Println("Run 't2048 play <id>' to play a board.")
}
