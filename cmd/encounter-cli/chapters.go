package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careloop-health/readmit/pkg/terminology"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the diagnosis chapter labels and their model codes",
	RunE:  runChapters,
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
}

func runChapters(cmd *cobra.Command, args []string) error {
	catalog, err := terminology.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("loading chapter catalog: %w", err)
	}

	for _, chapter := range catalog.Chapters {
		code := chapter.Code
		if code == "" {
			code = "-"
		}
		fmt.Printf("%-4s %s\n", code, chapter.Label)
	}
	return nil
}
