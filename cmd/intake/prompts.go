package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/fica-intake/internal/prompts"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts [key]",
	Short: "List the analysis prompt templates, or print one by key",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrompts,
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		tmpl, err := prompts.Get(prompts.AnalysisFile, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, tmpl)
		return err
	}

	keys, err := prompts.Keys(prompts.AnalysisFile)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := fmt.Fprintln(out, key); err != nil {
			return err
		}
	}
	return nil
}
