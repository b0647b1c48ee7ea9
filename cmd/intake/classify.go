package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/fica-intake/internal/analysis"
	"github.com/jonathan/fica-intake/internal/doctype"
	"github.com/jonathan/fica-intake/internal/observability"
)

var (
	classifyPrompt bool
	classifyJSON   bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <document-id>...",
	Short: "Show the canonical document type for UI document ids",
	Long: `Normalize one or more UI document ids (for example idCopy or "Company Documents")
to their canonical type. With --prompt the full analysis instruction is printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyPrompt, "prompt", false, "Print the analysis instruction for each id")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(classifyCmd)
}

type classification struct {
	ID           string      `json:"id"`
	DocumentType doctype.Tag `json:"documentType"`
	Criteria     []string    `json:"criteria"`
	Leniency     []string    `json:"leniency"`
	Instruction  string      `json:"instruction,omitempty"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if classifyJSON {
		results := make([]classification, 0, len(args))
		for _, id := range args {
			tag, instruction := analysis.DocumentInstruction(id)
			c := classification{
				ID:           id,
				DocumentType: tag,
				Criteria:     doctype.Checklist(tag),
				Leniency:     doctype.Leniency(tag).Lines(),
			}
			if classifyPrompt {
				c.Instruction = instruction
			}
			results = append(results, c)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printer := observability.NewPrinter(out)
	for _, id := range args {
		tag, instruction := analysis.DocumentInstruction(id)
		printer.PrintClassification(id, tag, classifyPrompt)
		if classifyPrompt {
			if _, err := out.Write([]byte(instruction + "\n")); err != nil {
				return err
			}
		}
	}
	return nil
}
