package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/fica-intake/internal/observability"
	"github.com/jonathan/fica-intake/internal/requirements"
)

var (
	checklistEntity  string
	checklistAccount string
	checklistJSON    bool
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "List the documents required for an entity and account type",
	RunE:  runChecklist,
}

func init() {
	checklistCmd.Flags().StringVar(&checklistEntity, "entity", "", "Entity type (required), e.g. Individual, Trust, PrivateCompany")
	checklistCmd.Flags().StringVar(&checklistAccount, "account", "", "Account type, e.g. Transporter")
	checklistCmd.Flags().BoolVar(&checklistJSON, "json", false, "Output JSON")
	_ = checklistCmd.MarkFlagRequired("entity")
	rootCmd.AddCommand(checklistCmd)
}

func runChecklist(cmd *cobra.Command, _ []string) error {
	if !requirements.KnownEntityType(checklistEntity) {
		return fmt.Errorf("unknown entity type %q (expected one of: %s)",
			checklistEntity, strings.Join(requirements.EntityTypes(), ", "))
	}

	docs := requirements.Resolve(checklistEntity, checklistAccount)
	if checklistJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintChecklist(checklistEntity, checklistAccount, docs)
	return nil
}
