package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/fica-intake/internal/db"
)

var (
	historyCase string
	historyID   string
	historyJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show audited submissions for a case or a single submission",
	Long:  "Read the submission audit trail. Requires DATABASE_URL. Pass --case to list a case's submissions or --id for one record.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyCase, "case", "", "Case number to list")
	historyCmd.Flags().StringVar(&historyID, "id", "", "Submission ID to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output JSON")
	historyCmd.MarkFlagsOneRequired("case", "id")
	historyCmd.MarkFlagsMutuallyExclusive("case", "id")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	var id uuid.UUID
	if historyID != "" {
		parsed, err := uuid.Parse(historyID)
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		id = parsed
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required to read the submission history")
	}

	ctx := contextOrBackground(cmd)
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	var records []db.SubmissionRecord
	if historyID != "" {
		rec, err := database.GetSubmission(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get submission %s: %w", id, err)
		}
		records = append(records, *rec)
	} else {
		records, err = database.ListSubmissionsByCase(ctx, historyCase)
		if err != nil {
			return err
		}
	}

	if historyJSON {
		if records == nil {
			records = []db.SubmissionRecord{}
		}
		return writeJSON(cmd.OutOrStdout(), records)
	}
	return printHistory(cmd, records)
}

func printHistory(cmd *cobra.Command, records []db.SubmissionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No submissions found")
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCASE\tCLIENT\tOUTCOME\tSTATUS\tDOCS\tFILES\tPROGRESS\tCREATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.0f%%\t%s\n",
			r.ID, r.CaseNumber, r.ClientName, r.Outcome, r.UpstreamStatus,
			r.DocumentCount, r.AttachmentCount, r.Progress, r.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}
