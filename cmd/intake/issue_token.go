package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/fica-intake/internal/server"
	"github.com/jonathan/fica-intake/internal/server/middleware"
)

var (
	tokenCase    string
	tokenClient  string
	tokenEntity  string
	tokenAccount string
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Mint a case-link token for a client",
	Long: `Mint a signed case-link token. The client presents it as a bearer token when
submitting; the submitted case number must match the token's. Requires CASE_TOKEN_SECRET.`,
	RunE: runIssueToken,
}

func init() {
	issueTokenCmd.Flags().StringVar(&tokenCase, "case", "", "Case number (required)")
	issueTokenCmd.Flags().StringVar(&tokenClient, "client", "", "Client name")
	issueTokenCmd.Flags().StringVar(&tokenEntity, "entity", "", "Entity type")
	issueTokenCmd.Flags().StringVar(&tokenAccount, "account", "", "Account type")
	_ = issueTokenCmd.MarkFlagRequired("case")
	rootCmd.AddCommand(issueTokenCmd)
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tc, err := cfg.CaseTokens()
	if err != nil {
		return err
	}
	if tc == nil {
		return fmt.Errorf("CASE_TOKEN_SECRET is required to issue case tokens")
	}

	token, err := server.NewCaseTokenService(tc).GenerateToken(middleware.Case{
		Number:      tokenCase,
		ClientName:  tokenClient,
		EntityType:  tokenEntity,
		AccountType: tokenAccount,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
