package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallyups/tally/internal/api"
	"github.com/tallyups/tally/internal/common"
	"github.com/tallyups/tally/internal/config"
	"github.com/tallyups/tally/internal/export"
	"github.com/tallyups/tally/internal/review"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export transactions to CSV",
		Long: `Export transactions to CSV without opening the interactive list. Writes to
the given file, or stdout when no file is named. Filters match the review
list's semantics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().String("status", "", "only export transactions with this status")
	cmd.Flags().StringSlice("type", nil, "only export these business types (repeatable)")
	cmd.Flags().String("search", "", "only export transactions matching this query")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := api.NewClient(api.Config{BaseURL: cfg.Server.URL, Timeout: cfg.Server.Timeout}, nil)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	transactions, err := client.GetTransactions(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching transactions: %w", err)
	}

	criteria := review.Criteria{}
	criteria.Status, _ = cmd.Flags().GetString("status")
	criteria.Query, _ = cmd.Flags().GetString("search")
	criteria.BusinessTypes, _ = cmd.Flags().GetStringSlice("type")
	transactions = criteria.Apply(transactions)

	out := os.Stdout
	if len(args) == 1 {
		f, createErr := os.Create(args[0])
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", args[0], createErr)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := export.WriteCSV(out, transactions); err != nil {
		return err
	}

	if len(args) == 1 {
		common.LogInfo("Exported transactions", common.Fields{"rows": len(transactions), "file": args[0]})
	}
	return nil
}
