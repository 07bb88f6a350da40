package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tallyups/tally/internal/api"
	"github.com/tallyups/tally/internal/common"
	"github.com/tallyups/tally/internal/config"
	"github.com/tallyups/tally/internal/model"
	"github.com/tallyups/tally/internal/review"
	"github.com/tallyups/tally/internal/tui"
	"github.com/tallyups/tally/internal/tui/themes"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Open the interactive transaction review list",
		Long: `Open the interactive review list: navigate with the keyboard, approve or
classify transactions, match receipts, and undo mistakes. Press ? inside the
list for the full shortcut reference.`,
		RunE: runReview,
	}

	cmd.Flags().String("status", "", "start with a status filter (needs_review, approved, personal)")
	cmd.Flags().StringSlice("type", nil, "start with a business type filter (repeatable)")
	cmd.Flags().String("search", "", "start with a search query")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	errLog := common.NewErrorLog(common.DefaultErrorLogCapacity)
	client, err := api.NewClient(api.Config{BaseURL: cfg.Server.URL, Timeout: cfg.Server.Timeout}, errLog)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	criteria := review.Criteria{}
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		switch status {
		case model.StatusNeedsReview, model.StatusApproved, model.StatusPersonal:
			criteria.Status = status
		default:
			return fmt.Errorf("%w: unknown status %q", common.ErrInvalidConfig, status)
		}
	}
	criteria.BusinessTypes, _ = cmd.Flags().GetStringSlice("type")
	criteria.Query, _ = cmd.Flags().GetString("search")

	program := tea.NewProgram(tui.New(tui.Config{
		Service:         client,
		ErrorLog:        errLog,
		Theme:           themes.Default,
		UI:              cfg.UI,
		InitialCriteria: criteria,
	}))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running review interface: %w", err)
	}
	return nil
}
