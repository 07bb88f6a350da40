package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyups/tally/internal/api"
	"github.com/tallyups/tally/internal/config"
	"github.com/tallyups/tally/internal/tui/themes"
)

func typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the business type taxonomy",
		Long: `List the server's business types in digit order. Inside the review list,
digits 1-9 assign these types and 0 clears the assignment.`,
		RunE: runTypes,
	}
}

func runTypes(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := api.NewClient(api.Config{BaseURL: cfg.Server.URL, Timeout: cfg.Server.Timeout}, nil)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	types, err := client.GetBusinessTypes(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching business types: %w", err)
	}

	if len(types) == 0 {
		fmt.Println("No business types configured on the server.")
		return nil
	}

	theme := themes.Default
	for i, t := range types {
		key := "-"
		if i < 9 {
			key = fmt.Sprintf("%d", i+1)
		}
		fmt.Printf("  %s  %s\n", key, theme.BusinessTypeStyle(t.Color).Render(t.Name))
	}
	return nil
}
