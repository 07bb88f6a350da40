package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyups/tally/internal/api"
	"github.com/tallyups/tally/internal/config"
)

func linkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage the bank account link",
		Long: `Manage the server's bank account link. The server owns the banking
credentials; this command only drives the link lifecycle.`,
	}

	cmd.AddCommand(linkStatusCmd())
	cmd.AddCommand(linkStartCmd())
	cmd.AddCommand(linkCompleteCmd())
	cmd.AddCommand(linkRemoveCmd())

	return cmd
}

func linkClient() (api.LinkService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(api.Config{BaseURL: cfg.Server.URL, Timeout: cfg.Server.Timeout}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	return client, nil
}

func linkStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a bank account is linked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := linkClient()
			if err != nil {
				return err
			}

			status, err := client.GetLinkStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching link status: %w", err)
			}

			if !status.Linked {
				fmt.Println("No bank account linked.")
				return nil
			}
			fmt.Printf("Linked to %s.\n", status.Institution)
			return nil
		},
	}
}

func linkStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Begin linking a bank account",
		Long: `Request a link token from the server. Open the printed token in the
TallyUps web interface to complete institution selection, then run
'tally link complete' with the public token it returns.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := linkClient()
			if err != nil {
				return err
			}

			token, err := client.CreateLinkToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("creating link token: %w", err)
			}

			fmt.Printf("Link token: %s\n", token)
			return nil
		},
	}
}

func linkCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <public-token>",
		Short: "Finish linking with the public token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := linkClient()
			if err != nil {
				return err
			}

			if err := client.ExchangeLinkToken(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("exchanging link token: %w", err)
			}

			fmt.Println("Bank account linked.")
			return nil
		},
	}
}

func linkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the bank account link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := linkClient()
			if err != nil {
				return err
			}

			if err := client.RemoveLink(cmd.Context()); err != nil {
				return fmt.Errorf("removing link: %w", err)
			}

			fmt.Println("Bank account link removed.")
			return nil
		},
	}
}
