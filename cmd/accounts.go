package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/avail-cli/avail/internal/auth"
	"github.com/avail-cli/avail/internal/provider"
)

// oauthConfigurer is implemented by providers that expose their OAuth2
// client configuration for the interactive authorize flow.
type oauthConfigurer interface {
	OAuthConfig() *oauth2.Config
}

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage linked calendar accounts",
	}
	cmd.AddCommand(newAccountsAddCmd())
	cmd.AddCommand(newAccountsRemoveCmd())
	cmd.AddCommand(newAccountsListCmd())
	return cmd
}

func newAccountsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <email>",
		Short: "Link a calendar account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			return runAccountsAdd(ctx, a, args[0])
		},
	}
}

func runAccountsAdd(ctx context.Context, a *app, email string) error {
	names := make([]string, len(provider.Platforms))
	for i, platform := range provider.Platforms {
		names[i] = provider.PlatformDisplayName(platform)
	}
	idx, err := a.prompt.Select("Which platform would you like to add an account for?", names, 0)
	if err != nil {
		return err
	}
	platform := provider.Platforms[idx]

	if _, err := a.db.GetAccount(email); err == nil {
		return fmt.Errorf("account already exists with that email")
	}
	if err := a.credentialed(platform); err != nil {
		return err
	}

	p, err := a.registry.Lookup(platform)
	if err != nil {
		return err
	}
	oc, ok := p.(oauthConfigurer)
	if !ok {
		return fmt.Errorf("platform %s does not support interactive login", platform)
	}

	token, err := auth.Authorize(ctx, oc.OAuthConfig(), a.logger, func(authURL string) {
		fmt.Println("Open the following URL in your browser to link the account:")
		fmt.Println()
		fmt.Println("  " + authURL)
		fmt.Println()
	})
	if err != nil {
		return err
	}

	if err := a.tokens.Save(email, token.RefreshToken); err != nil {
		return err
	}
	if _, err := a.db.AddAccount(email, platform); err != nil {
		// Keep token storage and the account cache consistent.
		_ = a.tokens.Delete(email)
		return err
	}

	fmt.Println("\nSuccessfully added account.")
	fmt.Println(`Run the "calendars" command to update the calendars cache with this account's calendars.`)
	return nil
}

func newAccountsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <email>",
		Short: "Unlink a calendar account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			return runAccountsRemove(a, args[0])
		},
	}
}

func runAccountsRemove(a *app, email string) error {
	ok, err := a.prompt.Confirm(fmt.Sprintf("Do you want to delete the account %q?", email))
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.tokens.Delete(email); err != nil {
		return err
	}
	if err := a.db.RemoveAccount(email); err != nil {
		return err
	}
	fmt.Println("Successfully removed account.")
	return nil
}

func newAccountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List linked calendar accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			return runAccountsList(a)
		},
	}
}

func runAccountsList(a *app) error {
	accounts, err := a.db.ListAccounts()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		fmt.Println("Configured accounts: None")
		return nil
	}
	fmt.Println("Configured accounts:")
	for _, acct := range accounts {
		fmt.Printf("- %s on %s\n", acct.Name, provider.PlatformDisplayName(acct.Platform))
	}
	return nil
}
