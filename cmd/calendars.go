package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avail-cli/avail/internal/store"
)

func newCalendarsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendars",
		Short: "Refresh the calendar cache and pick which calendars to search",
		Long: `Fetch the calendar list of every linked account, choose which
calendars count toward availability, and designate the calendar that
receives hold events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			return runCalendars(ctx, a)
		},
	}
}

func runCalendars(ctx context.Context, a *app) error {
	accounts, err := a.db.ListAccounts()
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return fmt.Errorf(`you must link accounts using the "accounts add" command before fetching calendars`)
	}

	for _, acct := range accounts {
		if err := refreshAccountCalendars(ctx, a, acct); err != nil {
			return fmt.Errorf("account %s: %w", acct.Name, err)
		}
	}

	return pickHoldCalendar(a)
}

func refreshAccountCalendars(ctx context.Context, a *app, acct store.Account) error {
	p, err := a.registry.Lookup(acct.Platform)
	if err != nil {
		return err
	}
	refreshToken, err := a.tokens.Load(acct.Name)
	if err != nil {
		return err
	}
	token, err := p.RefreshToken(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}

	remote, err := p.ListCalendars(ctx, token)
	if err != nil {
		return err
	}
	if len(remote) == 0 {
		fmt.Printf("No calendars found for %s.\n", acct.Name)
		return nil
	}

	// A calendar the user has not explicitly deselected before defaults
	// to selected.
	cached, err := a.db.Calendars(acct.ID)
	if err != nil {
		return err
	}
	deselected := make(map[string]bool)
	holdID := ""
	for _, c := range cached {
		if !c.Selected {
			deselected[c.ID] = true
		}
		if c.HoldCalendar {
			holdID = c.ID
		}
	}

	labels := make([]string, len(remote))
	defaults := make([]bool, len(remote))
	for i, c := range remote {
		labels[i] = c.Name
		defaults[i] = !deselected[c.ID]
	}
	idxs, err := a.prompt.MultiSelect(
		fmt.Sprintf("Select the calendars you want to use for %s", acct.Name),
		labels, defaults)
	if err != nil {
		return err
	}
	selected := make(map[int]bool)
	for _, i := range idxs {
		selected[i] = true
	}

	records := make([]store.Calendar, len(remote))
	for i, c := range remote {
		records[i] = store.Calendar{
			AccountID:    acct.ID,
			ID:           c.ID,
			Name:         c.Name,
			Selected:     selected[i],
			CanEdit:      c.CanEdit,
			HoldCalendar: c.ID == holdID,
		}
	}
	return a.db.ReplaceCalendars(acct.ID, records)
}

// pickHoldCalendar designates the calendar hold events are written to,
// chosen across every account's editable calendars.
func pickHoldCalendar(a *app) error {
	accounts, err := a.db.ListAccounts()
	if err != nil {
		return err
	}

	var candidates []store.Calendar
	var labels []string
	defaultIdx := 0
	for _, acct := range accounts {
		cals, err := a.db.Calendars(acct.ID)
		if err != nil {
			return err
		}
		for _, c := range cals {
			if !c.CanEdit {
				continue
			}
			if c.HoldCalendar {
				defaultIdx = len(candidates)
			}
			candidates = append(candidates, c)
			labels = append(labels, fmt.Sprintf("%s (%s)", c.Name, acct.Name))
		}
	}
	if len(candidates) == 0 {
		fmt.Println("No editable calendars available for hold events.")
		return nil
	}

	idx, err := a.prompt.Select("Which calendar would you like to use to create hold events?", labels, defaultIdx)
	if err != nil {
		return err
	}
	chosen := candidates[idx]
	return a.db.SetHoldCalendar(chosen.AccountID, chosen.ID)
}
