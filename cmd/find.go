package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avail-cli/avail/internal/avail"
	"github.com/avail-cli/avail/internal/logging"
	"github.com/avail-cli/avail/internal/retrieve"
	"github.com/avail-cli/avail/internal/schedule"
)

type findOptions struct {
	start           string
	end             string
	min             string
	max             string
	window          string
	duration        string
	timezone        string
	includeWeekends bool
	createHoldEvent bool
	all             bool
}

func newFindCmd() *cobra.Command {
	var opts findOptions

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find open time windows across your calendars",
		Long: `Fetch the events of every selected calendar and compute the open
windows between them, bounded by your daily minimum and maximum times.

Running avail with no subcommand is equivalent to "avail find".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close(ctx)
			return runFind(ctx, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.start, "start", "", "Start of search window in the form of MM/DD/YYYY (default now)")
	cmd.Flags().StringVar(&opts.end, "end", "", "End of search window in the form of MM/DD/YYYY (default start + window)")
	cmd.Flags().StringVar(&opts.min, "min", "", "Minimum time for availability in the form of <int>:<int>am/pm (default 9:00am)")
	cmd.Flags().StringVar(&opts.max, "max", "", "Maximum time for availability in the form of <int>:<int>am/pm (default 5:00pm)")
	cmd.Flags().StringVarP(&opts.window, "window", "w", "", "Duration of search window, specify with <int>(w|d|h|m) (default 1w)")
	cmd.Flags().StringVarP(&opts.duration, "duration", "d", "", "Duration of availability window, specify with <int>(w|d|h|m) (default 30m)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "", "IANA time zone for the search (default local)")
	cmd.Flags().BoolVar(&opts.includeWeekends, "include-weekends", false, "Include weekends in availability search")
	cmd.Flags().BoolVarP(&opts.createHoldEvent, "create-hold-event", "c", false, "Create hold events for the chosen windows")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Print every window without interactive selection")

	return cmd
}

// searchConfig resolves flags against configured defaults.
func searchConfig(a *app, opts findOptions) (avail.SearchConfig, error) {
	defaults := a.cfg.Defaults

	tz := pick(opts.timezone, defaults.Timezone)
	loc := time.Local
	if tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return avail.SearchConfig{}, fmt.Errorf("invalid time zone %q: %w", tz, err)
		}
	}

	start := time.Now().In(loc)
	if opts.start != "" {
		var err error
		start, err = parseDate(opts.start, loc)
		if err != nil {
			return avail.SearchConfig{}, err
		}
	}

	window, err := parseSpan(pick(opts.window, defaults.Window))
	if err != nil {
		return avail.SearchConfig{}, err
	}

	end := start.Add(window)
	if opts.end != "" {
		end, err = parseDate(opts.end, loc)
		if err != nil {
			return avail.SearchConfig{}, err
		}
	}

	min, err := avail.ParseTimeOfDay(pick(opts.min, defaults.Min))
	if err != nil {
		return avail.SearchConfig{}, err
	}
	max, err := avail.ParseTimeOfDay(pick(opts.max, defaults.Max))
	if err != nil {
		return avail.SearchConfig{}, err
	}

	duration, err := parseSpan(pick(opts.duration, defaults.Duration))
	if err != nil {
		return avail.SearchConfig{}, err
	}

	return avail.SearchConfig{
		Start:           start,
		End:             end,
		Min:             min,
		Max:             max,
		Duration:        duration,
		IncludeWeekends: opts.includeWeekends || defaults.IncludeWeekends,
		Location:        loc,
	}, nil
}

func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}

// sources builds one retrieval source per linked account from the cached
// calendar selections.
func sources(a *app) ([]retrieve.Source, error) {
	accounts, err := a.db.ListAccounts()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf(`no linked accounts; run "avail accounts add" and "avail calendars" first`)
	}

	var srcs []retrieve.Source
	for _, acct := range accounts {
		p, err := a.registry.Lookup(acct.Platform)
		if err != nil {
			return nil, err
		}
		token, err := a.tokens.Load(acct.Name)
		if err != nil {
			return nil, err
		}

		selected, err := a.db.SelectedCalendars(acct.ID)
		if err != nil {
			return nil, err
		}
		if len(selected) == 0 {
			continue
		}
		ids := make([]string, 0, len(selected))
		for _, c := range selected {
			ids = append(ids, c.ID)
		}
		srcs = append(srcs, retrieve.Source{
			Account:      acct.Name,
			Provider:     p,
			RefreshToken: token,
			CalendarIDs:  ids,
		})
	}
	if len(srcs) == 0 {
		return nil, fmt.Errorf(`no calendars selected; run "avail calendars" first`)
	}
	return srcs, nil
}

func runFind(ctx context.Context, a *app, opts findOptions) error {
	cfg, err := searchConfig(a, opts)
	if err != nil {
		return err
	}

	srcs, err := sources(a)
	if err != nil {
		return err
	}

	fmt.Printf("Finding availability between %s and %s\n\n",
		cfg.Start.Format("Jan 2 2006"), cfg.End.Format("Jan 2 2006"))

	retriever := retrieve.New(a.logger, a.telemetry.Metrics())
	result, err := retriever.Fetch(ctx, srcs, avail.Window{Start: cfg.Start, End: cfg.End})
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		fmt.Fprintf(os.Stderr, "warning: skipped %s\n", f)
	}

	days, err := avail.Find(cfg, result.Events)
	if err != nil {
		return err
	}

	var slots []avail.Availability
	for _, day := range days {
		slots = append(slots, day.Windows...)
	}
	if len(slots) == 0 {
		fmt.Println("No availability found.")
		return nil
	}

	var chosen []avail.Availability
	if opts.all {
		chosen = slots
	} else {
		chosen, err = selectWindows(a.prompt, slots, cfg.Duration)
		if err != nil {
			return err
		}
	}

	merged := avail.MergeOverlapping(chosen)
	fmt.Print(avail.FormatAvailability(merged))

	if opts.createHoldEvent {
		return createHoldEvents(ctx, a, merged)
	}
	return nil
}

// selectWindows walks the user through picking coarse slots, then the
// duration-sized windows within them.
func selectWindows(p *prompter, slots []avail.Availability, duration time.Duration) ([]avail.Availability, error) {
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label()
	}
	idxs, err := p.MultiSelect("Select time window(s)", labels, nil)
	if err != nil {
		return nil, err
	}

	var picked []avail.Availability
	for _, i := range idxs {
		picked = append(picked, slots[i])
	}

	var chosen []avail.Availability
	for _, day := range avail.GroupByDay(picked) {
		windows := avail.Split(day.Windows, duration)
		if len(windows) == 0 {
			continue
		}
		labels := make([]string, len(windows))
		for i, w := range windows {
			labels[i] = w.Label()
		}
		idxs, err := p.MultiSelect(
			fmt.Sprintf("Select time window(s) for %s", day.Day.Format("Jan 02 2006")),
			labels, nil)
		if err != nil {
			return nil, err
		}
		for _, i := range idxs {
			chosen = append(chosen, windows[i])
		}
	}
	if len(chosen) == 0 {
		return nil, fmt.Errorf("no availabilities selected")
	}
	return chosen, nil
}

func createHoldEvents(ctx context.Context, a *app, windows []avail.Availability) error {
	title, err := a.prompt.Input("What's the name of your event?")
	if err != nil {
		return err
	}

	cal, ok, err := a.db.HoldCalendar()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf(`no calendar is configured for hold events; run "avail calendars" first`)
	}

	accounts, err := a.db.ListAccounts()
	if err != nil {
		return err
	}
	var target schedule.Target
	for _, acct := range accounts {
		if acct.ID == cal.AccountID {
			p, err := a.registry.Lookup(acct.Platform)
			if err != nil {
				return err
			}
			token, err := a.tokens.Load(acct.Name)
			if err != nil {
				return err
			}
			target = schedule.Target{
				Account:      acct.Name,
				Provider:     p,
				RefreshToken: token,
				CalendarID:   cal.ID,
			}
		}
	}
	if target.Provider == nil {
		return fmt.Errorf("hold calendar belongs to an unlinked account")
	}

	scheduler := schedule.New(a.logger, a.telemetry.Metrics())
	failures, err := scheduler.Create(ctx, target, title, windows)
	if err != nil {
		return err
	}
	if len(failures) > 0 {
		for _, f := range failures {
			a.logger.Error("hold event not created", logging.Err(f.Err))
		}
		return fmt.Errorf("failed to create %d of %d hold events", len(failures), len(windows))
	}
	fmt.Println("Created hold events.")
	return nil
}
