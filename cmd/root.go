package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the avail application
var rootCmd = &cobra.Command{
	Use:   "avail",
	Short: "Find free time across your calendars",
	Long: `avail scans the calendars of your linked Google and Microsoft accounts
and computes the open time windows between your events.

Link accounts with "avail accounts add", pick the calendars to search
with "avail calendars", then run avail with no arguments to find your
availability.`,
	SilenceUsage: true,
}

// verbose and configDir are bound to the persistent flags.
var (
	verbose   bool
	configDir string
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "avail version %s\n" .Version}}`)

	// Running avail bare, or with only flags, means "find".
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "find")
	} else if strings.HasPrefix(os.Args[1], "-") && !isGlobalFlag(os.Args[1]) {
		os.Args = append([]string{os.Args[0], "find"}, os.Args[1:]...)
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func isGlobalFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "-v", "--version":
		return true
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (default ~/.config/avail)")

	rootCmd.AddCommand(newFindCmd())
	rootCmd.AddCommand(newAccountsCmd())
	rootCmd.AddCommand(newCalendarsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
