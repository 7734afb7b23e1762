package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the avail version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("avail version %s\n", version)
		},
	}
}
