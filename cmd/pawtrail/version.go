package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/pawtrail"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pawtrail",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pawtrail version %s\n", strings.TrimSpace(pawtrail.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
