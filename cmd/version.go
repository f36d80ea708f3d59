package cmd

import (
	"fmt"

	"playto-cli/version"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Playto",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Playto CLI Version:", version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
