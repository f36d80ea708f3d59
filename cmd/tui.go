package cmd

import (
	feedtui "playto-cli/feed_tui"
	"playto-cli/term"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive feed",
	Args:  cobra.NoArgs,
	Run:   tui,
}

func init() {
	RootCmd.AddCommand(tuiCmd)
}

func tui(cmd *cobra.Command, args []string) {
	// signed-out users get the login card instead of a prompt
	mustLoadSession()

	err := feedtui.StartFeedUI()
	if err != nil {
		term.OutputErrorAndExit("%v", err)
	}
}
