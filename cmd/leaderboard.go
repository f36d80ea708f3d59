package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"playto-cli/auth"
	"playto-cli/lib"
	shared "playto-cli/shared"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var leaderboardWatch bool

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb"},
	Short:   "Show the top users by karma over the last 24 hours",
	Args:    cobra.NoArgs,
	Run:     leaderboard,
}

func init() {
	RootCmd.AddCommand(leaderboardCmd)

	leaderboardCmd.Flags().BoolVarP(&leaderboardWatch, "watch", "w", false, "Redraw every 30 seconds until interrupted")
}

func leaderboard(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	if !leaderboardWatch {
		term.StartSpinner("")
		entries, err := lib.LoadLeaderboard()
		term.StopSpinner()

		if err != nil {
			if apiErr, ok := err.(*shared.ApiError); ok {
				term.OutputApiErrorAndExit("Error loading leaderboard", apiErr)
			}
			term.OutputErrorAndExit("Error loading leaderboard: %v", err)
		}

		renderLeaderboard(os.Stdout, entries)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	watchLeaderboard(ctx)
}

// watchLeaderboard redraws on a fixed interval. A failed refresh keeps the
// last good list on screen.
func watchLeaderboard(ctx context.Context) {
	ticker := time.NewTicker(lib.LeaderboardRefreshInterval)
	defer ticker.Stop()

	var entries []*shared.LeaderboardEntry
	var lastErr error

	for {
		res, err := lib.LoadLeaderboard()
		if err != nil {
			log.Printf("[leaderboard] refresh failed: %v", err)
			lastErr = err
		} else {
			entries = res
			lastErr = nil
		}

		term.ClearScreen()
		term.MoveCursorToTopLeft()
		renderLeaderboard(os.Stdout, entries)

		status := fmt.Sprintf("Updated %s · refreshing every %s · ctrl+c to stop", time.Now().Format("15:04:05"), lib.LeaderboardRefreshInterval)
		if lastErr != nil {
			status = fmt.Sprintf("Refresh failed: %v", lastErr)
		}
		fmt.Println(color.New(color.FgHiBlack).Sprint(status))

		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-ticker.C:
		}
	}
}

func renderLeaderboard(w io.Writer, entries []*shared.LeaderboardEntry) {
	color.New(color.Bold, term.ColorHiYellow).Fprintln(w, "🏆 Top 5 Users · 24H")
	fmt.Fprintln(w)

	if len(entries) == 0 {
		fmt.Fprintln(w, "🤷‍♂️ No activity in the last 24 hours")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Rank", "User", "Karma"})

	for i, entry := range entries {
		rank := strconv.Itoa(i + 1)
		if i < 3 {
			rank = []string{"🥇", "🥈", "🥉"}[i]
		}
		table.Append([]string{rank, entry.Username, entry.Karma.String()})
	}

	table.Render()
}
