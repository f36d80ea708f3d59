package term

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var CmdDesc = map[string][2]string{
	"sign-in":     {"", "sign in with username and password"},
	"sign-up":     {"", "create an account"},
	"sign-out":    {"", "sign out and forget tokens"},
	"feed":        {"f", "show the post feed"},
	"post":        {"p", "create a post"},
	"show":        {"", "show a post with its comments"},
	"comment":     {"c", "comment on a post"},
	"reply":       {"r", "reply to a comment"},
	"like":        {"", "like a post or comment"},
	"unlike":      {"", "unlike a post or comment"},
	"leaderboard": {"lb", "show the top users by karma"},
	"tui":         {"", "open the interactive feed"},
}

func PrintCmds(prefix string, cmds ...string) {
	printCmds(os.Stderr, prefix, cmds...)
}

func printCmds(w io.Writer, prefix string, cmds ...string) {
	for _, cmd := range cmds {
		config, ok := CmdDesc[cmd]
		if !ok {
			continue
		}

		alias := config[0]
		desc := config[1]
		if alias != "" {
			if strings.HasPrefix(cmd, alias) {
				cmd = strings.Replace(cmd, alias, fmt.Sprintf("(%s)", alias), 1)
			} else {
				cmd = fmt.Sprintf("%s (%s)", cmd, alias)
			}
		}
		styled := color.New(color.Bold, color.FgHiWhite, color.BgCyan).Sprintf(" playto %s ", cmd)

		fmt.Fprintf(w, "%s%s 👉 %s\n", prefix, styled, desc)
	}
}
