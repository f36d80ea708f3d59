package cmd

import (
	"fmt"
	"os"
	"strconv"

	"playto-cli/auth"
	"playto-cli/format"
	"playto-cli/lib"
	shared "playto-cli/shared"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var feedPage int
var feedSearch string

var feedCmd = &cobra.Command{
	Use:     "feed",
	Aliases: []string{"f"},
	Short:   "Show the post feed",
	Args:    cobra.NoArgs,
	Run:     feed,
}

func init() {
	RootCmd.AddCommand(feedCmd)

	feedCmd.Flags().IntVarP(&feedPage, "page", "p", 1, "Page number")
	feedCmd.Flags().StringVarP(&feedSearch, "search", "s", "", "Only show posts whose author or content fuzzily matches")
}

func feed(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	if feedPage < 1 {
		term.OutputErrorAndExit("Invalid page: %d", feedPage)
	}

	term.StartSpinner("")
	page, err := lib.LoadFeed(feedPage)
	term.StopSpinner()

	if err != nil {
		if apiErr, ok := err.(*shared.ApiError); ok {
			term.OutputApiErrorAndExit("Error loading feed", apiErr)
		}
		term.OutputErrorAndExit("Error loading feed: %v", err)
	}

	posts := lib.FilterPosts(page.Results, feedSearch)

	if len(posts) == 0 {
		if feedSearch != "" {
			fmt.Printf("🤷‍♂️ No posts on page %d match %q\n", page.Page, feedSearch)
		} else {
			fmt.Println("🤷‍♂️ No posts yet. Be the first to share!")
			fmt.Println()
			term.PrintCmds("", "post")
		}
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"#", "Author", "Post", "Likes", "Comments", "Posted"})

	for _, post := range posts {
		row := []string{
			strconv.Itoa(post.Id),
			post.Author,
			term.Excerpt(post.Content, max(term.GetTerminalWidth()-60, 30)),
			term.Liked(post.IsLiked) + " " + strconv.Itoa(post.LikeCount),
			"💬 " + strconv.Itoa(post.CommentCount),
			format.Time(post.CreatedAt),
		}
		table.Rich(row, []tablewriter.Colors{
			{tablewriter.FgHiWhiteColor},
			{tablewriter.Bold, tablewriter.FgHiCyanColor},
		})
	}

	table.Render()

	fmt.Println()
	summary := fmt.Sprintf("Page %d", page.Page)
	if page.Count > 0 {
		summary += fmt.Sprintf(" · %d posts", page.Count)
	}
	fmt.Println(color.New(color.FgHiBlack).Sprint(summary))

	if page.HasPrevious() {
		fmt.Printf("👈 Previous page: %s\n", color.New(color.Bold, color.FgHiWhite, color.BgCyan).Sprintf(" playto feed --page %d ", page.Page-1))
	}
	if page.HasNext() {
		fmt.Printf("👉 Next page: %s\n", color.New(color.Bold, color.FgHiWhite, color.BgCyan).Sprintf(" playto feed --page %d ", page.Page+1))
	}

	fmt.Println()
	term.PrintCmds("", "show", "like", "comment", "post")
}
