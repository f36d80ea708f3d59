package cmd

import (
	"fmt"
	"strconv"

	"playto-cli/auth"
	"playto-cli/format"
	"playto-cli/lib"
	shared "playto-cli/shared"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:     "post [content]",
	Aliases: []string{"p"},
	Short:   "Create a post",
	Run:     post,
}

var showCmd = &cobra.Command{
	Use:   "show [post-id]",
	Short: "Show a post with its comments",
	Args:  cobra.MaximumNArgs(1),
	Run:   show,
}

var showPlain bool

func init() {
	RootCmd.AddCommand(postCmd)
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Print the post body as plain text instead of markdown")
}

func post(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	content := mustGetContent(args, "What did you optimize today?")

	term.StartSpinner("📝 Posting...")
	created, err := lib.CreatePost(content)
	term.StopSpinner()

	if err != nil {
		if apiErr, ok := err.(*shared.ApiError); ok {
			term.OutputApiErrorAndExit("Failed to create post", apiErr)
		}
		term.OutputErrorAndExit("Failed to create post: %v", err)
	}

	fmt.Printf("✅ Posted %s\n", color.New(color.FgHiBlack).Sprintf("#%d", created.Id))
	fmt.Println()
	term.PrintCmds("", "feed", "show")
}

func show(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	var postId int
	if len(args) > 0 {
		postId = mustParseId("post", args[0])
	} else {
		selected := mustSelectPost("Select a post")
		if selected == nil {
			return
		}
		postId = selected.Id
	}

	p := mustGetPost(postId)
	printPost(p)

	tree := mustLoadCommentTree(p)
	if len(tree) > 0 {
		fmt.Println(term.GetDivisionLine())
		n := shared.CountComments(tree)
		label := fmt.Sprintf("💬 %d comments", n)
		if n == 1 {
			label = "💬 1 comment"
		}
		fmt.Println(term.CommentTree(color.New(color.Bold).Sprint(label), tree))
	}

	term.PrintCmds("", "comment", "reply", "like")
}

func printPost(p *shared.Post) {
	fmt.Printf("%s %s %s\n",
		color.New(color.Bold, color.BgCyan, color.FgHiWhite).Sprintf(" %s ", shared.Initials(p.Author)),
		term.Author(p.Author),
		color.New(color.FgHiBlack).Sprintf("#%d · %s", p.Id, format.Time(p.CreatedAt)),
	)

	var body string
	if !showPlain && term.IsTerminal() {
		md, err := term.GetMarkdown(p.Content)
		if err == nil {
			body = md
		}
	}
	if body == "" {
		body = term.GetPlain(p.Content, 2) + "\n"
	}
	fmt.Println(body)

	fmt.Printf("%s %s   💬 %s\n\n", term.Liked(p.IsLiked), strconv.Itoa(p.LikeCount), strconv.Itoa(p.CommentCount))
}
