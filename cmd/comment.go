package cmd

import (
	"fmt"
	"strconv"

	"playto-cli/api"
	"playto-cli/auth"
	"playto-cli/lib"
	shared "playto-cli/shared"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:     "comment [post-id] [content]",
	Aliases: []string{"c"},
	Short:   "Comment on a post",
	Run:     comment,
}

var replyCmd = &cobra.Command{
	Use:     "reply [post-id] [comment-id] [content]",
	Aliases: []string{"r"},
	Short:   "Reply to a comment",
	Run:     reply,
}

var commentsCmd = &cobra.Command{
	Use:   "comments [post-id]",
	Short: "List comments as reply trees",
	Args:  cobra.MaximumNArgs(1),
	Run:   comments,
}

func init() {
	RootCmd.AddCommand(commentCmd)
	RootCmd.AddCommand(replyCmd)
	RootCmd.AddCommand(commentsCmd)
}

// leadingId splits off the first arg when it is a numeric id.
func leadingId(args []string) (int, []string) {
	if len(args) == 0 {
		return 0, args
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, args
	}
	return id, args[1:]
}

func comment(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	postId, rest := leadingId(args)
	if postId == 0 {
		selected := mustSelectPost("Select a post to comment on")
		if selected == nil {
			return
		}
		postId = selected.Id
	}

	content := mustGetContent(rest, "Write a comment:")
	mustCreateComment(postId, nil, content)
}

func reply(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	postId, rest := leadingId(args)
	commentId, rest := leadingId(rest)

	var post *shared.Post
	if postId == 0 {
		post = mustSelectPost("Select a post")
		if post == nil {
			return
		}
		postId = post.Id
	} else {
		post = mustGetPost(postId)
	}

	if commentId == 0 {
		parent := mustSelectComment("Select a comment to reply to", post)
		if parent == nil {
			return
		}
		commentId = parent.Id
	} else if shared.FindComment(mustLoadCommentTree(post), commentId) == nil {
		term.OutputErrorAndExit("Comment #%d not found on post #%d", commentId, postId)
	}

	content := mustGetContent(rest, "Write a reply:")
	mustCreateComment(postId, &commentId, content)
}

func mustCreateComment(postId int, parentId *int, content string) {
	term.StartSpinner("💬 Posting...")
	created, err := lib.CreateComment(postId, parentId, content)
	term.StopSpinner()

	if err != nil {
		if apiErr, ok := err.(*shared.ApiError); ok {
			term.OutputApiErrorAndExit("Failed to post comment", apiErr)
		}
		term.OutputErrorAndExit("Failed to post comment: %v", err)
	}

	what := "Commented on"
	if parentId != nil {
		what = fmt.Sprintf("Replied to #%d on", *parentId)
	}
	fmt.Printf("✅ %s post #%d %s\n", what, postId, color.New(color.FgHiBlack).Sprintf("(#%d)", created.Id))
	fmt.Println()
	term.PrintCmds("", "show", "reply")
}

func comments(cmd *cobra.Command, args []string) {
	auth.MustResolveAuth()

	postId := 0
	if len(args) > 0 {
		postId = mustParseId("post", args[0])
	}

	term.StartSpinner("")
	flat, apiErr := api.Client.ListComments()
	term.StopSpinner()

	if apiErr != nil {
		term.OutputApiErrorAndExit("Error loading comments", apiErr)
	}

	if postId != 0 {
		flat = shared.CommentsForPost(flat, postId)
	}

	if len(flat) == 0 {
		fmt.Println("🤷‍♂️ No comments yet")
		fmt.Println()
		term.PrintCmds("", "comment")
		return
	}

	// one tree per post, posts in order of first appearance
	var postIds []int
	byPost := map[int][]*shared.Comment{}
	for _, c := range flat {
		if _, ok := byPost[c.PostId]; !ok {
			postIds = append(postIds, c.PostId)
		}
		byPost[c.PostId] = append(byPost[c.PostId], c)
	}

	for _, id := range postIds {
		root := color.New(color.Bold).Sprintf("📝 Post #%d", id)
		fmt.Println(term.CommentTree(root, shared.BuildCommentTree(byPost[id])))
	}
}
