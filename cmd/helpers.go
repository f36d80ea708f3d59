package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"playto-cli/api"
	"playto-cli/lib"
	shared "playto-cli/shared"
	"playto-cli/term"
)

var selectIndex = term.SelectIndexFromList

func mustParseId(kind, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		term.OutputErrorAndExit("Invalid %s id: %s", kind, arg)
	}
	return id
}

// mustSelectPost lets the user pick a post from the first feed page.
func mustSelectPost(msg string) *shared.Post {
	term.StartSpinner("")
	page, err := lib.LoadFeed(1)
	term.StopSpinner()

	if err != nil {
		term.OutputErrorAndExit("Error loading feed: %v", err)
	}

	if len(page.Results) == 0 {
		fmt.Println("🤷‍♂️ No posts yet")
		fmt.Println()
		term.PrintCmds("", "post")
		return nil
	}

	var opts []string
	for _, post := range page.Results {
		opts = append(opts, fmt.Sprintf("#%d %s: %s", post.Id, post.Author, term.Excerpt(post.Content, 60)))
	}

	idx, err := selectIndex(msg, opts)
	if err != nil {
		term.OutputErrorAndExit("Error selecting post: %v", err)
	}

	return page.Results[idx]
}

// mustLoadCommentTree returns the post's reply trees. Servers that do not
// nest comments in the post payload are read from /comments/ instead.
func mustLoadCommentTree(post *shared.Post) []*shared.Comment {
	if len(post.Comments) > 0 || post.CommentCount == 0 {
		return post.Comments
	}

	term.StartSpinner("")
	comments, apiErr := api.Client.ListComments()
	term.StopSpinner()

	if apiErr != nil {
		term.OutputErrorAndExit("Error loading comments: %v", apiErr)
	}

	return shared.BuildCommentTree(shared.CommentsForPost(comments, post.Id))
}

func mustSelectComment(msg string, post *shared.Post) *shared.Comment {
	flat := shared.FlattenComments(mustLoadCommentTree(post))
	if len(flat) == 0 {
		fmt.Printf("🤷‍♂️ Post #%d has no comments yet\n", post.Id)
		fmt.Println()
		term.PrintCmds("", "comment")
		return nil
	}

	var opts []string
	for _, c := range flat {
		indent := strings.Repeat("  ", c.Depth)
		opts = append(opts, fmt.Sprintf("%s#%d %s: %s", indent, c.Id, c.Author, term.Excerpt(c.Content, 50)))
	}

	idx, err := selectIndex(msg, opts)
	if err != nil {
		term.OutputErrorAndExit("Error selecting comment: %v", err)
	}

	return flat[idx].Comment
}

func mustGetPost(postId int) *shared.Post {
	term.StartSpinner("")
	post, apiErr := api.Client.GetPost(postId)
	term.StopSpinner()

	if apiErr != nil {
		if apiErr.Type == shared.ApiErrorTypeNotFound {
			term.OutputErrorAndExit("Post #%d not found", postId)
		}
		term.OutputApiErrorAndExit("Error loading post", apiErr)
	}

	return post
}

// mustGetContent uses the remaining args as the text, prompting when there
// are none.
func mustGetContent(args []string, msg string) string {
	content := strings.Join(args, " ")

	if lib.IsBlank(content) {
		var err error
		content, err = term.GetRequiredUserStringInput(msg)
		if err != nil {
			term.OutputErrorAndExit("Error getting input: %v", err)
		}
	}

	return content
}
