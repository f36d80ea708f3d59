package cmd

import (
	"fmt"
	"strings"

	"playto-cli/api"
	"playto-cli/auth"
	"playto-cli/lib"
	shared "playto-cli/shared"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var likeCommentId int

var likeCmd = &cobra.Command{
	Use:   "like [post-id]",
	Short: "Like a post, or a comment with --comment",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLiked(args, true)
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike [post-id]",
	Short: "Unlike a post, or a comment with --comment",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLiked(args, false)
	},
}

func init() {
	RootCmd.AddCommand(likeCmd)
	RootCmd.AddCommand(unlikeCmd)

	likeCmd.Flags().IntVar(&likeCommentId, "comment", 0, "Comment id to like instead of a post")
	unlikeCmd.Flags().IntVar(&likeCommentId, "comment", 0, "Comment id to unlike instead of a post")
}

func setLiked(args []string, liked bool) {
	auth.MustResolveAuth()

	verb := "Liked"
	if !liked {
		verb = "Unliked"
	}

	if likeCommentId != 0 {
		if len(args) > 0 {
			term.OutputErrorAndExit("Pass either a post id or --comment, not both")
		}

		var apiErr *shared.ApiError
		term.StartSpinner("")
		if liked {
			apiErr = api.Client.LikeComment(likeCommentId)
		} else {
			apiErr = api.Client.UnlikeComment(likeCommentId)
		}
		term.StopSpinner()

		if apiErr != nil {
			term.OutputApiErrorAndExit(fmt.Sprintf("Error updating like on comment #%d", likeCommentId), apiErr)
		}

		fmt.Printf("%s %s comment #%d\n", term.Liked(liked), verb, likeCommentId)
		return
	}

	var post *shared.Post
	if len(args) > 0 {
		post = mustGetPost(mustParseId("post", args[0]))
	} else {
		post = mustSelectPost("Select a post")
		if post == nil {
			return
		}
	}

	if post.IsLiked == liked {
		fmt.Printf("%s Post #%d is already %s\n", term.Liked(liked), post.Id, strings.ToLower(verb))
		return
	}

	term.StartSpinner("")
	_, err := lib.TogglePostLike(post)
	term.StopSpinner()

	if err != nil {
		if apiErr, ok := err.(*shared.ApiError); ok {
			term.OutputApiErrorAndExit(fmt.Sprintf("Error updating like on post #%d", post.Id), apiErr)
		}
		term.OutputErrorAndExit("Error updating like on post #%d: %v", post.Id, err)
	}

	fmt.Printf("%s %s post #%d %s\n", term.Liked(post.IsLiked), verb, post.Id,
		color.New(color.FgHiBlack).Sprintf("(%d likes)", post.LikeCount))
}
