package term

import (
	"fmt"

	"playto-cli/format"
	shared "playto-cli/shared"

	"github.com/fatih/color"
	"github.com/xlab/treeprint"
)

// CommentTree renders reply trees rooted at root. Each node shows the
// comment id so it can be passed to `playto reply`.
func CommentTree(root string, comments []*shared.Comment) string {
	tree := treeprint.NewWithRoot(root)
	addComments(tree, comments)
	return tree.String()
}

func addComments(tree treeprint.Tree, comments []*shared.Comment) {
	for _, c := range comments {
		label := CommentLine(c)
		if len(c.Replies) == 0 {
			tree.AddNode(label)
			continue
		}
		branch := tree.AddBranch(label)
		addComments(branch, c.Replies)
	}
}

func CommentLine(c *shared.Comment) string {
	id := color.New(color.FgHiBlack).Sprintf("#%d", c.Id)
	when := color.New(color.FgHiBlack).Sprint(format.Time(c.CreatedAt))
	return fmt.Sprintf("%s %s %s %s %d · %s", id, Author(c.Author), Excerpt(c.Content, 60), Liked(c.IsLiked), c.LikeCount, when)
}
