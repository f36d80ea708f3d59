package shared

import "sort"

// BuildCommentTree arranges a flat comment list into reply trees rooted at
// top-level comments. A reply whose parent is missing from the list is
// treated as top-level. Siblings are ordered oldest first.
func BuildCommentTree(flat []*Comment) []*Comment {
	byId := make(map[int]*Comment, len(flat))
	for _, c := range flat {
		cp := *c
		cp.Replies = nil
		byId[c.Id] = &cp
	}

	var roots []*Comment
	for _, c := range flat {
		node := byId[c.Id]
		if c.ParentId != nil {
			if parent, ok := byId[*c.ParentId]; ok && parent != node {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortComments(roots)
	return roots
}

func sortComments(comments []*Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Id < b.Id
	})
	for _, c := range comments {
		sortComments(c.Replies)
	}
}

// CommentsForPost filters a flat comment list down to one post.
func CommentsForPost(flat []*Comment, postId int) []*Comment {
	var res []*Comment
	for _, c := range flat {
		if c.PostId == postId {
			res = append(res, c)
		}
	}
	return res
}

type FlatComment struct {
	*Comment
	Depth int
}

// FlattenComments walks reply trees depth first.
func FlattenComments(tree []*Comment) []FlatComment {
	var res []FlatComment
	var walk func(cs []*Comment, depth int)
	walk = func(cs []*Comment, depth int) {
		for _, c := range cs {
			res = append(res, FlatComment{Comment: c, Depth: depth})
			walk(c.Replies, depth+1)
		}
	}
	walk(tree, 0)
	return res
}

func CountComments(tree []*Comment) int {
	return len(FlattenComments(tree))
}

func FindComment(tree []*Comment, id int) *Comment {
	for _, fc := range FlattenComments(tree) {
		if fc.Id == id {
			return fc.Comment
		}
	}
	return nil
}
