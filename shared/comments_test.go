package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestBuildCommentTree(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	flat := []*Comment{
		{Id: 3, PostId: 1, Content: "reply to 1", ParentId: intPtr(1), CreatedAt: base.Add(2 * time.Minute)},
		{Id: 1, PostId: 1, Content: "first", CreatedAt: base},
		{Id: 4, PostId: 1, Content: "nested reply", ParentId: intPtr(3), CreatedAt: base.Add(3 * time.Minute)},
		{Id: 2, PostId: 1, Content: "second", CreatedAt: base.Add(time.Minute)},
		{Id: 5, PostId: 1, Content: "orphan", ParentId: intPtr(99), CreatedAt: base.Add(4 * time.Minute)},
	}

	tree := BuildCommentTree(flat)

	require.Len(t, tree, 3)
	assert.Equal(t, 1, tree[0].Id)
	assert.Equal(t, 2, tree[1].Id)
	assert.Equal(t, 5, tree[2].Id, "reply with unknown parent becomes top-level")

	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, 3, tree[0].Replies[0].Id)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, 4, tree[0].Replies[0].Replies[0].Id)

	assert.Nil(t, flat[1].Replies, "input comments are not mutated")
	assert.Equal(t, 5, CountComments(tree))
}

func TestFlattenCommentsDepth(t *testing.T) {
	tree := []*Comment{
		{Id: 1, Replies: []*Comment{
			{Id: 2, ParentId: intPtr(1), Replies: []*Comment{{Id: 3, ParentId: intPtr(2)}}},
		}},
		{Id: 4},
	}

	flat := FlattenComments(tree)
	require.Len(t, flat, 4)

	ids := []int{}
	depths := []int{}
	for _, fc := range flat {
		ids = append(ids, fc.Id)
		depths = append(depths, fc.Depth)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, ids)
	assert.Equal(t, []int{0, 1, 2, 0}, depths)

	assert.Equal(t, 3, FindComment(tree, 3).Id)
	assert.Nil(t, FindComment(tree, 42))
}

func TestCommentsForPost(t *testing.T) {
	flat := []*Comment{{Id: 1, PostId: 1}, {Id: 2, PostId: 2}, {Id: 3, PostId: 1}}
	res := CommentsForPost(flat, 1)
	require.Len(t, res, 2)
	assert.Equal(t, 1, res[0].Id)
	assert.Equal(t, 3, res[1].Id)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AD", Initials("admin"))
	assert.Equal(t, "J", Initials("j"))
	assert.Equal(t, "", Initials(""))
	assert.Equal(t, "ÉL", Initials("élodie"))
}
