package lib

import (
	"context"
	"sync"
	"testing"

	"playto-cli/api"
	shared "playto-cli/shared"
	"playto-cli/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubApi struct {
	types.ApiClient

	mu    sync.Mutex
	calls []string

	likeErr     *shared.ApiError
	block       chan struct{}
	posts       *shared.PostPage
	leaderboard []*shared.LeaderboardEntry
	created     []shared.CreateCommentRequest
}

func (s *stubApi) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubApi) LikePost(postId int) *shared.ApiError {
	s.record("like post")
	if s.block != nil {
		<-s.block
	}
	return s.likeErr
}

func (s *stubApi) UnlikePost(postId int) *shared.ApiError {
	s.record("unlike post")
	return s.likeErr
}

func (s *stubApi) LikeComment(commentId int) *shared.ApiError {
	s.record("like comment")
	return s.likeErr
}

func (s *stubApi) UnlikeComment(commentId int) *shared.ApiError {
	s.record("unlike comment")
	return s.likeErr
}

func (s *stubApi) ListPosts(page int) (*shared.PostPage, *shared.ApiError) {
	s.record("list posts")
	return s.posts, nil
}

func (s *stubApi) GetLeaderboard() ([]*shared.LeaderboardEntry, *shared.ApiError) {
	s.record("leaderboard")
	return s.leaderboard, nil
}

func (s *stubApi) CreatePost(req shared.CreatePostRequest) (*shared.Post, *shared.ApiError) {
	s.record("create post")
	return &shared.Post{Id: 1, Content: req.Content}, nil
}

func (s *stubApi) CreateComment(req shared.CreateCommentRequest) (*shared.Comment, *shared.ApiError) {
	s.record("create comment")
	s.mu.Lock()
	s.created = append(s.created, req)
	s.mu.Unlock()
	return &shared.Comment{Id: 2, PostId: req.PostId, ParentId: req.ParentId, Content: req.Content}, nil
}

func useStub(t *testing.T, stub *stubApi) {
	t.Helper()
	prev := api.Client
	api.Client = stub
	t.Cleanup(func() { api.Client = prev })
}

func TestTogglePostLike(t *testing.T) {
	tests := []struct {
		name          string
		post          shared.Post
		expectedCall  string
		expectedLiked bool
		expectedCount int
	}{
		{"like", shared.Post{Id: 1, LikeCount: 2}, "like post", true, 3},
		{"unlike", shared.Post{Id: 1, LikeCount: 2, IsLiked: true}, "unlike post", false, 1},
		{"unlike never below zero", shared.Post{Id: 1, LikeCount: 0, IsLiked: true}, "unlike post", false, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stub := &stubApi{}
			useStub(t, stub)

			post := test.post
			wasLiked, err := TogglePostLike(&post)
			require.NoError(t, err)

			assert.Equal(t, test.post.IsLiked, wasLiked)
			assert.Equal(t, test.expectedLiked, post.IsLiked)
			assert.Equal(t, test.expectedCount, post.LikeCount)
			assert.Equal(t, []string{test.expectedCall}, stub.calls)
		})
	}
}

func TestToggleCommentLike(t *testing.T) {
	stub := &stubApi{}
	useStub(t, stub)

	comment := &shared.Comment{Id: 4, LikeCount: 1, IsLiked: true}
	toggle := BeginCommentLikeToggle(comment)
	require.NotNil(t, toggle)
	assert.True(t, toggle.WasLiked)
	assert.False(t, comment.IsLiked)
	assert.Equal(t, 0, comment.LikeCount)

	require.NoError(t, toggle.Send())
	assert.Equal(t, []string{"unlike comment"}, stub.calls)
}

func TestToggleErrorLeavesOptimisticState(t *testing.T) {
	stub := &stubApi{likeErr: &shared.ApiError{Type: shared.ApiErrorTypeNotFound, Status: 404, Msg: "Not found."}}
	useStub(t, stub)

	post := &shared.Post{Id: 1}
	_, err := TogglePostLike(post)
	require.Error(t, err)

	var apiErr *shared.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)

	// the caller's refetch restores server state
	assert.True(t, post.IsLiked)
	assert.False(t, IsTogglePending(LikeTarget{Kind: LikeKindPost, Id: 1}))
}

func TestTogglePendingIgnoresRepeat(t *testing.T) {
	stub := &stubApi{block: make(chan struct{})}
	useStub(t, stub)

	post := &shared.Post{Id: 9}
	first := BeginPostLikeToggle(post)
	require.NotNil(t, first)

	assert.Nil(t, BeginPostLikeToggle(post), "second toggle while pending")
	_, err := TogglePostLike(post)
	assert.ErrorIs(t, err, ErrTogglePending)
	assert.True(t, post.IsLiked, "ignored toggles do not flip")
	assert.Equal(t, 1, post.LikeCount)

	// other posts are independent
	other := BeginPostLikeToggle(&shared.Post{Id: 10})
	require.NotNil(t, other)
	release(other.Target)

	done := make(chan error)
	go func() { done <- first.Send() }()
	close(stub.block)
	require.NoError(t, <-done)

	assert.NotNil(t, BeginPostLikeToggle(post), "settled toggle frees the post")
	release(LikeTarget{Kind: LikeKindPost, Id: 9})
}

func TestTopN(t *testing.T) {
	var entries []*shared.LeaderboardEntry
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		entries = append(entries, &shared.LeaderboardEntry{Username: name})
	}

	top := TopN(entries, LeaderboardSize)
	require.Len(t, top, 5)
	assert.Equal(t, "a", top[0].Username)
	assert.Equal(t, "e", top[4].Username)

	assert.Len(t, TopN(entries[:2], LeaderboardSize), 2)
	assert.Empty(t, TopN(nil, LeaderboardSize))
}

func TestLoadSnapshot(t *testing.T) {
	var entries []*shared.LeaderboardEntry
	for i := 0; i < 8; i++ {
		entries = append(entries, &shared.LeaderboardEntry{Id: i})
	}
	stub := &stubApi{
		posts:       &shared.PostPage{Count: 1, Results: []*shared.Post{{Id: 1}}},
		leaderboard: entries,
	}
	useStub(t, stub)

	snap, err := LoadSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, snap.Feed.Results, 1)
	assert.Len(t, snap.Leaderboard, LeaderboardSize)
	assert.ElementsMatch(t, []string{"list posts", "leaderboard"}, stub.calls)
}

func TestCreateSkipsBlankContent(t *testing.T) {
	stub := &stubApi{}
	useStub(t, stub)

	_, err := CreatePost("   \n\t")
	assert.ErrorIs(t, err, ErrBlankContent)
	_, err = CreateComment(1, nil, " ")
	assert.ErrorIs(t, err, ErrBlankContent)
	assert.Empty(t, stub.calls)

	post, err := CreatePost("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Content)

	parent := 5
	reply, err := CreateComment(1, &parent, "a reply")
	require.NoError(t, err)
	assert.True(t, reply.IsReply())
	require.Len(t, stub.created, 1)
	assert.Equal(t, 5, *stub.created[0].ParentId)
}

func TestFilterPosts(t *testing.T) {
	posts := []*shared.Post{
		{Id: 1, Author: "maya", Content: "Shipped the onboarding flow"},
		{Id: 2, Author: "jonas", Content: "Code review swap?"},
		{Id: 3, Author: "priya", Content: "Community call on Thursday"},
	}

	assert.Len(t, FilterPosts(posts, ""), 3)
	assert.Len(t, FilterPosts(posts, "  "), 3)

	res := FilterPosts(posts, "MAYA")
	require.Len(t, res, 1)
	assert.Equal(t, 1, res[0].Id)

	res = FilterPosts(posts, "thrsdy")
	require.Len(t, res, 1)
	assert.Equal(t, 3, res[0].Id)

	assert.Empty(t, FilterPosts(posts, "zzz"))
}
