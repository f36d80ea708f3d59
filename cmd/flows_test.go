package cmd

import (
	"sync"
	"testing"
	"time"

	"playto-cli/api"
	"playto-cli/auth"
	"playto-cli/fs"
	shared "playto-cli/shared"
	"playto-cli/types"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubApi struct {
	types.ApiClient

	mu       sync.Mutex
	calls    []string
	comments []shared.CreateCommentRequest

	posts *shared.PostPage
}

func (s *stubApi) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubApi) ListPosts(page int) (*shared.PostPage, *shared.ApiError) {
	s.record("list posts")
	return s.posts, nil
}

func (s *stubApi) GetPost(postId int) (*shared.Post, *shared.ApiError) {
	s.record("get post")
	for _, p := range s.posts.Results {
		if p.Id == postId {
			return p, nil
		}
	}
	return nil, &shared.ApiError{Type: shared.ApiErrorTypeNotFound, Status: 404, Msg: "Not found."}
}

func (s *stubApi) LikePost(postId int) *shared.ApiError {
	s.record("like post")
	return nil
}

func (s *stubApi) UnlikePost(postId int) *shared.ApiError {
	s.record("unlike post")
	return nil
}

func (s *stubApi) CreateComment(req shared.CreateCommentRequest) (*shared.Comment, *shared.ApiError) {
	s.record("create comment")
	s.mu.Lock()
	s.comments = append(s.comments, req)
	s.mu.Unlock()
	return &shared.Comment{Id: 50, PostId: req.PostId, ParentId: req.ParentId, Content: req.Content}, nil
}

func intPtr(i int) *int { return &i }

func flowPosts() *shared.PostPage {
	at := time.Now().Add(-time.Hour)
	return &shared.PostPage{
		Page: 1,
		Results: []*shared.Post{
			{
				Id: 101, Author: "maya", Content: "Shipped it", CreatedAt: at, CommentCount: 2,
				Comments: []*shared.Comment{
					{Id: 7, PostId: 101, Author: "jonas", Content: "Nice", CreatedAt: at, Replies: []*shared.Comment{
						{Id: 8, PostId: 101, Author: "maya", Content: "Thanks", ParentId: intPtr(7), CreatedAt: at},
					}},
				},
			},
			{Id: 102, Author: "jonas", Content: "Code review swap?", CreatedAt: at, LikeCount: 3, IsLiked: true},
		},
	}
}

// setupFlow signs in against stub and answers list selections with picks,
// in order.
func setupFlow(t *testing.T, stub *stubApi, picks ...int) {
	t.Helper()
	color.NoColor = true

	fs.SetHomePlaytoDir(t.TempDir())
	require.NoError(t, auth.SetSession(&shared.ClientAuth{
		Host:         "http://example.test/api",
		Username:     "alice",
		AccessToken:  "access",
		RefreshToken: "refresh",
	}))

	prevClient := api.Client
	prevSelect := selectIndex
	api.Client = stub
	auth.SetApiClient(stub)

	selectIndex = func(msg string, opts []string) (int, error) {
		require.NotEmpty(t, picks, "unexpected selection: %s", msg)
		idx := picks[0]
		picks = picks[1:]
		require.Less(t, idx, len(opts))
		return idx, nil
	}

	t.Cleanup(func() {
		api.Client = prevClient
		auth.SetApiClient(prevClient)
		selectIndex = prevSelect
		require.Empty(t, picks, "selections left unused")
	})
}

func TestCommentPicksPostWhenIdMissing(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub, 1)

	comment(nil, []string{"happy", "to", "help"})

	require.Len(t, stub.comments, 1)
	assert.Equal(t, shared.CreateCommentRequest{PostId: 102, Content: "happy to help"}, stub.comments[0])
	assert.Equal(t, []string{"list posts", "create comment"}, stub.calls)
}

func TestCommentWithId(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub)

	comment(nil, []string{"101", "great"})

	require.Len(t, stub.comments, 1)
	assert.Equal(t, 101, stub.comments[0].PostId)
	assert.Nil(t, stub.comments[0].ParentId)
	assert.Equal(t, []string{"create comment"}, stub.calls)
}

func TestReplyPicksPostThenComment(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub, 0, 1)

	reply(nil, []string{"you're", "welcome"})

	require.Len(t, stub.comments, 1)
	req := stub.comments[0]
	assert.Equal(t, 101, req.PostId)
	require.NotNil(t, req.ParentId)
	assert.Equal(t, 8, *req.ParentId, "second entry of the flattened thread")
	assert.Equal(t, "you're welcome", req.Content)
}

func TestReplyWithPostIdPicksComment(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub, 0)

	reply(nil, []string{"101", "agreed"})

	require.Len(t, stub.comments, 1)
	require.NotNil(t, stub.comments[0].ParentId)
	assert.Equal(t, 7, *stub.comments[0].ParentId)
	assert.Equal(t, []string{"get post", "create comment"}, stub.calls)
}

func TestReplyWithBothIds(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub)

	reply(nil, []string{"101", "8", "same", "here"})

	require.Len(t, stub.comments, 1)
	req := stub.comments[0]
	assert.Equal(t, 101, req.PostId)
	require.NotNil(t, req.ParentId)
	assert.Equal(t, 8, *req.ParentId)
	assert.Equal(t, "same here", req.Content)
}

func TestShowPicksPost(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub, 0)

	show(nil, nil)

	assert.Equal(t, []string{"list posts", "get post"}, stub.calls)
}

func TestLikePost(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub)

	setLiked([]string{"101"}, true)

	post := stub.posts.Results[0]
	assert.True(t, post.IsLiked)
	assert.Equal(t, 1, post.LikeCount)
	assert.Equal(t, []string{"get post", "like post"}, stub.calls)
}

func TestLikeSkipsWhenAlreadyInState(t *testing.T) {
	stub := &stubApi{posts: flowPosts()}
	setupFlow(t, stub, 1)

	setLiked(nil, true)
	assert.Equal(t, []string{"list posts"}, stub.calls, "post 102 is already liked")

	setLiked([]string{"102"}, false)
	assert.Equal(t, []string{"list posts", "get post", "unlike post"}, stub.calls)
	assert.False(t, stub.posts.Results[1].IsLiked)
	assert.Equal(t, 2, stub.posts.Results[1].LikeCount)
}
