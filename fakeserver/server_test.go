package fakeserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	shared "playto-cli/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	if cfg.Now == nil {
		cfg.Now = clock.now
	}
	s := New(cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, clock
}

func doRequest(t *testing.T, method, url, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func login(t *testing.T, ts *httptest.Server, username, password string) shared.TokenResponse {
	t.Helper()
	resp, body := doRequest(t, "POST", ts.URL+"/token/", "", shared.TokenRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var res shared.TokenResponse
	require.NoError(t, json.Unmarshal(body, &res))
	return res
}

func TestTokenLoginAndRefresh(t *testing.T) {
	s, ts, _ := newTestServer(t, Config{})
	_, err := s.AddUser("alice", "alice@example.com", "pw")
	require.NoError(t, err)

	resp, body := doRequest(t, "POST", ts.URL+"/token/", "", shared.TokenRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"No active account found with the given credentials"}`, string(body))

	tokens := login(t, ts, "alice", "pw")
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)

	resp, body = doRequest(t, "POST", ts.URL+"/token/refresh/", "", shared.RefreshTokenRequest{Refresh: tokens.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refreshed shared.RefreshTokenResponse
	require.NoError(t, json.Unmarshal(body, &refreshed))
	assert.NotEmpty(t, refreshed.Access)
	assert.Empty(t, refreshed.Refresh, "no rotation by default")

	// an access token is not a refresh token
	resp, _ = doRequest(t, "POST", ts.URL+"/token/refresh/", "", shared.RefreshTokenRequest{Refresh: tokens.Access})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshRotation(t *testing.T) {
	s, ts, _ := newTestServer(t, Config{RotateRefreshTokens: true})
	_, err := s.AddUser("alice", "", "pw")
	require.NoError(t, err)

	tokens := login(t, ts, "alice", "pw")
	_, body := doRequest(t, "POST", ts.URL+"/token/refresh/", "", shared.RefreshTokenRequest{Refresh: tokens.Refresh})
	var refreshed shared.RefreshTokenResponse
	require.NoError(t, json.Unmarshal(body, &refreshed))
	assert.NotEmpty(t, refreshed.Refresh)
	assert.NotEqual(t, tokens.Refresh, refreshed.Refresh)
}

func TestAccessTokenExpiryAndRevocation(t *testing.T) {
	s, ts, clock := newTestServer(t, Config{})
	_, err := s.AddUser("alice", "", "pw")
	require.NoError(t, err)
	tokens := login(t, ts, "alice", "pw")

	resp, _ := doRequest(t, "GET", ts.URL+"/posts/", tokens.Access, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, "GET", ts.URL+"/posts/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "Authentication credentials were not provided.")

	clock.advance(6 * time.Minute)
	resp, _ = doRequest(t, "GET", ts.URL+"/posts/", tokens.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expired access token")

	clock.advance(-6 * time.Minute)
	s.RevokeAccessTokens()
	resp, _ = doRequest(t, "GET", ts.URL+"/posts/", tokens.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "revoked access token")

	resp, _ = doRequest(t, "POST", ts.URL+"/token/refresh/", "", shared.RefreshTokenRequest{Refresh: tokens.Refresh})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "refresh tokens survive access revocation")

	s.RevokeRefreshTokens()
	resp, _ = doRequest(t, "POST", ts.URL+"/token/refresh/", "", shared.RefreshTokenRequest{Refresh: tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	_, ts, _ := newTestServer(t, Config{})

	resp, body := doRequest(t, "POST", ts.URL+"/users/", "", shared.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u shared.User
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, "bob", u.Username)

	resp, body = doRequest(t, "POST", ts.URL+"/users/", "", shared.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, string(body))

	resp, _ = doRequest(t, "POST", ts.URL+"/register/", "", shared.RegisterRequest{Username: "x", Email: "x@y.z", Password: "pw"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	login(t, ts, "bob", "pw")
}

func TestRegisterRouteDisabled(t *testing.T) {
	_, ts, _ := newTestServer(t, Config{DisableUsersRoute: true})
	resp, _ := doRequest(t, "POST", ts.URL+"/users/", "", shared.RegisterRequest{Username: "bob", Email: "b@c.d", Password: "pw"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostsPagination(t *testing.T) {
	s, ts, clock := newTestServer(t, Config{PageSize: 2})
	uid, err := s.AddUser("alice", "", "pw")
	require.NoError(t, err)
	for _, content := range []string{"one", "two", "three"} {
		clock.advance(time.Minute)
		_, err = s.AddPost(uid, content)
		require.NoError(t, err)
	}
	tokens := login(t, ts, "alice", "pw")

	resp, body := doRequest(t, "GET", ts.URL+"/posts/", tokens.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page shared.PostPage
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "three", page.Results[0].Content, "newest first")
	require.True(t, page.HasNext())
	assert.Contains(t, page.Next, "/posts/?page=2")
	assert.False(t, page.HasPrevious())

	_, body = doRequest(t, "GET", ts.URL+"/posts/?page=2", tokens.Access, nil)
	page = shared.PostPage{}
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page.Results, 1)
	assert.Equal(t, "one", page.Results[0].Content)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	resp, body = doRequest(t, "GET", ts.URL+"/posts/?page=3", tokens.Access, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Invalid page."}`, string(body))
}

func TestCommentsAndLikes(t *testing.T) {
	s, ts, _ := newTestServer(t, Config{})
	aliceId, err := s.AddUser("alice", "", "pw")
	require.NoError(t, err)
	_, err = s.AddUser("bob", "", "pw")
	require.NoError(t, err)
	postId, err := s.AddPost(aliceId, "hello")
	require.NoError(t, err)

	bob := login(t, ts, "bob", "pw")

	resp, body := doRequest(t, "POST", ts.URL+"/comments/", bob.Access, shared.CreateCommentRequest{PostId: postId, Content: "hi"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var c shared.Comment
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Nil(t, c.ParentId)

	parent := c.Id
	resp, body = doRequest(t, "POST", ts.URL+"/comments/", bob.Access, shared.CreateCommentRequest{PostId: postId, Content: "again", ParentId: &parent})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = doRequest(t, "POST", ts.URL+"/comments/", bob.Access, shared.CreateCommentRequest{PostId: postId, Content: "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"content":["This field may not be blank."]}`, string(body))

	resp, _ = doRequest(t, "POST", ts.URL+"/posts/999/like/", bob.Access, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// likes are idempotent
	for i := 0; i < 2; i++ {
		resp, _ = doRequest(t, "POST", ts.URL+"/posts/"+strconv.Itoa(postId)+"/like/", bob.Access, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	_, body = doRequest(t, "GET", ts.URL+"/posts/"+strconv.Itoa(postId)+"/", bob.Access, nil)
	var p shared.Post
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 1, p.LikeCount)
	assert.True(t, p.IsLiked)
	assert.Equal(t, 2, p.CommentCount)
	require.Len(t, p.Comments, 1)
	require.Len(t, p.Comments[0].Replies, 1)
	assert.Equal(t, "again", p.Comments[0].Replies[0].Content)

	resp, _ = doRequest(t, "POST", ts.URL+"/posts/"+strconv.Itoa(postId)+"/unlike/", bob.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, body = doRequest(t, "GET", ts.URL+"/posts/"+strconv.Itoa(postId)+"/", bob.Access, nil)
	p = shared.Post{}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, 0, p.LikeCount)
	assert.False(t, p.IsLiked)

	_, body = doRequest(t, "GET", ts.URL+"/comments/", bob.Access, nil)
	var all []shared.Comment
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 2)
}

func TestLeaderboardKarma(t *testing.T) {
	s, ts, clock := newTestServer(t, Config{})
	require.NoError(t, s.Seed())

	admin := login(t, ts, DemoUsername, DemoPassword)

	_, body := doRequest(t, "GET", ts.URL+"/leaderboard/top_users/", admin.Access, nil)
	var entries []shared.LeaderboardEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 5)

	names := make([]string, 0, len(entries))
	karma := make([]int64, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Username)
		karma = append(karma, e.Karma.IntPart())
	}
	assert.Equal(t, []string{"priya", "maya", "jonas", DemoUsername, "leo"}, names)
	assert.Equal(t, []int64{25, 16, 6, 5, 2}, karma)

	// likes older than a day no longer count
	clock.advance(25 * time.Hour)
	admin = login(t, ts, DemoUsername, DemoPassword)
	_, body = doRequest(t, "GET", ts.URL+"/leaderboard/top_users/", admin.Access, nil)
	entries = nil
	require.NoError(t, json.Unmarshal(body, &entries))
	assert.Empty(t, entries)
}

func TestHits(t *testing.T) {
	s, ts, _ := newTestServer(t, Config{})
	doRequest(t, "GET", ts.URL+"/posts/", "", nil)
	doRequest(t, "GET", ts.URL+"/posts/", "", nil)
	assert.Equal(t, 2, s.Hits("GET", "/posts/"))
	assert.Equal(t, 0, s.Hits("POST", "/token/refresh/"))

	resp, _ := doRequest(t, "POST", ts.URL+"/register/", "", shared.RegisterRequest{Username: "x", Email: "x@y.z", Password: "pw"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1, s.Hits("POST", "/register/"), "unrouted paths are counted")
}
