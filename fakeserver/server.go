// Package fakeserver is an in-memory implementation of the Playto REST/JWT
// backend. It backs the test suites and the dev-server command.
package fakeserver

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	shared "playto-cli/shared"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	PageSize   int
	BcryptCost int

	// RotateRefreshTokens returns a new refresh token from /token/refresh/.
	RotateRefreshTokens bool

	// DisableUsersRoute makes POST /users/ answer 404.
	DisableUsersRoute bool

	// RefreshDelay holds every refresh response, widening the window in
	// which concurrent requests overlap a refresh.
	RefreshDelay time.Duration

	Now func() time.Time
}

type Server struct {
	cfg Config

	mu           sync.Mutex
	lastId       int
	usersByName  map[string]*user
	usersById    map[int]*user
	posts        []*post
	postsById    map[int]*post
	comments     []*comment
	commentsById map[int]*comment
	postLikes    likes
	commentLikes likes
	hits         map[string]int

	accessGeneration  atomic.Int64
	refreshGeneration atomic.Int64
}

func New(cfg Config) *Server {
	if len(cfg.Secret) == 0 {
		cfg.Secret = []byte("playto-dev-secret")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 5 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 10
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.MinCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Server{
		cfg:          cfg,
		usersByName:  map[string]*user{},
		usersById:    map[int]*user{},
		postsById:    map[int]*post{},
		commentsById: map[int]*comment{},
		postLikes:    likes{},
		commentLikes: likes{},
		hits:         map[string]int{},
	}
}

func (s *Server) now() time.Time {
	return s.cfg.Now()
}

func (s *Server) generation(tokenType string) int {
	if tokenType == tokenTypeRefresh {
		return int(s.refreshGeneration.Load())
	}
	return int(s.accessGeneration.Load())
}

// RevokeAccessTokens invalidates every access token issued so far. Refresh
// tokens keep working.
func (s *Server) RevokeAccessTokens() {
	s.accessGeneration.Add(1)
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.refreshGeneration.Add(1)
}

// Hits reports how many requests reached method and path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

func (s *Server) AddUser(username, email, password string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.createUser(username, email, password)
	if err != nil {
		return 0, err
	}
	return u.id, nil
}

func (s *Server) AddPost(authorId int, content string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.createPost(authorId, content)
	if err != nil {
		return 0, err
	}
	return p.id, nil
}

func (s *Server) AddComment(authorId, postId int, parentId *int, content string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.createComment(authorId, postId, parentId, content)
	if err != nil {
		return 0, err
	}
	return c.id, nil
}

func (s *Server) LikePost(postId, userId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setPostLike(postId, userId, true)
}

func (s *Server) LikeComment(commentId, userId int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCommentLike(commentId, userId, true)
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/token/", s.tokenHandler).Methods("POST")
	r.HandleFunc("/token/refresh/", s.refreshHandler).Methods("POST")
	r.HandleFunc("/users/", s.registerHandler).Methods("POST")

	r.HandleFunc("/posts/", s.listPostsHandler).Methods("GET")
	r.HandleFunc("/posts/", s.createPostHandler).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}/", s.getPostHandler).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}/like/", s.postLikeHandler(true)).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}/unlike/", s.postLikeHandler(false)).Methods("POST")

	r.HandleFunc("/comments/", s.listCommentsHandler).Methods("GET")
	r.HandleFunc("/comments/", s.createCommentHandler).Methods("POST")
	r.HandleFunc("/comments/{id:[0-9]+}/like/", s.commentLikeHandler(true)).Methods("POST")
	r.HandleFunc("/comments/{id:[0-9]+}/unlike/", s.commentLikeHandler(false)).Methods("POST")

	r.HandleFunc("/leaderboard/top_users/", s.leaderboardHandler).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not found.")
	})

	// wrapped outside the router so unrouted paths are counted too
	return s.countHits(r)
}

func (s *Server) countHits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()

		log.Printf("[fakeserver] %s %s id=%s", r.Method, r.URL.Path, r.Header.Get("X-Request-Id"))
		next.ServeHTTP(w, r)
	})
}

// authenticate writes a 401 and returns nil unless the request carries a
// valid access token.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) *user {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return nil
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
		return nil
	}

	claims, err := s.parseToken(strings.TrimPrefix(authHeader, "Bearer "), tokenTypeAccess)
	if err != nil {
		log.Printf("[fakeserver] rejecting access token: %v", err)
		writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
		return nil
	}

	s.mu.Lock()
	u, ok := s.usersById[claims.UserId]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "User not found")
		return nil
	}

	return u
}

func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	var req shared.TokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	u, ok := s.checkCredentials(req.Username, req.Password)
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	access, err := s.mintToken(tokenTypeAccess, u.id, s.cfg.AccessTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	refresh, err := s.mintRefreshToken(u.id)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, shared.TokenResponse{Access: access, Refresh: refresh})
}

func (s *Server) mintRefreshToken(userId int) (string, error) {
	return s.mintToken(tokenTypeRefresh, userId, s.cfg.RefreshTTL)
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	var req shared.RefreshTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if s.cfg.RefreshDelay > 0 {
		time.Sleep(s.cfg.RefreshDelay)
	}

	if req.Refresh == "" {
		writeFieldError(w, &fieldError{"refresh", "This field is required."})
		return
	}

	claims, err := s.parseToken(req.Refresh, tokenTypeRefresh)
	if err != nil {
		log.Printf("[fakeserver] rejecting refresh token: %v", err)
		writeDetail(w, http.StatusUnauthorized, errTokenInvalid.Error())
		return
	}

	access, err := s.mintToken(tokenTypeAccess, claims.UserId, s.cfg.AccessTTL)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := shared.RefreshTokenResponse{Access: access}
	if s.cfg.RotateRefreshTokens {
		res.Refresh, err = s.mintRefreshToken(claims.UserId)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if s.cfg.DisableUsersRoute {
		writeDetail(w, http.StatusNotFound, "Not found.")
		return
	}

	var req shared.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		writeFieldError(w, &fieldError{"email", "This field may not be blank."})
		return
	}

	s.mu.Lock()
	u, err := s.createUser(req.Username, req.Email, req.Password)
	s.mu.Unlock()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, shared.User{Id: u.id, Username: u.username, Email: u.email})
}

func (s *Server) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	u := s.authenticate(w, r)
	if u == nil {
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeDetail(w, http.StatusNotFound, "Invalid page.")
			return
		}
		page = n
	}

	s.mu.Lock()
	posts := s.feed(u.id)
	s.mu.Unlock()

	start := (page - 1) * s.cfg.PageSize
	if start > 0 && start >= len(posts) {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}
	end := min(start+s.cfg.PageSize, len(posts))

	pageUrl := func(n int) *string {
		link := fmt.Sprintf("http://%s%s?page=%d", r.Host, r.URL.Path, n)
		return &link
	}

	res := struct {
		Count    int            `json:"count"`
		Next     *string        `json:"next"`
		Previous *string        `json:"previous"`
		Results  []*shared.Post `json:"results"`
	}{
		Count:   len(posts),
		Results: posts[start:end],
	}
	if end < len(posts) {
		res.Next = pageUrl(page + 1)
	}
	if page > 1 {
		res.Previous = pageUrl(page - 1)
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getPostHandler(w http.ResponseWriter, r *http.Request) {
	u := s.authenticate(w, r)
	if u == nil {
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.postsById[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, errNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.postView(p, u.id))
}

func (s *Server) createPostHandler(w http.ResponseWriter, r *http.Request) {
	u := s.authenticate(w, r)
	if u == nil {
		return
	}

	var req shared.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.createPost(u.id, req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.postView(p, u.id))
}

func (s *Server) postLikeHandler(liked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := s.authenticate(w, r)
		if u == nil {
			return
		}

		id, _ := strconv.Atoi(mux.Vars(r)["id"])

		s.mu.Lock()
		err := s.setPostLike(id, u.id, liked)
		s.mu.Unlock()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": likeStatus(liked)})
	}
}

func (s *Server) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	u := s.authenticate(w, r)
	if u == nil {
		return
	}

	s.mu.Lock()
	res := make([]*shared.Comment, 0, len(s.comments))
	for _, c := range s.comments {
		res = append(res, s.commentView(c, u.id))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	u := s.authenticate(w, r)
	if u == nil {
		return
	}

	var req shared.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.createComment(u.id, req.PostId, req.ParentId, req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, s.commentView(c, u.id))
}

func (s *Server) commentLikeHandler(liked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := s.authenticate(w, r)
		if u == nil {
			return
		}

		id, _ := strconv.Atoi(mux.Vars(r)["id"])

		s.mu.Lock()
		err := s.setCommentLike(id, u.id, liked)
		s.mu.Unlock()
		if err != nil {
			writeStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": likeStatus(liked)})
	}
}

func (s *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	u := s.authenticate(w, r)
	if u == nil {
		return
	}

	s.mu.Lock()
	res := s.leaderboard()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, res)
}

func likeStatus(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		log.Printf("[fakeserver] error parsing request body: %v", err)
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

func writeStoreError(w http.ResponseWriter, err error) {
	var fe *fieldError
	if errors.As(err, &fe) {
		writeFieldError(w, fe)
		return
	}
	if errors.Cause(err) == errNotFound {
		writeDetail(w, http.StatusNotFound, errNotFound.Error())
		return
	}
	log.Printf("[fakeserver] internal error: %v", err)
	writeDetail(w, http.StatusInternalServerError, "A server error occurred.")
}

func writeFieldError(w http.ResponseWriter, fe *fieldError) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{fe.field: {fe.msg}})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("[fakeserver] error encoding response: %v", err)
	}
}
