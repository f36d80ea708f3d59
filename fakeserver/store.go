package fakeserver

import (
	"sort"
	"strconv"
	"strings"
	"time"

	shared "playto-cli/shared"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	postLikeKarma    = 5
	commentLikeKarma = 1
	karmaWindow      = 24 * time.Hour
	leaderboardSize  = 5
)

var errNotFound = errors.New("Not found.")

type fieldError struct {
	field string
	msg   string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.msg
}

type user struct {
	id           int
	username     string
	email        string
	passwordHash []byte
}

type post struct {
	id        int
	authorId  int
	content   string
	createdAt time.Time
}

type comment struct {
	id        int
	postId    int
	authorId  int
	parentId  *int
	content   string
	createdAt time.Time
}

// likes maps an object id to the users that liked it and when.
type likes map[int]map[int]time.Time

func (l likes) add(objId, userId int, at time.Time) {
	if l[objId] == nil {
		l[objId] = map[int]time.Time{}
	}
	if _, ok := l[objId][userId]; !ok {
		l[objId][userId] = at
	}
}

func (l likes) remove(objId, userId int) {
	delete(l[objId], userId)
}

func (l likes) has(objId, userId int) bool {
	_, ok := l[objId][userId]
	return ok
}

func (s *Server) createUser(username, email, password string) (*user, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &fieldError{"username", "This field may not be blank."}
	}
	if password == "" {
		return nil, &fieldError{"password", "This field may not be blank."}
	}
	if _, ok := s.usersByName[username]; ok {
		return nil, &fieldError{"username", "A user with that username already exists."}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "error hashing password")
	}

	s.lastId++
	u := &user{id: s.lastId, username: username, email: email, passwordHash: hash}
	s.usersByName[username] = u
	s.usersById[u.id] = u
	return u, nil
}

func (s *Server) checkCredentials(username, password string) (*user, bool) {
	u, ok := s.usersByName[username]
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

func (s *Server) createPost(authorId int, content string) (*post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &fieldError{"content", "This field may not be blank."}
	}
	s.lastId++
	p := &post{id: s.lastId, authorId: authorId, content: content, createdAt: s.now()}
	s.posts = append(s.posts, p)
	s.postsById[p.id] = p
	return p, nil
}

func (s *Server) createComment(authorId, postId int, parentId *int, content string) (*comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &fieldError{"content", "This field may not be blank."}
	}
	if _, ok := s.postsById[postId]; !ok {
		return nil, &fieldError{"post", "Invalid pk \"" + strconv.Itoa(postId) + "\" - object does not exist."}
	}
	if parentId != nil {
		parent, ok := s.commentsById[*parentId]
		if !ok {
			return nil, &fieldError{"parent", "Invalid pk \"" + strconv.Itoa(*parentId) + "\" - object does not exist."}
		}
		if parent.postId != postId {
			return nil, &fieldError{"parent", "Parent comment belongs to a different post."}
		}
	}

	s.lastId++
	c := &comment{id: s.lastId, postId: postId, authorId: authorId, parentId: parentId, content: content, createdAt: s.now()}
	s.comments = append(s.comments, c)
	s.commentsById[c.id] = c
	return c, nil
}

func (s *Server) setPostLike(postId, userId int, liked bool) error {
	if _, ok := s.postsById[postId]; !ok {
		return errors.Wrapf(errNotFound, "post %d", postId)
	}
	if liked {
		s.postLikes.add(postId, userId, s.now())
	} else {
		s.postLikes.remove(postId, userId)
	}
	return nil
}

func (s *Server) setCommentLike(commentId, userId int, liked bool) error {
	if _, ok := s.commentsById[commentId]; !ok {
		return errors.Wrapf(errNotFound, "comment %d", commentId)
	}
	if liked {
		s.commentLikes.add(commentId, userId, s.now())
	} else {
		s.commentLikes.remove(commentId, userId)
	}
	return nil
}

func (s *Server) commentView(c *comment, viewerId int) *shared.Comment {
	return &shared.Comment{
		Id:        c.id,
		PostId:    c.postId,
		Author:    s.usersById[c.authorId].username,
		Content:   c.content,
		CreatedAt: c.createdAt,
		LikeCount: len(s.commentLikes[c.id]),
		IsLiked:   s.commentLikes.has(c.id, viewerId),
		ParentId:  c.parentId,
	}
}

func (s *Server) postView(p *post, viewerId int) *shared.Post {
	var flat []*shared.Comment
	for _, c := range s.comments {
		if c.postId == p.id {
			flat = append(flat, s.commentView(c, viewerId))
		}
	}

	return &shared.Post{
		Id:           p.id,
		Author:       s.usersById[p.authorId].username,
		Content:      p.content,
		CreatedAt:    p.createdAt,
		LikeCount:    len(s.postLikes[p.id]),
		IsLiked:      s.postLikes.has(p.id, viewerId),
		CommentCount: len(flat),
		Comments:     shared.BuildCommentTree(flat),
	}
}

// feed returns posts newest first.
func (s *Server) feed(viewerId int) []*shared.Post {
	res := make([]*shared.Post, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		res = append(res, s.postView(s.posts[i], viewerId))
	}
	return res
}

func (s *Server) leaderboard() []*shared.LeaderboardEntry {
	since := s.now().Add(-karmaWindow)
	karma := map[int]int{}

	for postId, byUser := range s.postLikes {
		authorId := s.postsById[postId].authorId
		for _, at := range byUser {
			if at.After(since) {
				karma[authorId] += postLikeKarma
			}
		}
	}
	for commentId, byUser := range s.commentLikes {
		authorId := s.commentsById[commentId].authorId
		for _, at := range byUser {
			if at.After(since) {
				karma[authorId] += commentLikeKarma
			}
		}
	}

	entries := make([]*shared.LeaderboardEntry, 0, len(karma))
	for userId, k := range karma {
		entries = append(entries, &shared.LeaderboardEntry{
			Id:       userId,
			Username: s.usersById[userId].username,
			Karma:    decimal.NewFromInt(int64(k)),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Karma.Cmp(entries[j].Karma); c != 0 {
			return c > 0
		}
		return entries[i].Username < entries[j].Username
	})

	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	return entries
}
