package lib

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"playto-cli/api"
	shared "playto-cli/shared"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/sync/errgroup"
)

const (
	LeaderboardSize            = 5
	LeaderboardRefreshInterval = 30 * time.Second
)

var ErrBlankContent = errors.New("content is blank")

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TopN returns at most n entries in server order.
func TopN(entries []*shared.LeaderboardEntry, n int) []*shared.LeaderboardEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

func LoadLeaderboard() ([]*shared.LeaderboardEntry, error) {
	entries, apiErr := api.Client.GetLeaderboard()
	if apiErr != nil {
		return nil, apiErr
	}
	return TopN(entries, LeaderboardSize), nil
}

func LoadFeed(page int) (*shared.PostPage, error) {
	res, apiErr := api.Client.ListPosts(page)
	if apiErr != nil {
		return nil, apiErr
	}
	return res, nil
}

type Snapshot struct {
	Feed        *shared.PostPage
	Leaderboard []*shared.LeaderboardEntry
}

// LoadSnapshot fetches a feed page and the leaderboard in parallel.
func LoadSnapshot(ctx context.Context, page int) (*Snapshot, error) {
	var res Snapshot
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		feed, err := LoadFeed(page)
		if err != nil {
			return fmt.Errorf("error loading feed: %w", err)
		}
		res.Feed = feed
		return nil
	})

	g.Go(func() error {
		entries, err := LoadLeaderboard()
		if err != nil {
			return fmt.Errorf("error loading leaderboard: %w", err)
		}
		res.Leaderboard = entries
		return nil
	})

	err := g.Wait()
	if err != nil {
		return &res, err
	}
	return &res, nil
}

// CreatePost ignores whitespace-only content without calling the server.
func CreatePost(content string) (*shared.Post, error) {
	if IsBlank(content) {
		return nil, ErrBlankContent
	}
	post, apiErr := api.Client.CreatePost(shared.CreatePostRequest{Content: content})
	if apiErr != nil {
		return nil, apiErr
	}
	return post, nil
}

// CreateComment adds a top-level comment, or a reply when parentId is set.
func CreateComment(postId int, parentId *int, content string) (*shared.Comment, error) {
	if IsBlank(content) {
		return nil, ErrBlankContent
	}
	comment, apiErr := api.Client.CreateComment(shared.CreateCommentRequest{
		PostId:   postId,
		Content:  content,
		ParentId: parentId,
	})
	if apiErr != nil {
		return nil, apiErr
	}
	return comment, nil
}

// FilterPosts keeps posts whose author or content fuzzily matches query.
func FilterPosts(posts []*shared.Post, query string) []*shared.Post {
	query = strings.TrimSpace(query)
	if query == "" {
		return posts
	}

	var res []*shared.Post
	for _, post := range posts {
		if fuzzy.MatchFold(query, post.Author) || fuzzy.MatchFold(query, post.Content) {
			res = append(res, post)
		}
	}
	return res
}
