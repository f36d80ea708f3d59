package shared

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type LeaderboardEntry struct {
	Id       int             `json:"id,omitempty"`
	Username string          `json:"username"`
	Karma    decimal.Decimal `json:"karma_24h"`
}

type Post struct {
	Id           int        `json:"id"`
	Author       string     `json:"author"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	LikeCount    int        `json:"like_count"`
	IsLiked      bool       `json:"is_liked"`
	CommentCount int        `json:"comment_count"`
	Comments     []*Comment `json:"comments,omitempty"`
}

type Comment struct {
	Id        int        `json:"id"`
	PostId    int        `json:"post"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	LikeCount int        `json:"like_count"`
	IsLiked   bool       `json:"is_liked"`
	ParentId  *int       `json:"parent"`
	Replies   []*Comment `json:"replies,omitempty"`
}

func (c *Comment) IsReply() bool {
	return c.ParentId != nil
}

// PostPage is one page of the feed. A server that does not paginate
// produces a single page with no Next or Previous.
type PostPage struct {
	Count    int     `json:"count"`
	Next     string  `json:"next,omitempty"`
	Previous string  `json:"previous,omitempty"`
	Results  []*Post `json:"results"`
	Page     int     `json:"-"`
}

func (p *PostPage) HasNext() bool {
	return p != nil && p.Next != ""
}

func (p *PostPage) HasPrevious() bool {
	return p != nil && p.Previous != ""
}
