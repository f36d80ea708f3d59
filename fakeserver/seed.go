package fakeserver

import (
	"github.com/pkg/errors"
)

const (
	DemoUsername = "admin"
	DemoPassword = "admin123"
)

type seedPost struct {
	author   string
	content  string
	likedBy  []string
	comments []seedComment
}

type seedComment struct {
	author  string
	content string
	likedBy []string
	replies []seedComment
}

var seedUsers = []string{DemoUsername, "maya", "jonas", "priya", "leo", "sam"}

var seedPosts = []seedPost{
	{
		author:  "maya",
		content: "Shipped the new onboarding flow today. Feedback welcome!",
		likedBy: []string{"jonas", "priya", "leo"},
		comments: []seedComment{
			{
				author:  "jonas",
				content: "Looks great, the progress bar is a nice touch.",
				likedBy: []string{"maya"},
				replies: []seedComment{
					{author: "maya", content: "Thanks! It took a few iterations.", likedBy: []string{"jonas"}},
				},
			},
			{author: "priya", content: "Can we get a dark mode variant?"},
		},
	},
	{
		author:  "jonas",
		content: "Anyone up for a code review swap this week?",
		likedBy: []string{"sam"},
		comments: []seedComment{
			{author: "leo", content: "Count me in.", likedBy: []string{"jonas", "sam"}},
		},
	},
	{
		author:  "priya",
		content: "Reminder: the **community call** is on Thursday.",
		likedBy: []string{"maya", "jonas", "leo", "sam", DemoUsername},
	},
	{
		author:  DemoUsername,
		content: "Welcome to Playto! Post something, like things, climb the leaderboard.",
		likedBy: []string{"maya"},
		comments: []seedComment{
			{author: "sam", content: "Hello everyone 👋"},
		},
	},
}

// Seed loads a small demo community, including the admin/admin123 account.
func (s *Server) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := map[string]int{}
	for _, name := range seedUsers {
		u, err := s.createUser(name, name+"@playto.dev", DemoPassword)
		if err != nil {
			return errors.Wrapf(err, "error seeding user %s", name)
		}
		ids[name] = u.id
	}

	for _, sp := range seedPosts {
		p, err := s.createPost(ids[sp.author], sp.content)
		if err != nil {
			return errors.Wrap(err, "error seeding post")
		}
		for _, name := range sp.likedBy {
			s.postLikes.add(p.id, ids[name], s.now())
		}
		err = s.seedComments(ids, p.id, nil, sp.comments)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Server) seedComments(ids map[string]int, postId int, parentId *int, comments []seedComment) error {
	for _, sc := range comments {
		c, err := s.createComment(ids[sc.author], postId, parentId, sc.content)
		if err != nil {
			return errors.Wrap(err, "error seeding comment")
		}
		for _, name := range sc.likedBy {
			s.commentLikes.add(c.id, ids[name], s.now())
		}
		id := c.id
		err = s.seedComments(ids, postId, &id, sc.replies)
		if err != nil {
			return err
		}
	}
	return nil
}
