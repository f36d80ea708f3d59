package feedtui

import (
	"context"
	"time"

	"playto-cli/api"
	"playto-cli/auth"
	"playto-cli/lib"
	shared "playto-cli/shared"

	tea "github.com/charmbracelet/bubbletea"
)

// Loads carry the session they were started in so that a response arriving
// after sign-out is dropped.

type snapshotMsg struct {
	session  int
	snapshot *lib.Snapshot
	err      error
}

type feedMsg struct {
	session int
	page    *shared.PostPage
	err     error
}

type leaderboardMsg struct {
	session int
	entries []*shared.LeaderboardEntry
	err     error
}

type leaderboardTickMsg struct {
	session int
}

type authResultMsg struct {
	username string
	err      error
}

type likeSettledMsg struct {
	err error
}

type postCreatedMsg struct {
	err error
}

type commentCreatedMsg struct {
	err error
}

type sessionExpiredMsg struct{}

func loadSnapshot(session, page int) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := lib.LoadSnapshot(context.Background(), page)
		return snapshotMsg{session: session, snapshot: snapshot, err: err}
	}
}

func loadFeed(session, page int) tea.Cmd {
	return func() tea.Msg {
		res, err := lib.LoadFeed(page)
		return feedMsg{session: session, page: res, err: err}
	}
}

func loadLeaderboard(session int) tea.Cmd {
	return func() tea.Msg {
		entries, err := lib.LoadLeaderboard()
		return leaderboardMsg{session: session, entries: entries, err: err}
	}
}

func scheduleLeaderboardTick(session int, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return leaderboardTickMsg{session: session}
	})
}

func signIn(username, password string) tea.Cmd {
	return func() tea.Msg {
		err := auth.SignIn(username, password, api.GetApiHost())
		return authResultMsg{username: username, err: err}
	}
}

func signUp(params auth.SignUpParams) tea.Cmd {
	return func() tea.Msg {
		err := auth.SignUp(params, api.GetApiHost())
		return authResultMsg{username: params.Username, err: err}
	}
}

func sendLike(toggle *lib.LikeToggle) tea.Cmd {
	return func() tea.Msg {
		return likeSettledMsg{err: toggle.Send()}
	}
}

func createPost(content string) tea.Cmd {
	return func() tea.Msg {
		_, err := lib.CreatePost(content)
		return postCreatedMsg{err: err}
	}
}

func createComment(postId int, parentId *int, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := lib.CreateComment(postId, parentId, content)
		return commentCreatedMsg{err: err}
	}
}
