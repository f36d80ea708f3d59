package feedtui

import (
	"playto-cli/auth"
	shared "playto-cli/shared"

	bubbleKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenFeed
)

type feedMode int

const (
	modeBrowse feedMode = iota
	modeNewPost
	modeComment
	modeSelectComment
	modeReply
)

const (
	loginUsernameIdx = iota
	loginPasswordIdx
)

const (
	registerUsernameIdx = iota
	registerEmailIdx
	registerPasswordIdx
	registerConfirmIdx
)

type feedUIModel struct {
	keymap keymap

	screen screen
	mode   feedMode

	loginInputs    []textinput.Model
	registerInputs []textinput.Model
	focusIdx       int
	authErr        string
	authenticating bool

	pageNum     int
	page        *shared.PostPage
	selected    int
	leaderboard []*shared.LeaderboardEntry
	loading     bool

	// bumped on every sign in and sign out so ticks from an earlier
	// session stop rescheduling
	session int

	commentInput     textinput.Model
	composer         textarea.Model
	commentTargets   []shared.FlatComment
	commentTargetIdx int
	replyParent      *shared.Comment
	submitting       bool

	postOffsets []int

	feedViewport viewport.Model
	spinner      spinner.Model

	ready  bool
	width  int
	height int

	status    string
	statusErr bool

	err error
}

type keymap = struct {
	quit,
	up,
	down,
	like,
	comment,
	reply,
	newPost,
	nextPage,
	prevPage,
	refresh,
	signOut,
	switchForm,
	submit,
	submitPost,
	cancel bubbleKey.Binding
}

func (m *feedUIModel) Init() tea.Cmd {
	if m.screen == screenFeed {
		return m.startSession()
	}
	return textinput.Blink
}

func initialModel() *feedUIModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	commentInput := textinput.New()
	commentInput.Placeholder = "Write a comment..."
	commentInput.CharLimit = 1000

	composer := textarea.New()
	composer.Placeholder = "What's on your mind?"
	composer.ShowLineNumbers = false
	composer.SetHeight(4)

	initialState := feedUIModel{
		keymap: keymap{
			quit: bubbleKey.NewBinding(
				bubbleKey.WithKeys("q", "ctrl+c"),
				bubbleKey.WithHelp("q", "quit"),
			),
			up: bubbleKey.NewBinding(
				bubbleKey.WithKeys("up", "k"),
				bubbleKey.WithHelp("↑/k", "prev"),
			),
			down: bubbleKey.NewBinding(
				bubbleKey.WithKeys("down", "j"),
				bubbleKey.WithHelp("↓/j", "next"),
			),
			like: bubbleKey.NewBinding(
				bubbleKey.WithKeys("l"),
				bubbleKey.WithHelp("l", "like"),
			),
			comment: bubbleKey.NewBinding(
				bubbleKey.WithKeys("c"),
				bubbleKey.WithHelp("c", "comment"),
			),
			reply: bubbleKey.NewBinding(
				bubbleKey.WithKeys("r"),
				bubbleKey.WithHelp("r", "reply"),
			),
			newPost: bubbleKey.NewBinding(
				bubbleKey.WithKeys("n"),
				bubbleKey.WithHelp("n", "new post"),
			),
			nextPage: bubbleKey.NewBinding(
				bubbleKey.WithKeys("]"),
				bubbleKey.WithHelp("]", "next page"),
			),
			prevPage: bubbleKey.NewBinding(
				bubbleKey.WithKeys("["),
				bubbleKey.WithHelp("[", "prev page"),
			),
			refresh: bubbleKey.NewBinding(
				bubbleKey.WithKeys("R"),
				bubbleKey.WithHelp("R", "refresh"),
			),
			signOut: bubbleKey.NewBinding(
				bubbleKey.WithKeys("o"),
				bubbleKey.WithHelp("o", "sign out"),
			),
			switchForm: bubbleKey.NewBinding(
				bubbleKey.WithKeys("tab"),
				bubbleKey.WithHelp("tab", "sign in/register"),
			),
			submit: bubbleKey.NewBinding(
				bubbleKey.WithKeys("enter"),
				bubbleKey.WithHelp("enter", "submit"),
			),
			submitPost: bubbleKey.NewBinding(
				bubbleKey.WithKeys("ctrl+s"),
				bubbleKey.WithHelp("ctrl+s", "post"),
			),
			cancel: bubbleKey.NewBinding(
				bubbleKey.WithKeys("esc"),
				bubbleKey.WithHelp("esc", "cancel"),
			),
		},

		loginInputs: []textinput.Model{
			newInput("Username", false),
			newInput("Password", true),
		},
		registerInputs: []textinput.Model{
			newInput("Username", false),
			newInput("Email", false),
			newInput("Password", true),
			newInput("Confirm password", true),
		},

		commentInput: commentInput,
		composer:     composer,
		spinner:      s,
		pageNum:      1,
	}

	if auth.IsSignedIn() {
		initialState.screen = screenFeed
		initialState.loading = true
	} else {
		initialState.screen = screenLogin
		initialState.loginInputs[loginUsernameIdx].Focus()
	}

	return &initialState
}

func newInput(placeholder string, secret bool) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 150
	input.Width = 30
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	return input
}

func (m *feedUIModel) activeInputs() []textinput.Model {
	if m.screen == screenRegister {
		return m.registerInputs
	}
	return m.loginInputs
}

func (m *feedUIModel) selectedPost() *shared.Post {
	if m.page == nil || m.selected < 0 || m.selected >= len(m.page.Results) {
		return nil
	}
	return m.page.Results[m.selected]
}
