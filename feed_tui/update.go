package feedtui

import (
	"log"

	"playto-cli/auth"
	"playto-cli/lib"
	shared "playto-cli/shared"

	bubbleKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const sessionExpiredText = "Your session has expired. Please sign in again."

func (m *feedUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case spinner.TickMsg:
		if m.busy() {
			spinnerModel, cmd := m.spinner.Update(msg)
			m.spinner = spinnerModel
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.windowResized(msg.Width, msg.Height)

	case snapshotMsg:
		if m.isStale(msg.session) {
			return m, nil
		}
		m.loading = false
		if msg.snapshot != nil {
			if msg.snapshot.Feed != nil {
				m.setPage(msg.snapshot.Feed)
			}
			if msg.snapshot.Leaderboard != nil {
				m.leaderboard = msg.snapshot.Leaderboard
			}
		}
		if msg.err != nil {
			log.Printf("[feed ui] %v", msg.err)
			m.setStatus(msg.err.Error(), true)
		}
		m.updateFeedViewport()

	case feedMsg:
		if m.isStale(msg.session) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("[feed ui] error loading feed: %v", msg.err)
			m.setStatus("Error loading feed: "+msg.err.Error(), true)
		} else {
			m.setPage(msg.page)
		}
		m.updateFeedViewport()

	case leaderboardMsg:
		if m.isStale(msg.session) {
			return m, nil
		}
		if msg.err != nil {
			// keep showing the last good list
			log.Printf("[feed ui] error refreshing leaderboard: %v", msg.err)
		} else {
			m.leaderboard = msg.entries
		}

	case leaderboardTickMsg:
		if m.isStale(msg.session) {
			return m, nil
		}
		return m, tea.Batch(
			loadLeaderboard(m.session),
			scheduleLeaderboardTick(m.session, lib.LeaderboardRefreshInterval),
		)

	case authResultMsg:
		m.authenticating = false
		if msg.err != nil {
			m.authErr = msg.err.Error()
			return m, nil
		}
		m.authErr = ""
		m.resetAuthInputs()
		m.screen = screenFeed
		m.mode = modeBrowse
		m.pageNum = 1
		m.selected = 0
		m.updateViewportDimensions()
		return m, m.startSession()

	case likeSettledMsg:
		if m.screen != screenFeed {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("[feed ui] like toggle failed: %v", msg.err)
			m.setStatus("Like failed: "+msg.err.Error(), true)
		}
		// refetch whatever the outcome; it also rolls back a failed toggle
		return m, loadFeed(m.session, m.pageNum)

	case postCreatedMsg:
		m.submitting = false
		if m.screen != screenFeed {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("[feed ui] error creating post: %v", msg.err)
			m.setStatus("Failed to create post: "+msg.err.Error(), true)
			return m, nil
		}
		m.composer.Reset()
		m.composer.Blur()
		m.mode = modeBrowse
		m.setStatus("Post published", false)
		m.updateViewportDimensions()
		return m, loadFeed(m.session, m.pageNum)

	case commentCreatedMsg:
		m.submitting = false
		if m.screen != screenFeed {
			return m, nil
		}
		if msg.err != nil {
			// the draft stays so it can be retried
			log.Printf("[feed ui] error creating comment: %v", msg.err)
			m.setStatus("Failed to post comment: "+msg.err.Error(), true)
			return m, nil
		}
		m.closeCommentInput()
		m.commentInput.Reset()
		m.setStatus("Comment posted", false)
		return m, loadFeed(m.session, m.pageNum)

	case sessionExpiredMsg:
		m.endSession()
		m.authErr = sessionExpiredText
		return m, m.focusAuthInput(0)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.screen {
		case screenLogin, screenRegister:
			return m.updateAuth(msg)
		case screenFeed:
			return m.updateFeed(msg)
		}
	}

	return m, nil
}

// isStale reports whether a response belongs to an earlier session or
// arrived while no one is signed in.
func (m *feedUIModel) isStale(session int) bool {
	return session != m.session || m.screen != screenFeed
}

func (m *feedUIModel) busy() bool {
	return m.loading || m.authenticating || m.submitting
}

// startSession opens a signed-in session: the feed and the leaderboard load
// in parallel and the leaderboard starts its refresh timer.
func (m *feedUIModel) startSession() tea.Cmd {
	m.session++
	m.loading = true
	return tea.Batch(
		loadSnapshot(m.session, m.pageNum),
		scheduleLeaderboardTick(m.session, lib.LeaderboardRefreshInterval),
		m.spinner.Tick,
	)
}

// endSession drops everything fetched for the signed-in user. Bumping the
// session stops the leaderboard timer.
func (m *feedUIModel) endSession() {
	m.session++
	m.screen = screenLogin
	m.mode = modeBrowse
	m.page = nil
	m.pageNum = 1
	m.selected = 0
	m.leaderboard = nil
	m.loading = false
	m.submitting = false
	m.replyParent = nil
	m.commentTargets = nil
	m.commentInput.Reset()
	m.commentInput.Blur()
	m.composer.Reset()
	m.composer.Blur()
	m.status = ""
	m.updateFeedViewport()
}

func (m *feedUIModel) setPage(page *shared.PostPage) {
	if page == nil {
		return
	}
	m.page = page
	if page.Page > 0 {
		m.pageNum = page.Page
	}
	if m.selected >= len(page.Results) {
		m.selected = max(len(page.Results)-1, 0)
	}

	// an open comment selection follows the refetched comments
	if m.mode == modeSelectComment {
		var targets []shared.FlatComment
		if post := m.selectedPost(); post != nil {
			targets = shared.FlattenComments(post.Comments)
		}
		if len(targets) == 0 {
			m.mode = modeBrowse
			m.commentTargets = nil
			return
		}
		m.commentTargets = targets
		m.commentTargetIdx = min(m.commentTargetIdx, len(targets)-1)
	}
}

func (m *feedUIModel) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func (m *feedUIModel) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authenticating {
		return m, nil
	}

	inputs := m.activeInputs()

	switch {
	case bubbleKey.Matches(msg, m.keymap.switchForm):
		if m.screen == screenLogin {
			m.screen = screenRegister
		} else {
			m.screen = screenLogin
		}
		m.authErr = ""
		return m, m.focusAuthInput(0)

	case msg.Type == tea.KeyUp || msg.Type == tea.KeyShiftTab:
		if m.focusIdx > 0 {
			return m, m.focusAuthInput(m.focusIdx - 1)
		}
		return m, nil

	case msg.Type == tea.KeyDown:
		if m.focusIdx < len(inputs)-1 {
			return m, m.focusAuthInput(m.focusIdx + 1)
		}
		return m, nil

	case bubbleKey.Matches(msg, m.keymap.submit):
		if m.focusIdx < len(inputs)-1 {
			return m, m.focusAuthInput(m.focusIdx + 1)
		}
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	inputs[m.focusIdx], cmd = inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m *feedUIModel) submitAuth() tea.Cmd {
	if m.screen == screenRegister {
		params := auth.SignUpParams{
			Username: m.registerInputs[registerUsernameIdx].Value(),
			Email:    m.registerInputs[registerEmailIdx].Value(),
			Password: m.registerInputs[registerPasswordIdx].Value(),
			Confirm:  m.registerInputs[registerConfirmIdx].Value(),
		}
		// validation errors never reach the server
		err := params.Validate()
		if err != nil {
			m.authErr = err.Error()
			return nil
		}
		m.authErr = ""
		m.authenticating = true
		return tea.Batch(signUp(params), m.spinner.Tick)
	}

	username := m.loginInputs[loginUsernameIdx].Value()
	password := m.loginInputs[loginPasswordIdx].Value()
	if lib.IsBlank(username) || password == "" {
		m.authErr = "Username and password are required"
		return nil
	}

	m.authErr = ""
	m.authenticating = true
	return tea.Batch(signIn(username, password), m.spinner.Tick)
}

func (m *feedUIModel) focusAuthInput(idx int) tea.Cmd {
	inputs := m.activeInputs()
	for i := range m.loginInputs {
		m.loginInputs[i].Blur()
	}
	for i := range m.registerInputs {
		m.registerInputs[i].Blur()
	}
	if idx < 0 || idx >= len(inputs) {
		idx = 0
	}
	m.focusIdx = idx
	return inputs[idx].Focus()
}

func (m *feedUIModel) resetAuthInputs() {
	for i := range m.loginInputs {
		m.loginInputs[i].Reset()
		m.loginInputs[i].Blur()
	}
	for i := range m.registerInputs {
		m.registerInputs[i].Reset()
		m.registerInputs[i].Blur()
	}
	m.focusIdx = 0
}

func (m *feedUIModel) updateFeed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeNewPost:
		return m.updateComposer(msg)
	case modeComment, modeReply:
		return m.updateCommentInput(msg)
	case modeSelectComment:
		return m.updateSelectComment(msg)
	}

	switch {
	case bubbleKey.Matches(msg, m.keymap.quit):
		return m, tea.Quit

	case bubbleKey.Matches(msg, m.keymap.up):
		if m.selected > 0 {
			m.selected--
			m.updateFeedViewport()
		}

	case bubbleKey.Matches(msg, m.keymap.down):
		if m.page != nil && m.selected < len(m.page.Results)-1 {
			m.selected++
			m.updateFeedViewport()
		}

	case bubbleKey.Matches(msg, m.keymap.like):
		return m, m.toggleLike()

	case bubbleKey.Matches(msg, m.keymap.comment):
		if m.selectedPost() == nil {
			return m, nil
		}
		m.replyParent = nil
		m.mode = modeComment
		m.updateViewportDimensions()
		return m, m.commentInput.Focus()

	case bubbleKey.Matches(msg, m.keymap.reply):
		post := m.selectedPost()
		if post == nil {
			return m, nil
		}
		m.commentTargets = shared.FlattenComments(post.Comments)
		if len(m.commentTargets) == 0 {
			m.setStatus("No comments to reply to", false)
			return m, nil
		}
		m.commentTargetIdx = 0
		m.mode = modeSelectComment
		m.updateFeedViewport()

	case bubbleKey.Matches(msg, m.keymap.newPost):
		m.mode = modeNewPost
		m.updateViewportDimensions()
		return m, m.composer.Focus()

	case bubbleKey.Matches(msg, m.keymap.nextPage):
		if m.page.HasNext() && !m.loading {
			m.selected = 0
			m.loading = true
			return m, tea.Batch(loadFeed(m.session, m.pageNum+1), m.spinner.Tick)
		}

	case bubbleKey.Matches(msg, m.keymap.prevPage):
		if m.page.HasPrevious() && !m.loading {
			m.selected = 0
			m.loading = true
			return m, tea.Batch(loadFeed(m.session, m.pageNum-1), m.spinner.Tick)
		}

	case bubbleKey.Matches(msg, m.keymap.refresh):
		if !m.loading {
			m.loading = true
			return m, tea.Batch(loadSnapshot(m.session, m.pageNum), m.spinner.Tick)
		}

	case bubbleKey.Matches(msg, m.keymap.signOut):
		err := auth.SignOut()
		if err != nil {
			log.Printf("[feed ui] %v", err)
		}
		m.endSession()
		return m, m.focusAuthInput(0)

	default:
		var cmd tea.Cmd
		m.feedViewport, cmd = m.feedViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// toggleLike flips the selected post locally and sends the call. Presses
// while that post's toggle is pending are ignored.
func (m *feedUIModel) toggleLike() tea.Cmd {
	post := m.selectedPost()
	if post == nil {
		return nil
	}
	toggle := lib.BeginPostLikeToggle(post)
	if toggle == nil {
		return nil
	}
	m.updateFeedViewport()
	return sendLike(toggle)
}

func (m *feedUIModel) updateComposer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case bubbleKey.Matches(msg, m.keymap.cancel):
		m.composer.Blur()
		m.mode = modeBrowse
		m.updateViewportDimensions()
		return m, nil

	case bubbleKey.Matches(msg, m.keymap.submitPost):
		if m.submitting {
			return m, nil
		}
		content := m.composer.Value()
		if lib.IsBlank(content) {
			return m, nil
		}
		m.submitting = true
		return m, tea.Batch(createPost(content), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *feedUIModel) updateCommentInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case bubbleKey.Matches(msg, m.keymap.cancel):
		m.closeCommentInput()
		return m, nil

	case bubbleKey.Matches(msg, m.keymap.submit):
		if m.submitting {
			return m, nil
		}
		post := m.selectedPost()
		if post == nil {
			return m, nil
		}
		content := m.commentInput.Value()
		if lib.IsBlank(content) {
			return m, nil
		}

		var parentId *int
		if m.mode == modeReply && m.replyParent != nil {
			id := m.replyParent.Id
			parentId = &id
		}

		m.submitting = true
		return m, tea.Batch(createComment(post.Id, parentId, content), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.commentInput, cmd = m.commentInput.Update(msg)
	return m, cmd
}

func (m *feedUIModel) updateSelectComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case bubbleKey.Matches(msg, m.keymap.cancel):
		m.mode = modeBrowse
		m.commentTargets = nil
		m.updateFeedViewport()

	case bubbleKey.Matches(msg, m.keymap.up):
		if m.commentTargetIdx > 0 {
			m.commentTargetIdx--
			m.updateFeedViewport()
		}

	case bubbleKey.Matches(msg, m.keymap.down):
		if m.commentTargetIdx < len(m.commentTargets)-1 {
			m.commentTargetIdx++
			m.updateFeedViewport()
		}

	case bubbleKey.Matches(msg, m.keymap.like):
		if m.commentTargetIdx >= len(m.commentTargets) {
			return m, nil
		}
		toggle := lib.BeginCommentLikeToggle(m.commentTargets[m.commentTargetIdx].Comment)
		if toggle == nil {
			return m, nil
		}
		m.updateFeedViewport()
		return m, sendLike(toggle)

	case bubbleKey.Matches(msg, m.keymap.submit):
		if m.commentTargetIdx >= len(m.commentTargets) {
			return m, nil
		}
		m.replyParent = m.commentTargets[m.commentTargetIdx].Comment
		m.commentTargets = nil
		m.mode = modeReply
		m.updateViewportDimensions()
		return m, m.commentInput.Focus()
	}

	return m, nil
}

func (m *feedUIModel) closeCommentInput() {
	m.commentInput.Blur()
	m.mode = modeBrowse
	m.replyParent = nil
	m.updateViewportDimensions()
}

func (m *feedUIModel) windowResized(w, h int) {
	m.width = w
	m.height = h

	feedWidth, viewportHeight := m.getViewportDimensions()

	m.commentInput.Width = max(feedWidth-6, 10)
	m.composer.SetWidth(max(feedWidth-2, 10))

	if m.ready {
		m.updateViewportDimensions()
	} else {
		m.feedViewport = viewport.New(feedWidth, viewportHeight)
		m.ready = true
		m.updateFeedViewport()
	}
}

func (m *feedUIModel) updateViewportDimensions() {
	if !m.ready {
		return
	}
	w, h := m.getViewportDimensions()
	m.feedViewport.Width = w
	m.feedViewport.Height = h
	m.updateFeedViewport()
}

func (m *feedUIModel) getViewportDimensions() (int, int) {
	w := max(m.width-sidebarWidth, minFeedWidth)

	headerHeight := lipgloss.Height(m.renderHeader())
	helpHeight := lipgloss.Height(m.renderHelp())
	statusHeight := lipgloss.Height(m.renderStatus())
	inputHeight := lipgloss.Height(m.renderInput())

	h := m.height - (headerHeight + helpHeight + statusHeight + inputHeight)
	return w, max(h, 1)
}

// updateFeedViewport re-renders the feed and scrolls the selected post
// into view.
func (m *feedUIModel) updateFeedViewport() {
	if !m.ready {
		return
	}

	content, offsets := m.renderFeed()
	m.postOffsets = offsets
	m.feedViewport.SetContent(content)

	if m.selected >= len(offsets) {
		return
	}

	top := offsets[m.selected]
	bottom := lipgloss.Height(content)
	if m.selected+1 < len(offsets) {
		bottom = offsets[m.selected+1]
	}

	if top < m.feedViewport.YOffset {
		m.feedViewport.SetYOffset(top)
	} else if bottom > m.feedViewport.YOffset+m.feedViewport.Height {
		m.feedViewport.SetYOffset(min(top, bottom-m.feedViewport.Height))
	}
}
