package feedtui

import (
	"fmt"
	"strings"

	"playto-cli/auth"
	"playto-cli/format"
	"playto-cli/lib"
	shared "playto-cli/shared"

	bubbleKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 30
	minFeedWidth = 30
)

var borderColor = lipgloss.Color("#444")
var helpTextColor = lipgloss.Color("#ddd")
var mutedColor = lipgloss.Color("#888")
var accentColor = lipgloss.Color("#2563eb")
var likedColor = lipgloss.Color("#e11d48")
var errorColor = lipgloss.Color("#f87171")

func (m *feedUIModel) View() string {
	if m.screen != screenFeed {
		return m.renderAuth()
	}

	if !m.ready {
		return m.spinner.View() + " Loading..."
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.feedViewport.View(),
		m.renderSidebar(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		main,
		m.renderInput(),
		m.renderStatus(),
		m.renderHelp(),
	)
}

func (m *feedUIModel) renderHeader() string {
	style := lipgloss.NewStyle().Width(max(m.width, 1)).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(borderColor)

	brand := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render(" P  Playto Feed")

	var page string
	if m.page != nil {
		page = lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("  page %d", m.pageNum))
	}

	user := lipgloss.NewStyle().Bold(true).Render("👤 " + m.currentUsername())

	gap := max(m.width-lipgloss.Width(brand)-lipgloss.Width(page)-lipgloss.Width(user)-1, 1)

	return style.Render(brand + page + strings.Repeat(" ", gap) + user)
}

func (m *feedUIModel) currentUsername() string {
	return auth.Username()
}

func (m *feedUIModel) renderHelp() string {
	style := lipgloss.NewStyle().Width(max(m.width, 1)).Foreground(helpTextColor).BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(borderColor)

	var bindings []bubbleKey.Binding
	switch m.mode {
	case modeNewPost:
		bindings = []bubbleKey.Binding{m.keymap.submitPost, m.keymap.cancel}
	case modeComment, modeReply:
		bindings = []bubbleKey.Binding{m.keymap.submit, m.keymap.cancel}
	case modeSelectComment:
		bindings = []bubbleKey.Binding{m.keymap.up, m.keymap.down, m.keymap.like, m.keymap.submit, m.keymap.cancel}
	default:
		bindings = []bubbleKey.Binding{
			m.keymap.up, m.keymap.down, m.keymap.like, m.keymap.comment, m.keymap.reply,
			m.keymap.newPost, m.keymap.prevPage, m.keymap.nextPage, m.keymap.refresh,
			m.keymap.signOut, m.keymap.quit,
		}
	}

	return style.Render(" " + helpText(bindings))
}

func helpText(bindings []bubbleKey.Binding) string {
	var parts []string
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, fmt.Sprintf("(%s) %s", help.Key, help.Desc))
	}
	return strings.Join(parts, " | ")
}

func (m *feedUIModel) renderStatus() string {
	style := lipgloss.NewStyle().Width(max(m.width, 1)).Padding(0, 1)

	switch {
	case m.loading && auth.IsRefreshing():
		return style.Render(m.spinner.View() + " Refreshing session...")
	case m.loading:
		return style.Render(m.spinner.View() + " Loading...")
	case m.submitting:
		return style.Render(m.spinner.View() + " Posting...")
	case m.status != "" && m.statusErr:
		return style.Foreground(errorColor).Render("🚨 " + m.status)
	case m.status != "":
		return style.Foreground(mutedColor).Render("✅ " + m.status)
	}

	return style.Render("")
}

func (m *feedUIModel) renderInput() string {
	style := lipgloss.NewStyle().Width(max(m.width, 1)).BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(borderColor).Padding(0, 1)
	label := lipgloss.NewStyle().Bold(true).Foreground(mutedColor)

	switch m.mode {
	case modeNewPost:
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			label.Render("POST TECHNICAL UPDATE"),
			m.composer.View(),
		))

	case modeComment, modeReply:
		title := "Comment"
		if post := m.selectedPost(); post != nil {
			title = fmt.Sprintf("Comment on %s's post", post.Author)
		}
		if m.mode == modeReply && m.replyParent != nil {
			title = fmt.Sprintf("Reply to %s", m.replyParent.Author)
		}
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			label.Render(title),
			m.commentInput.View(),
		))
	}

	return ""
}

// renderFeed renders every post on the page and returns the line offset at
// which each post starts.
func (m *feedUIModel) renderFeed() (string, []int) {
	if m.page == nil {
		return "", nil
	}

	if len(m.page.Results) == 0 {
		empty := lipgloss.NewStyle().Foreground(mutedColor).Padding(1, 2)
		return empty.Render("No posts yet. Be the first to share!"), nil
	}

	width := max(m.feedViewport.Width, minFeedWidth)

	var blocks []string
	var offsets []int
	line := 0
	for i, post := range m.page.Results {
		block := m.renderPost(post, i == m.selected, width)
		offsets = append(offsets, line)
		line += lipgloss.Height(block)
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n"), offsets
}

func (m *feedUIModel) renderPost(post *shared.Post, selected bool, width int) string {
	style := lipgloss.NewStyle().Width(width-2).Padding(0, 1).MarginBottom(1).
		BorderStyle(lipgloss.ThickBorder()).BorderLeft(true).BorderForeground(borderColor)
	if selected {
		style = style.BorderForeground(accentColor)
	}

	avatar := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff")).Background(accentColor).Render(" " + shared.Initials(post.Author) + " ")
	author := lipgloss.NewStyle().Bold(true).Render(post.Author)
	when := lipgloss.NewStyle().Foreground(mutedColor).Render(format.Time(post.CreatedAt))

	lines := []string{
		avatar + " " + author + "  " + when,
		post.Content,
		renderLike(post.IsLiked, post.LikeCount, lib.IsTogglePending(lib.LikeTarget{Kind: lib.LikeKindPost, Id: post.Id})) +
			"   💬 " + fmt.Sprint(post.CommentCount),
	}

	if selected {
		lines = append(lines, m.renderComments(post)...)
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (m *feedUIModel) renderComments(post *shared.Post) []string {
	flat := shared.FlattenComments(post.Comments)
	if len(flat) == 0 {
		return nil
	}

	var lines []string
	for i, c := range flat {
		indent := strings.Repeat("  ", c.Depth)
		marker := "•"
		if c.IsReply() {
			marker = "└"
		}
		pending := lib.IsTogglePending(lib.LikeTarget{Kind: lib.LikeKindComment, Id: c.Id})
		text := fmt.Sprintf("%s%s %s %s  %s", indent, marker,
			lipgloss.NewStyle().Bold(true).Render(c.Author),
			c.Content,
			renderLike(c.IsLiked, c.LikeCount, pending),
		)

		if m.mode == modeSelectComment && i == m.commentTargetIdx {
			text = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render("▶ ") + text
		} else {
			text = "  " + text
		}
		lines = append(lines, text)
	}
	return lines
}

func renderLike(liked bool, count int, pending bool) string {
	heart := lipgloss.NewStyle().Foreground(mutedColor).Render("♡")
	if liked {
		heart = lipgloss.NewStyle().Foreground(likedColor).Render("♥")
	}
	res := fmt.Sprintf("%s %d", heart, count)
	if pending {
		res = lipgloss.NewStyle().Faint(true).Render(res)
	}
	return res
}

func (m *feedUIModel) renderSidebar() string {
	style := lipgloss.NewStyle().Width(sidebarWidth-2).Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).BorderForeground(borderColor)

	title := lipgloss.NewStyle().Bold(true).Render("🏆 Top 5 Users")
	badge := lipgloss.NewStyle().Foreground(mutedColor).Render("24H")

	lines := []string{title + "  " + badge, ""}

	if len(m.leaderboard) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(mutedColor).Render("No activity yet"))
	}

	for i, entry := range m.leaderboard {
		rank := lipgloss.NewStyle().Bold(true)
		if i < 3 {
			rank = rank.Foreground(lipgloss.Color("#f59e0b"))
		}
		karma := lipgloss.NewStyle().Foreground(mutedColor).Render(entry.Karma.String() + " karma")
		lines = append(lines, fmt.Sprintf("%s %s", rank.Render(fmt.Sprintf("%d.", i+1)), entry.Username))
		lines = append(lines, "   "+karma)
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (m *feedUIModel) renderAuth() string {
	card := lipgloss.NewStyle().Width(44).Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).BorderForeground(accentColor)
	label := lipgloss.NewStyle().Foreground(mutedColor)

	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("🛡  Playto Community")

	var labels []string
	var switchText, busyText string
	if m.screen == screenRegister {
		labels = []string{"Username", "Email", "Password", "Confirm"}
		switchText = "Have an account? Sign in"
		busyText = "Creating..."
	} else {
		labels = []string{"Username", "Password"}
		switchText = "New? Create an account"
		busyText = "Syncing..."
	}

	lines := []string{title, ""}
	for i, input := range m.activeInputs() {
		lines = append(lines, label.Render(labels[i]), input.View(), "")
	}

	if m.authenticating {
		lines = append(lines, m.spinner.View()+" "+busyText)
	} else if m.authErr != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(errorColor).Width(40).Render(m.authErr))
	}

	lines = append(lines, "", label.Render("(tab) "+switchText+" | (enter) submit"))

	content := card.Render(strings.Join(lines, "\n"))

	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
