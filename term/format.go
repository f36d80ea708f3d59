package term

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glow/utils"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

func GetMarkdown(input string) (string, error) {
	width := GetTerminalWidth()

	inputBytes := utils.RemoveFrontmatter([]byte(input))

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width, 80)),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", err
	}

	out, err := r.RenderBytes(inputBytes)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

// GetPlain wraps and indents text for list output.
func GetPlain(input string, indent int) string {
	width := GetTerminalWidth()

	pad := strings.Repeat(" ", indent)
	s := wordwrap.String(input, max(min(width-indent, 80), 20))

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	s = strings.Join(lines, "\n")

	c := "234"
	if IsDarkBg {
		c = "251"
	}

	return termenv.String(s).Foreground(termenv.ANSI256.Color(c)).String()
}

// Excerpt cuts text to a single line of at most width cells.
func Excerpt(input string, width int) string {
	line := strings.Join(strings.Fields(input), " ")
	return truncate.StringWithTail(line, uint(width), "…")
}
