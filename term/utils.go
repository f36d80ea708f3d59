package term

import (
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/term"
)

const defaultTerminalWidth = 80

func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func GetDivisionLine() string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		log.Println("Error fetching terminal size:", err)
		width = 50
	}
	return strings.Repeat("─", width)
}

func ClearScreen() {
	fmt.Print("\x1b[2J")
}

func MoveCursorToTopLeft() {
	fmt.Print("\x1b[H")
}
