package term

import (
	"fmt"
	"os"
	"strings"

	"github.com/cqroot/prompt"
	"github.com/cqroot/prompt/input"
	"github.com/eiannone/keyboard"
	"github.com/fatih/color"
)

// GetRequiredUserStringInput asks until the answer has non-whitespace text.
func GetRequiredUserStringInput(msg string) (string, error) {
	for {
		res, err := GetUserStringInput(msg)
		if err != nil {
			return "", fmt.Errorf("failed to get user input: %v", err)
		}
		if strings.TrimSpace(res) != "" {
			return res, nil
		}
		color.New(color.Bold, ColorHiRed).Println("🚨 This field can't be empty")
	}
}

func GetUserStringInput(msg string) (string, error) {
	res, err := prompt.New().Ask(msg).Input("")
	exitIfQuit(err)
	return res, err
}

func GetUserPasswordInput(msg string) (string, error) {
	res, err := prompt.New().Ask(msg).Input("", input.WithEchoMode(input.EchoPassword))
	exitIfQuit(err)
	return res, err
}

// ctrl+c in a prompt ends the command without an error
func exitIfQuit(err error) {
	if err != nil && err.Error() == "user quit prompt" {
		os.Exit(0)
	}
}

func GetUserKeyInput() (rune, error) {
	if err := keyboard.Open(); err != nil {
		return 0, fmt.Errorf("failed to open keyboard: %v", err)
	}
	defer keyboard.Close()

	char, key, err := keyboard.GetKey()
	if err != nil {
		return 0, fmt.Errorf("failed to read keypress: %v", err)
	}
	if key == keyboard.KeyCtrlC || key == keyboard.KeyEsc {
		fmt.Println()
		os.Exit(0)
	}

	return char, nil
}

// ConfirmYesNo reads a single y or n keypress, asking again on anything else.
func ConfirmYesNo(fmtStr string, fmtArgs ...interface{}) (bool, error) {
	question := color.New(ColorHiMagenta, color.Bold)

	for {
		question.Printf(fmtStr+" (y)es | (n)o", fmtArgs...)
		question.Print("> ")

		char, err := GetUserKeyInput()
		if err != nil {
			return false, err
		}
		fmt.Println(string(char))

		switch char {
		case 'y', 'Y':
			return true, nil
		case 'n', 'N':
			return false, nil
		}

		color.New(ColorHiRed, color.Bold).Print("\nPress 'y' or 'n'.\n\n")
	}
}
