package term

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/plandex-ai/survey/v2"
)

// SelectIndexFromList returns the index of the chosen option.
func SelectIndexFromList(msg string, options []string) (int, error) {
	var selected int
	prompt := &survey.Select{
		Message:  color.New(ColorHiMagenta, color.Bold).Sprint(msg),
		Options:  options,
		PageSize: 10,
	}
	err := survey.AskOne(prompt, &selected)
	if err != nil {
		if err.Error() == "interrupt" {
			os.Exit(0)
		}

		return -1, fmt.Errorf("error selecting: %v", err)
	}

	return selected, nil
}
