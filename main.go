package main

import (
	"playto-cli/api"
	"playto-cli/auth"
	"playto-cli/cmd"
	"playto-cli/lib"
	"playto-cli/term"
)

func init() {
	// inter-package dependency injection to avoid circular imports
	auth.SetApiClient(api.Client)
}

func main() {
	logger, err := lib.SetupLogging()
	if err != nil {
		term.OutputErrorAndExit("Error setting up logging: %v", err)
	}
	defer logger.Close()

	cmd.Execute()
}
