package cmd

import (
	"fmt"
	"strings"

	"playto-cli/api"
	"playto-cli/auth"
	"playto-cli/term"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var signInHost string

var signInCmd = &cobra.Command{
	Use:   "sign-in",
	Short: "Sign in to a Playto account",
	Args:  cobra.NoArgs,
	Run:   signIn,
}

var signUpCmd = &cobra.Command{
	Use:   "sign-up",
	Short: "Create a Playto account",
	Args:  cobra.NoArgs,
	Run:   signUp,
}

var signOutCmd = &cobra.Command{
	Use:   "sign-out",
	Short: "Sign out and forget stored tokens",
	Args:  cobra.NoArgs,
	Run:   signOut,
}

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the signed in account",
	Args:  cobra.NoArgs,
	Run:   current,
}

func init() {
	RootCmd.AddCommand(signInCmd)
	RootCmd.AddCommand(signUpCmd)
	RootCmd.AddCommand(signOutCmd)
	RootCmd.AddCommand(currentCmd)

	signInCmd.Flags().StringVar(&signInHost, "host", "", "API base URL to sign in to, e.g. https://playto.example.com/api")
	signInCmd.Flags().String("username", "", "Username; prompted for when omitted")
	signInCmd.Flags().String("password", "", "Password; prompted for when omitted")
	signUpCmd.Flags().StringVar(&signInHost, "host", "", "API base URL to register with")
}

func signIn(cmd *cobra.Command, args []string) {
	mustLoadSession()
	host := strings.TrimRight(signInHost, "/")

	username, err := cmd.Flags().GetString("username")
	if err != nil {
		term.OutputErrorAndExit("Error getting username: %v", err)
	}
	password, err := cmd.Flags().GetString("password")
	if err != nil {
		term.OutputErrorAndExit("Error getting password: %v", err)
	}

	if username != "" && password != "" {
		term.StartSpinner("🔐 Signing in...")
		err = auth.SignIn(username, password, host)
		term.StopSpinner()

		if err != nil {
			term.OutputErrorAndExit("Error signing in: %v", err)
		}
		fmt.Printf("✅ Signed in as %s\n", term.Author(username))
	} else {
		err = auth.PromptSignIn(host)
		if err != nil {
			term.OutputErrorAndExit("Error signing in: %v", err)
		}
	}

	fmt.Println()
	term.PrintCmds("", "feed", "post", "tui")
}

func signUp(cmd *cobra.Command, args []string) {
	mustLoadSession()

	err := auth.PromptSignUp(strings.TrimRight(signInHost, "/"))
	if err != nil {
		term.OutputErrorAndExit("Error signing up: %v", err)
	}

	fmt.Println()
	term.PrintCmds("", "feed", "post", "tui")
}

func signOut(cmd *cobra.Command, args []string) {
	mustLoadSession()

	if !auth.IsSignedIn() {
		fmt.Println("🤷‍♂️ Not signed in")
		return
	}

	username := auth.Username()

	if term.IsTerminal() {
		confirmed, err := term.ConfirmYesNo("Sign out %s?", username)
		if err != nil {
			term.OutputErrorAndExit("Error confirming: %v", err)
		}
		if !confirmed {
			return
		}
	}

	err := auth.SignOut()
	if err != nil {
		term.OutputErrorAndExit("%v", err)
	}

	fmt.Printf("👋 Signed out %s\n", term.Author(username))
}

func current(cmd *cobra.Command, args []string) {
	mustLoadSession()

	if !auth.IsSignedIn() {
		fmt.Println("🤷‍♂️ Not signed in")
		fmt.Println()
		term.PrintCmds("", "sign-in", "sign-up")
		return
	}

	fmt.Printf("👤 %s\n", term.Author(auth.Username()))
	fmt.Println(color.New(color.FgHiBlack).Sprint("🌐 " + api.GetApiHost()))
}

func mustLoadSession() {
	err := auth.LoadSession()
	if err != nil {
		term.OutputErrorAndExit("Error loading session: %v", err)
	}
}
