package auth

import (
	"errors"
	"fmt"
	"strings"

	shared "playto-cli/shared"
	"playto-cli/term"
)

var ErrRegistrationUnavailable = errors.New("registration endpoint not available on server (404). Please enable user registration on the backend or create users via admin")

type SignUpParams struct {
	Username string
	Email    string
	Password string
	Confirm  string
}

func (p SignUpParams) Validate() error {
	if strings.TrimSpace(p.Username) == "" || strings.TrimSpace(p.Email) == "" || p.Password == "" {
		return errors.New("username, email and password are required")
	}
	if p.Password != p.Confirm {
		return errors.New("passwords do not match")
	}
	return nil
}

// MustResolveAuth loads the stored session, prompting for credentials when
// there is none.
func MustResolveAuth() {
	if apiClient == nil {
		term.OutputErrorAndExit("error resolving auth: api client not set")
	}

	err := LoadSession()
	if err != nil {
		term.OutputErrorAndExit("error resolving auth: %v", err)
	}

	if IsSignedIn() {
		return
	}

	fmt.Println("🔒 You're not signed in")
	err = PromptSignIn("")
	if err != nil {
		term.OutputErrorAndExit("error signing in: %v", err)
	}
}

func PromptSignIn(host string) error {
	username, err := term.GetRequiredUserStringInput("Username:")
	if err != nil {
		return fmt.Errorf("error prompting username: %v", err)
	}

	password, err := term.GetUserPasswordInput("Password:")
	if err != nil {
		return fmt.Errorf("error prompting password: %v", err)
	}

	term.StartSpinner("🔐 Signing in...")
	err = SignIn(username, password, host)
	term.StopSpinner()

	if err != nil {
		return err
	}

	fmt.Printf("✅ Signed in as %s\n", term.Author(username))
	return nil
}

func PromptSignUp(host string) error {
	var params SignUpParams
	var err error

	params.Username, err = term.GetRequiredUserStringInput("Username:")
	if err != nil {
		return fmt.Errorf("error prompting username: %v", err)
	}
	params.Email, err = term.GetRequiredUserStringInput("Email:")
	if err != nil {
		return fmt.Errorf("error prompting email: %v", err)
	}
	params.Password, err = term.GetUserPasswordInput("Password:")
	if err != nil {
		return fmt.Errorf("error prompting password: %v", err)
	}
	params.Confirm, err = term.GetUserPasswordInput("Confirm password:")
	if err != nil {
		return fmt.Errorf("error prompting password: %v", err)
	}

	term.StartSpinner("✨ Creating account...")
	err = SignUp(params, host)
	term.StopSpinner()

	if err != nil {
		return err
	}

	fmt.Printf("✅ Account created. Signed in as %s\n", term.Author(params.Username))
	return nil
}

func SignIn(username, password, host string) error {
	if apiClient == nil {
		return fmt.Errorf("error signing in: api client not set")
	}

	if host != "" {
		setSignInHost(host)
		defer setSignInHost("")
	}

	res, apiErr := apiClient.Login(shared.TokenRequest{Username: username, Password: password})
	if apiErr != nil {
		msg := apiErr.Msg
		if msg == "" {
			msg = "invalid credentials"
		}
		return fmt.Errorf("login failed: %s", msg)
	}

	err := SetSession(&shared.ClientAuth{
		Host:         host,
		Username:     username,
		AccessToken:  res.Access,
		RefreshToken: res.Refresh,
	})
	if err != nil {
		return fmt.Errorf("error storing session: %v", err)
	}

	return nil
}

// SignUp registers then signs in with the same credentials.
func SignUp(params SignUpParams, host string) error {
	err := params.Validate()
	if err != nil {
		return err
	}

	if apiClient == nil {
		return fmt.Errorf("error signing up: api client not set")
	}

	if host != "" {
		setSignInHost(host)
		defer setSignInHost("")
	}

	_, apiErr := apiClient.Register(shared.RegisterRequest{
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
	})
	if apiErr != nil {
		if apiErr.Type == shared.ApiErrorTypeNotFound {
			return ErrRegistrationUnavailable
		}
		msg := apiErr.Msg
		if msg == "" {
			msg = "registration failed"
		}
		return fmt.Errorf("registration failed: %s", msg)
	}

	return SignIn(params.Username, params.Password, host)
}

func SignOut() error {
	err := ClearSession()
	if err != nil {
		return fmt.Errorf("error signing out: %v", err)
	}
	return nil
}
