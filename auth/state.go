package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"playto-cli/fs"
	shared "playto-cli/shared"
)

var (
	mu      sync.RWMutex
	current *shared.ClientAuth

	// set while signing in to a host other than the stored one
	signInHost string
)

// LoadSession reads auth.json. A missing file leaves the client signed out.
func LoadSession() error {
	bytes, err := os.ReadFile(fs.HomeAuthPath)
	if err != nil {
		if os.IsNotExist(err) {
			mu.Lock()
			current = nil
			mu.Unlock()
			return nil
		}
		return fmt.Errorf("error reading auth.json: %v", err)
	}

	var auth shared.ClientAuth
	err = json.Unmarshal(bytes, &auth)
	if err != nil {
		return fmt.Errorf("error unmarshalling auth.json: %v", err)
	}

	mu.Lock()
	current = &auth
	mu.Unlock()

	return nil
}

// Session returns a copy of the current session, or nil when signed out.
func Session() *shared.ClientAuth {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return nil
	}
	cp := *current
	return &cp
}

func IsSignedIn() bool {
	mu.RLock()
	defer mu.RUnlock()
	return current != nil && current.AccessToken != ""
}

func Username() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.Username
}

func Host() string {
	mu.RLock()
	defer mu.RUnlock()
	if signInHost != "" {
		return signInHost
	}
	if current == nil {
		return ""
	}
	return current.Host
}

func AccessToken() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.AccessToken
}

func RefreshToken() string {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return ""
	}
	return current.RefreshToken
}

func SetSession(auth *shared.ClientAuth) error {
	cp := *auth

	mu.Lock()
	current = &cp
	mu.Unlock()

	return writeSession(&cp)
}

// ClearSession forgets both tokens and the username.
func ClearSession() error {
	mu.Lock()
	current = nil
	mu.Unlock()

	err := os.Remove(fs.HomeAuthPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing auth.json: %v", err)
	}
	return nil
}

// updateTokens swaps in refreshed tokens. An empty refresh token keeps the
// stored one.
func updateTokens(access, refresh string) error {
	mu.Lock()
	if current == nil {
		mu.Unlock()
		return fmt.Errorf("error updating tokens: auth not loaded")
	}
	current.AccessToken = access
	if refresh != "" {
		current.RefreshToken = refresh
	}
	cp := *current
	mu.Unlock()

	return writeSession(&cp)
}

func writeSession(auth *shared.ClientAuth) error {
	err := fs.EnsureHomeDir()
	if err != nil {
		return err
	}

	bytes, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("error marshalling auth: %v", err)
	}

	err = os.WriteFile(fs.HomeAuthPath, bytes, 0600)
	if err != nil {
		return fmt.Errorf("error writing auth: %v", err)
	}

	return nil
}

func setSignInHost(host string) {
	mu.Lock()
	signInHost = host
	mu.Unlock()
}
