package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	shared "playto-cli/shared"
)

// Access tokens expiring within this window are refreshed before use.
const RefreshThreshold = 60 * time.Second

var ErrNoRefreshToken = errors.New("no refresh token")

var now = time.Now

var onSessionExpired func()

// SetSessionExpiredFn registers a hook that runs after a rejected refresh
// has cleared the session, before waiting callers are released. It must
// not block.
func SetSessionExpiredFn(fn func()) {
	refreshMu.Lock()
	defer refreshMu.Unlock()
	onSessionExpired = fn
}

type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// At most one refresh exchange runs at a time. inflight is nil unless an
// exchange is running; its done channel closes after the new tokens are
// stored and inflight is reset.
var (
	refreshMu sync.Mutex
	inflight  *refreshCall
)

// RefreshAccessToken exchanges the stored refresh token for a new access
// token. Callers arriving while an exchange is running join it and all
// receive its result.
func RefreshAccessToken(ctx context.Context) (string, error) {
	refreshMu.Lock()
	call := inflight
	if call == nil {
		refreshToken := RefreshToken()
		if refreshToken == "" {
			refreshMu.Unlock()
			return "", ErrNoRefreshToken
		}

		call = &refreshCall{done: make(chan struct{})}
		inflight = call
		go runRefresh(call, refreshToken)
	}
	refreshMu.Unlock()

	select {
	case <-call.done:
		return call.token, call.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// AwaitRefresh blocks while a refresh exchange is in flight. Its outcome is
// not reported; the caller reads whatever token is stored afterwards.
func AwaitRefresh(ctx context.Context) error {
	refreshMu.Lock()
	call := inflight
	refreshMu.Unlock()

	if call == nil {
		return nil
	}

	select {
	case <-call.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRefreshing reports whether an exchange is in flight.
func IsRefreshing() bool {
	refreshMu.Lock()
	defer refreshMu.Unlock()
	return inflight != nil
}

// EnsureValidAccessToken refreshes ahead of expiry. Tokens without a
// readable exp claim are used as they are. Failures are logged only: a
// rejected refresh has already signed the user out and the request will
// surface its own 401.
func EnsureValidAccessToken(ctx context.Context) {
	err := AwaitRefresh(ctx)
	if err != nil {
		return
	}

	token := AccessToken()
	if token == "" {
		return
	}

	exp, ok := TokenExpiry(token)
	if !ok {
		return
	}

	if exp.Sub(now()) >= RefreshThreshold {
		return
	}

	log.Printf("[auth] access token expires at %s, refreshing", exp.Format(time.RFC3339))

	_, err = RefreshAccessToken(ctx)
	if err != nil {
		log.Printf("[auth] proactive refresh failed: %v", err)
	}
}

func runRefresh(call *refreshCall, refreshToken string) {
	var expired bool

	defer func() {
		refreshMu.Lock()
		inflight = nil
		hook := onSessionExpired
		refreshMu.Unlock()

		if expired && hook != nil {
			hook()
		}

		close(call.done)
	}()

	if apiClient == nil {
		call.err = fmt.Errorf("error refreshing token: api client not set")
		return
	}

	log.Println("[auth] refreshing access token")

	res, apiErr := apiClient.RefreshToken(shared.RefreshTokenRequest{Refresh: refreshToken})
	if apiErr != nil {
		call.err = fmt.Errorf("error refreshing token: %w", apiErr)

		if refreshRejected(apiErr) {
			log.Printf("[auth] refresh token rejected, signing out: %v", apiErr)
			err := ClearSession()
			if err != nil {
				log.Printf("[auth] error clearing session: %v", err)
			}
			expired = true
		}
		return
	}

	if res.Access == "" {
		call.err = fmt.Errorf("error refreshing token: response has no access token")
		return
	}

	err := updateTokens(res.Access, res.Refresh)
	if err != nil {
		// the new token is live in memory even if persisting it failed
		log.Printf("[auth] error storing refreshed token: %v", err)
	}

	call.token = res.Access
}

// Transport failures leave the session alone; only an explicit rejection
// of the refresh token signs the user out.
func refreshRejected(apiErr *shared.ApiError) bool {
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest
}
