package auth

import (
	"net/http"

	"playto-cli/types"
)

var apiClient types.ApiClient

func SetApiClient(client types.ApiClient) {
	apiClient = client
}

// SetAuthHeader adds the bearer token when one is stored; signed-out
// requests go out without Authorization.
func SetAuthHeader(req *http.Request) bool {
	token := AccessToken()
	if token == "" {
		req.Header.Del("Authorization")
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return true
}
