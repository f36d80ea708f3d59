package api

import (
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"playto-cli/auth"
	"playto-cli/types"

	"github.com/google/uuid"
)

const dialTimeout = 10 * time.Second
const fastReqTimeout = 30 * time.Second

const developmentApiHost = "http://localhost:8088"
const defaultApiHost = "http://localhost:8000/api"

type Api struct{}

var Client types.ApiClient = (*Api)(nil)

// DefaultApiHost is used when the stored session has no host of its own.
var DefaultApiHost string

func init() {
	if host := os.Getenv("PLAYTO_API_BASE_URL"); host != "" {
		DefaultApiHost = strings.TrimRight(host, "/")
	} else if os.Getenv("PLAYTO_ENV") == "development" {
		DefaultApiHost = developmentApiHost
	} else {
		DefaultApiHost = defaultApiHost
	}
}

func GetApiHost() string {
	if host := auth.Host(); host != "" {
		return strings.TrimRight(host, "/")
	}
	return DefaultApiHost
}

// authenticatedTransport waits out any in-flight token refresh, refreshes
// a nearly expired access token, then sends the request with the current
// bearer token.
type authenticatedTransport struct {
	underlyingTransport http.RoundTripper
}

func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	auth.EnsureValidAccessToken(req.Context())

	req = req.Clone(req.Context())
	hasAuth := auth.SetAuthHeader(req)
	requestId := setRequestId(req)

	log.Printf("[api] request %s %s auth=%t id=%s", req.Method, req.URL.Path, hasAuth, requestId)

	return t.underlyingTransport.RoundTrip(req)
}

type unauthenticatedTransport struct {
	underlyingTransport http.RoundTripper
}

func (t *unauthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Del("Authorization")
	requestId := setRequestId(req)

	log.Printf("[api] request %s %s auth=false id=%s", req.Method, req.URL.Path, requestId)

	return t.underlyingTransport.RoundTrip(req)
}

func setRequestId(req *http.Request) string {
	requestId := req.Header.Get("X-Request-Id")
	if requestId == "" {
		requestId = uuid.NewString()
		req.Header.Set("X-Request-Id", requestId)
	}
	return requestId
}

var netDialer = &net.Dialer{
	Timeout: dialTimeout,
}

var unauthenticatedClient = &http.Client{
	Transport: &unauthenticatedTransport{
		underlyingTransport: &http.Transport{
			DialContext: netDialer.DialContext,
		},
	},
	Timeout: fastReqTimeout,
}

var authenticatedFastClient = &http.Client{
	Transport: &authenticatedTransport{
		underlyingTransport: &http.Transport{
			DialContext: netDialer.DialContext,
		},
	},
	Timeout: fastReqTimeout,
}
