package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"playto-cli/auth"
	shared "playto-cli/shared"
)

// doJSON sends reqBody as JSON and decodes the response into respBody.
// On the authenticated client a 401 triggers one token refresh and one
// retry; a second 401 is returned as is.
func doJSON(client *http.Client, method, path string, reqBody, respBody interface{}) *shared.ApiError {
	var reqBytes []byte
	if reqBody != nil {
		var err error
		reqBytes, err = json.Marshal(reqBody)
		if err != nil {
			return &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error marshalling request: %v", err)}
		}
	}

	canRetry := client == authenticatedFastClient

	for attempt := 0; ; attempt++ {
		resBytes, apiErr := send(client, method, path, reqBytes)

		if apiErr != nil && apiErr.Status == http.StatusUnauthorized && canRetry && attempt == 0 {
			_, err := auth.RefreshAccessToken(context.Background())
			if err != nil {
				if !errors.Is(err, auth.ErrNoRefreshToken) {
					log.Printf("[api] %s %s: %v", method, path, err)
				}
				return apiErr
			}
			log.Printf("[api] retrying %s %s with refreshed token", method, path)
			continue
		}

		if apiErr != nil {
			return apiErr
		}

		if respBody == nil || len(bytes.TrimSpace(resBytes)) == 0 {
			return nil
		}

		err := json.Unmarshal(resBytes, respBody)
		if err != nil {
			return &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error decoding response: %v", err)}
		}

		return nil
	}
}

func send(client *http.Client, method, path string, reqBytes []byte) ([]byte, *shared.ApiError) {
	var body io.Reader
	if reqBytes != nil {
		body = bytes.NewReader(reqBytes)
	}

	request, err := http.NewRequest(method, GetApiHost()+path, body)
	if err != nil {
		return nil, &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error creating request: %v", err)}
	}
	request.Header.Set("Accept", "application/json")
	if reqBytes != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(request)
	if err != nil {
		return nil, &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error sending request: %v", err)}
	}
	defer resp.Body.Close()

	resBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &shared.ApiError{Type: shared.ApiErrorTypeOther, Msg: fmt.Sprintf("error reading response: %v", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, HandleApiError(resp, resBytes)
	}

	return resBytes, nil
}

// decodeList accepts either a bare JSON array or a paginated envelope.
func decodeList[T any](b []byte) ([]T, *listEnvelope, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil, nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		err := json.Unmarshal(trimmed, &items)
		return items, nil, err
	}

	var envelope struct {
		listEnvelope
		Results []T `json:"results"`
	}
	err := json.Unmarshal(trimmed, &envelope)
	if err != nil {
		return nil, nil, err
	}
	return envelope.Results, &envelope.listEnvelope, nil
}

type listEnvelope struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}
