package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"

	shared "playto-cli/shared"

	"github.com/davecgh/go-spew/spew"
)

// Field errors are reported in this order before any other field.
var fieldPriority = []string{"username", "email", "password", "content", "post", "parent", "non_field_errors"}

func HandleApiError(r *http.Response, errBody []byte) *shared.ApiError {
	apiErr := &shared.ApiError{
		Type:   shared.ApiErrorTypeForStatus(r.StatusCode),
		Status: r.StatusCode,
		Msg:    strings.TrimSpace(string(errBody)),
	}

	if !maybeJSON(errBody) {
		return apiErr
	}

	var body interface{}
	if err := json.Unmarshal(errBody, &body); err != nil {
		log.Printf("Error unmarshalling JSON: %v\n", err)
		return apiErr
	}

	if os.Getenv("PLAYTO_DEBUG") != "" {
		path := ""
		if r.Request != nil {
			path = r.Request.URL.Path
		}
		log.Printf("[api] error body for %s %d:\n%s", path, r.StatusCode, spew.Sdump(body))
	}

	if msg := errorMessage(body); msg != "" {
		apiErr.Msg = msg
	}

	return apiErr
}

// errorMessage pulls a human readable message out of a DRF style error
// body: detail first, then the first message of the first field error.
func errorMessage(body interface{}) string {
	switch v := body.(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			return errorMessage(v[0])
		}
	case map[string]interface{}:
		if detail, ok := v["detail"]; ok {
			if msg := errorMessage(detail); msg != "" {
				return msg
			}
		}

		for _, field := range fieldPriority {
			if fieldErr, ok := v[field]; ok {
				if msg := errorMessage(fieldErr); msg != "" {
					return fieldMessage(field, msg)
				}
			}
		}

		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := errorMessage(v[k]); msg != "" {
				return fieldMessage(k, msg)
			}
		}
	}
	return ""
}

func fieldMessage(field, msg string) string {
	if field == "non_field_errors" || strings.Contains(strings.ToLower(msg), field) {
		return msg
	}
	return fmt.Sprintf("%s: %s", field, msg)
}

func maybeJSON(b []byte) bool {
	s := strings.TrimSpace(string(b))
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, `"`)
}
