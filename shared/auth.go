package shared

import (
	"fmt"
	"net/http"
)

type ClientAuth struct {
	Host         string `json:"host,omitempty"`
	Username     string `json:"username"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ApiErrorType string

const (
	ApiErrorTypeInvalidToken ApiErrorType = "invalid_token"
	ApiErrorTypeNotFound     ApiErrorType = "not_found"
	ApiErrorTypeValidation   ApiErrorType = "validation"
	ApiErrorTypeOther        ApiErrorType = "other"
)

type ApiError struct {
	Type   ApiErrorType `json:"type"`
	Status int          `json:"status"`
	Msg    string       `json:"msg"`
}

func (e *ApiError) Error() string {
	if e.Status == 0 {
		return e.Msg
	}
	if e.Msg == "" {
		return fmt.Sprintf("status code %d", e.Status)
	}
	return fmt.Sprintf("status code %d: %s", e.Status, e.Msg)
}

func ApiErrorTypeForStatus(status int) ApiErrorType {
	switch status {
	case http.StatusUnauthorized:
		return ApiErrorTypeInvalidToken
	case http.StatusNotFound:
		return ApiErrorTypeNotFound
	case http.StatusBadRequest:
		return ApiErrorTypeValidation
	}
	return ApiErrorTypeOther
}
