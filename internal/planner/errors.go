package planner

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrInvalidGoal       = errors.New("invalid goal")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrProviderFailure   = errors.New("model provider failure")
	ErrMalformedResponse = errors.New("malformed model response")
	ErrPersistence       = errors.New("failed to persist plans")
)

// ErrorKind is the machine readable failure category reported to callers.
type ErrorKind string

const (
	KindRateLimited       ErrorKind = "rate_limited"
	KindProviderFailure   ErrorKind = "provider_failure"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindPersistence       ErrorKind = "persistence_failure"
	KindInvalidRequest    ErrorKind = "invalid_request"
	KindCanceled          ErrorKind = "canceled"
	KindInternal          ErrorKind = "internal_error"
)

// Classification is the caller-facing view of a generation error.
type Classification struct {
	Kind    ErrorKind
	Status  int
	Message string
}

// Classify maps an error returned by the Service to its kind, HTTP status and
// a message safe to show to members.
func Classify(err error) Classification {
	switch {
	case err == nil:
		return Classification{Status: http.StatusOK}
	case errors.Is(err, ErrInvalidGoal), errors.Is(err, ErrInvalidRequest):
		return Classification{KindInvalidRequest, http.StatusBadRequest, err.Error()}
	case errors.Is(err, ErrRateLimited):
		return Classification{KindRateLimited, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."}
	case errors.Is(err, ErrMalformedResponse):
		return Classification{KindMalformedResponse, http.StatusBadGateway, "The plan generator returned an unreadable plan. Please try again."}
	case errors.Is(err, ErrProviderFailure):
		return Classification{KindProviderFailure, http.StatusBadGateway, "Failed to generate plans. Please try again."}
	case errors.Is(err, ErrPersistence):
		return Classification{KindPersistence, http.StatusInternalServerError, "Failed to save plans. Please try again."}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Classification{KindCanceled, http.StatusServiceUnavailable, "The request was canceled."}
	default:
		return Classification{KindInternal, http.StatusInternalServerError, "Unknown error"}
	}
}
