// Package cache notifies downstream caches when a user's prescription changes.
package cache

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Invalidator defines a cache invalidation contract.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// NoopInvalidator is a no-op implementation.
type NoopInvalidator struct{}

// Invalidate performs no action.
func (NoopInvalidator) Invalidate(context.Context, string) error { return nil }

const (
	defaultRetryCount   = 2
	defaultRetryWait    = 200 * time.Millisecond
	defaultRetryMaxWait = time.Second
)

// HTTPInvalidator calls an upstream edge cache invalidation endpoint.
type HTTPInvalidator struct {
	client *resty.Client
}

// NewHTTPInvalidator constructs an HTTPInvalidator. Server errors are retried; client errors are not.
func NewHTTPInvalidator(endpoint, token string, timeout time.Duration) *HTTPInvalidator {
	client := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetTimeout(timeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})
	if token != "" {
		client.SetAuthToken(token)
	}
	return &HTTPInvalidator{client: client}
}

type invalidationRequest struct {
	UserID string `json:"user_id"`
	Scope  string `json:"scope"`
}

// Invalidate posts the user identifier whose cached prescription must be dropped.
func (h *HTTPInvalidator) Invalidate(ctx context.Context, userID string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(invalidationRequest{UserID: userID, Scope: "prescription"}).
		Post("")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return &InvalidationError{Status: resp.StatusCode()}
	}
	return nil
}

// InvalidationError represents a non-successful invalidation response.
type InvalidationError struct {
	Status int
}

func (e *InvalidationError) Error() string {
	return "cache invalidation failed with status " + http.StatusText(e.Status)
}
