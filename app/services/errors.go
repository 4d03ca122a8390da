package services

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

var (
	ErrInvalidID    = errors.New("invalid post id")
	ErrPostNotFound = errors.New("post not found")
	ErrServerError  = errors.New("server error")
)

// ParseID parses a post id taken from a route parameter. Anything that is
// not a non-negative integer yields ErrInvalidID.
func ParseID(raw string) (int, error) {
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return int(id), nil
}

// Resolve applies the consumer-side policy to the result of an accessor
// call: a failed call becomes ErrServerError, and a successful call that
// found nothing becomes ErrPostNotFound.
func Resolve[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServerError, err)
	}
	if v == nil {
		return nil, ErrPostNotFound
	}
	return v, nil
}

// Message returns the user-facing text for an error produced by ParseID or
// Resolve.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidID):
		return "Invalid post ID."
	case errors.Is(err, ErrPostNotFound):
		return "Post not found."
	default:
		return "Server error."
	}
}

// StatusCode returns the HTTP status matching an error produced by ParseID
// or Resolve.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrPostNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
