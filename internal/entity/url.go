// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL, the ClickEvent
// struct recorded on every redirect, and the aggregated ClickStats.
package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when the original URL is empty or is not an http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidCustomCode is returned when a custom short code does not match the allowed format.
	ErrInvalidCustomCode = errors.New("invalid custom code")
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLUnreachable is returned when the original URL did not pass the reachability probe.
	ErrURLUnreachable = errors.New("url unreachable")
)

// UnreachableError describes why the reachability probe rejected a URL.
// It matches ErrURLUnreachable with errors.Is.
type UnreachableError struct {
	URL    string
	Reason string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrURLUnreachable, e.Reason)
}

func (e *UnreachableError) Unwrap() error {
	return ErrURLUnreachable
}

// URL represents a shortened URL.
type URL struct {
	ShortCode   string // ShortCode is the unique key the original URL is stored under.
	OriginalURL string // OriginalURL is the full URL that the short code resolves to.
	CreatedAt   int64  // CreatedAt is the creation time in epoch seconds.
	ClickCount  int64  // ClickCount is the number of successful redirects.
}
