// Package singleinstance gives a resident process ownership of a loopback
// TCP endpoint and lets one-shot invocations delegate capture requests to
// it instead of racing for the screen.
package singleinstance

import (
	"context"

	"github.com/McoreD/XerahS-Claude/geom"
)

// Server owns the TCP endpoint and answers delegated capture requests.
type Server interface {
	// Start binds the first port of the configured range and begins
	// accepting clients. A bind failure means another instance owns it.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one client connection awaiting a capture result.
type Conn interface {
	// Request returns the parsed client request.
	Request() Request
	// RespondResult sends the selected region and, when the client asked
	// for it, the encoded PNG of that region.
	RespondResult(res Result) error
	// RespondError sends an error with a human-readable message.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Request is a single delegated capture request.
type Request struct {
	// WantImage asks for the PNG bytes in addition to the region.
	WantImage bool
}

// Result is what the resident sends back after running a capture.
type Result struct {
	Region    geom.Rect `json:"region"`
	Cancelled bool      `json:"cancelled"`
	PNG       []byte    `json:"-"`
}

// Client delegates a one-shot invocation to a resident server.
type Client interface {
	// TryCapture scans the configured port range for a resident and asks
	// it to run a capture. If no resident is found, delegated is false
	// with a nil error.
	TryCapture(ctx context.Context, wantImage bool) (delegated bool, res Result, err error)
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTCPServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTCPClient() }
