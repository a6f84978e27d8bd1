// Package api provides the HTTP API server for generating suggestions and
// managing chats.
package api

import "time"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// RequestTimeout bounds a single suggestion run. Zero means no bound
	// beyond the client connection.
	RequestTimeout time.Duration
}
