// Package server runs the blob server transports.
//
// It owns the HTTP and gRPC listeners, starts them together, flips the gRPC
// health status and shuts both down within the configured timeout once the
// run context is cancelled.
package server
