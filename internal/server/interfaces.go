package server

import "context"

// Server defines the lifecycle contract of the blob server.
type Server interface {
	// Run serves until ctx is done or a listener fails. A listener failure
	// is returned after the remaining transports are shut down.
	Run(ctx context.Context) error

	// Shutdown gracefully stops every transport and frees its listener.
	Shutdown()
}
