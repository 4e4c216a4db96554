// Package http implements the HTTP transport of the blob server.
//
// It exposes route wiring, request handlers, and middleware for the REST
// API. Authentication, request tracing, access logging, metrics, response
// compression and checksum verification are handled here before requests
// reach the service layer. Blobs are passed through as opaque bytes.
package http
