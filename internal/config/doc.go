// Package config provides configuration loading, merging, and validation
// facilities for the vault CLI and the blob server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. JSON or YAML config file
//  3. .env file and environment variables
//  4. Command-line flags (server only)
//
// The main entry points are [GetServerConfig] and [GetCLIConfig].
package config
