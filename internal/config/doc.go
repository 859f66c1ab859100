// Package config provides configuration loading, merging, and validation
// facilities for the dev-profiles server.
//
// Configuration is assembled from multiple sources in the following priority
// order (a field set by an earlier source is never overwritten):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry point is [GetStructuredConfig].
package config
