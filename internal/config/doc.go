// Package config provides configuration loading, merging, and validation
// facilities for the engine and its CLI.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults ([DefaultConfig])
//  2. JSON config file
//  3. Environment variables
//  4. Command-line flags
//
// The main entry point is [GetStructuredConfig].
package config
