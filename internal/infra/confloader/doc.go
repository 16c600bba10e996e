// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader on top of koanf:
//
//   - loader.go: YAML file, prefixed env vars, single env bindings
//     (AUTH_TOKEN) and overrides, unmarshaled into typed structs
//   - watcher.go: fsnotify watch on the config file for hot reload
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Bound environment variables (AUTH_TOKEN)
//  3. AUTHLINE_* environment variables
//  4. Configuration file
//  5. Defaults already present in the target struct
package confloader
