// Package output formats authline-cli results.
//
// Three formats are supported:
//
//   - text: aligned columns for slices and structs, plain lines for strings
//   - json: indented JSON
//   - yaml: YAML via gopkg.in/yaml.v3
//
package output
