// Package config defines the filedrop-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values and the environment bindings
//   - verify.go: validation run before anything starts
//   - sanitize.go: a copy safe to log
//
// Values are loaded through internal/infra/confloader.
package config
