// Package config loads the optional filedrop-cli defaults file.
//
// The file lives at $XDG_CONFIG_HOME/filedrop/cli.yaml (or the platform
// equivalent from os.UserConfigDir) and supplies defaults for the global
// flags:
//
//	server: https://drop.example.com
//	output: json
//	ca_file: /etc/ssl/private-ca.pem
//	timeout: 30s
//
// Explicit flags and FILEDROP_* environment variables take precedence.
package config
