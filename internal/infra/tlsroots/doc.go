// Package tlsroots loads TLS material for the server and the CLI client.
//
//   - roots.go: client trust configuration with an optional extra CA file
//   - keypair.go: a server key pair that reloads itself when renewed on disk
package tlsroots
