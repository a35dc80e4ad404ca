// Package buildinfo exposes version information for FileDrop binaries.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/filedrop/internal/infra/buildinfo.Version=v1.0.0"
//
// Fields left unset fall back to what the Go toolchain embeds.
package buildinfo
