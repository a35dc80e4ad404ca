// Package command defines the filedrop-cli commands using urfave/cli/v2.
//
//   - root.go: application, global flags, client construction
//   - upload.go: upload a file, optionally password protected
//   - download.go: fetch a file by token or link, verifying its digest
//   - status.go: server status and health
package command
