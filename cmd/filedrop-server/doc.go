// Command filedrop-server runs the FileDrop service: an in-memory,
// capacity-bounded store for files that expire one hour after upload.
//
// Usage:
//
//	filedrop-server [flags]
//	filedrop-server -config /etc/filedrop/config.yaml
//
// Configuration is read from the optional YAML file, then FILEDROP_*
// environment variables, then the legacy MAX_FILE_SIZE, MAX_TOTAL_MEMORY
// and PORT variables, then flags. Changes to log.level in the file are
// applied without a restart.
package main
