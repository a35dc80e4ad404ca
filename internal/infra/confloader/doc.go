// Package confloader loads layered configuration with koanf.
//
// Sources are merged in this order, later ones winning:
//
//  1. Defaults already present in the target struct
//  2. A YAML file
//  3. Prefixed environment variables (FILEDROP_STORE_MAX_FILE_SIZE)
//  4. Unprefixed alias variables kept for older deployments (MAX_FILE_SIZE)
//  5. Explicit overrides, usually from command-line flags
//
// Watcher re-runs a callback when the YAML file changes on disk.
package confloader
