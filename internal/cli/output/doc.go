// Package output renders filedrop-cli results as tables, JSON or YAML,
// and draws transfer progress on a terminal.
package output
