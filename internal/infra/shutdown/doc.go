// Package shutdown coordinates graceful process termination.
//
// Components register named hooks as they start. On SIGINT, SIGTERM or an
// explicit Trigger the hooks run in reverse registration order under one
// shared timeout, so the last thing started is the first thing stopped.
package shutdown
