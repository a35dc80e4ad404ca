// Package connection provides the HTTP client used by filedrop-cli.
//
// It speaks the server's JSON envelope, streams uploads as multipart
// bodies without buffering them, and exposes downloads as readers so
// large files go straight to disk.
package connection
