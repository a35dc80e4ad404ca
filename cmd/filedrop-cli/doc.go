// Command filedrop-cli uploads files to and downloads files from a
// FileDrop server.
//
// Usage:
//
//	filedrop-cli upload report.pdf
//	filedrop-cli upload --password s3cr3t --qr report.pdf
//	tar cz dir | filedrop-cli upload --name dir.tgz -
//	filedrop-cli download fdtk_...
//	filedrop-cli -o json status
//
// The server defaults to http://localhost:8000 and can be set with
// --server or FILEDROP_SERVER.
package main
