// Package version reports the restkit build version and derives the default
// User-Agent sent by clients.
//
// Version and GitCommit are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/restkit/version.Version=1.0.0"
//
// When they are not set, the module version and VCS revision recorded by the
// Go toolchain are used.
package version
