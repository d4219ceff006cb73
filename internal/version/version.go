// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/longkey1/agrochat/internal/version.Version=v0.1.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Short returns only the version number.
func Short() string {
	return Version
}

// Info returns the full version report printed by `agrochat version`.
func Info() string {
	return fmt.Sprintf("agrochat %s\n  commit:     %s\n  built:      %s\n  go version: %s\n  platform:   %s/%s",
		Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
