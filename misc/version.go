// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set at link time with -ldflags "-X mjed/misc.version=... -X mjed/misc.gitHash=...".
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension, "mjed" when it cannot be
// determined.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	if exe, err := os.Executable(); err == nil {
		name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
		if len(name) > 0 && !strings.HasSuffix(name, ".test") {
			return name
		}
	}
	return "mjed"
}
