package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags at release time
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info describes the running binary
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// GetInfo resolves the version fields, falling back to the module build info
func GetInfo() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		if info.Version == "dev" || info.Version == "" {
			info.Version = "development"
		}
		return info
	}

	if info.Version == "dev" || info.Version == "" {
		info.Version = "development"
		if build.Main.Version != "" && build.Main.Version != "(devel)" {
			info.Version = build.Main.Version
		}
	}

	for _, setting := range build.Settings {
		switch {
		case setting.Key == "vcs.revision" && (info.Commit == "unknown" || info.Commit == ""):
			info.Commit = setting.Value
		case setting.Key == "vcs.time" && (info.Date == "unknown" || info.Date == ""):
			info.Date = setting.Value
		}
	}

	return info
}

// String formats the version with a short commit and build date when known
func (i Info) String() string {
	if i.Commit == "unknown" || len(i.Commit) <= 7 {
		return i.Version
	}
	if i.Date == "unknown" {
		return fmt.Sprintf("%s (%s)", i.Version, i.Commit[:7])
	}
	return fmt.Sprintf("%s (%s, built %s)", i.Version, i.Commit[:7], i.Date)
}
