package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// set via -ldflags "-X github.com/chaty-app/chaty-e2e/internal/version.appVersion=..."
	gitCommit  = "unknown"
	appVersion = "dev"
	buildTime  = "unknown"
)

const Name = "chaty-e2e"

type Info struct {
	GitCommit  string `json:"git_commit"`
	AppVersion string `json:"app_version"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		GitCommit:  gitCommit,
		AppVersion: resolvedVersion(),
		BuildTime:  buildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s %s\nGit Commit: %s\nBuild Time: %s\nGo Version: %s\nPlatform: %s",
		Name, i.AppVersion, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}

// UserAgent identifies the runner in requests it sends itself.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s)", Name, resolvedVersion(), runtime.GOOS)
}

// resolvedVersion falls back to the module version recorded by `go install`
// when no version was set at link time.
func resolvedVersion() string {
	if appVersion != "dev" {
		return appVersion
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	return appVersion
}
