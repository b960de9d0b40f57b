package version

import (
	"fmt"
	"io"
	"runtime"
)

// Build information, set with
//
//	-ldflags "-X github.com/OpenCHAMI/mpx/internal/version.Version=v0.1.0 ..."
var (
	Version   string
	GitCommit string
	GitBranch string
	GitTag    string
	GitState  string
	BuildTime string
	BuildHost string
	BuildUser string
	// GoVersion defaults to the running toolchain when not set at build time.
	GoVersion string
)

type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	GitBranch string `json:"git_branch" yaml:"git_branch"`
	GitTag    string `json:"git_tag" yaml:"git_tag"`
	GitState  string `json:"git_state" yaml:"git_state"`
	BuildTime string `json:"build_time" yaml:"build_time"`
	BuildHost string `json:"build_host" yaml:"build_host"`
	BuildUser string `json:"build_user" yaml:"build_user"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

func Get() Info {
	goVersion := GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		GitTag:    GitTag,
		GitState:  GitState,
		BuildTime: BuildTime,
		BuildHost: BuildHost,
		BuildUser: BuildUser,
		GoVersion: goVersion,
	}
}

// PrintVersionInfo writes every build field, one per line.
func PrintVersionInfo(w io.Writer) {
	info := Get()
	fmt.Fprintf(w, "Version: %s\n", info.Version)
	fmt.Fprintf(w, "Git Commit: %s\n", info.GitCommit)
	fmt.Fprintf(w, "Build Time: %s\n", info.BuildTime)
	fmt.Fprintf(w, "Git Branch: %s\n", info.GitBranch)
	fmt.Fprintf(w, "Git Tag: %s\n", info.GitTag)
	fmt.Fprintf(w, "Git State: %s\n", info.GitState)
	fmt.Fprintf(w, "Build Host: %s\n", info.BuildHost)
	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	fmt.Fprintf(w, "Build User: %s\n", info.BuildUser)
}

func VersionInfo() string {
	if Version == "" {
		return "dev"
	}
	if GitCommit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
