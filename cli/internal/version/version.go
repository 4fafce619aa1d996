package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

// Set with -ldflags "-X .../internal/version.gitVersion=v1.2.3" by release builds.
var (
	gitVersion = "0.0.0-dev"
	buildDate  = "1970-01-01T00:00:00Z"
)

type Info struct {
	Major        uint64 `json:"major"`
	Minor        uint64 `json:"minor"`
	Patch        uint64 `json:"patch"`
	PreRelease   string `json:"prerelease,omitempty"`
	Meta         string `json:"meta,omitempty"`
	GitVersion   string `json:"gitVersion"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState,omitempty"`
	BuildDate    string `json:"buildDate"`
	GoVersion    string `json:"goVersion"`
	Compiler     string `json:"compiler"`
	Platform     string `json:"platform"`
}

// Get returns the version of the running binary. The module version from the
// build info wins over the linked gitVersion unless it is "(devel)", as for
// binaries built from a checkout. VCS settings fill commit, tree state and
// build date when present.
func Get() (Info, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}, fmt.Errorf("could not read build info")
	}
	return FromBuildInfo(bi)
}

func FromBuildInfo(bi *debug.BuildInfo) (Info, error) {
	raw := gitVersion
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		raw = bi.Main.Version
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return Info{}, fmt.Errorf("could not parse version %q: %w", raw, err)
	}

	info := Info{
		Major:      v.Major(),
		Minor:      v.Minor(),
		Patch:      v.Patch(),
		PreRelease: v.Prerelease(),
		Meta:       v.Metadata(),
		GitVersion: "v" + v.String(),
		BuildDate:  buildDate,
		GoVersion:  bi.GoVersion,
		Compiler:   runtime.Compiler,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			info.BuildDate = s.Value
		case "vcs.modified":
			info.GitTreeState = "clean"
			if s.Value == "true" {
				info.GitTreeState = "dirty"
			}
		}
	}
	return info, nil
}
