package version

import (
	"fmt"
	"runtime"
)

// Build information, set at build time via -ldflags "-X mpa2phyloseq/internal/version.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("mpa2phyloseq %s (commit %s)", i.Version, i.CommitHash)
}
