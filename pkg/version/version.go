package version

import (
	"fmt"
	"runtime"
)

// Populated at build time via -ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Info is the full version record, emitted as JSON by the version command
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func Get() *Info {
	return &Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i *Info) String() string {
	return fmt.Sprintf("dropbox-api %s (%s) built %s", i.Version, i.GitCommit, i.BuildTime)
}

// UserAgent identifies this client on the wire
func UserAgent() string {
	return "dropbox-api-command/" + Version
}
