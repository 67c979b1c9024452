package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

// Version is stamped with -ldflags "-X moviez/handlers.Version=v1.2.3".
var Version string

type buildInfo struct {
	version string
	commit  string
}

var currentBuild = sync.OnceValue(func() buildInfo {
	return resolveBuild(Version, "version.txt", debug.ReadBuildInfo)
})

// resolveBuild prefers the stamped version, then the version file, then the
// module version recorded by the go tool.
func resolveBuild(stamped, versionFile string, read func() (*debug.BuildInfo, bool)) buildInfo {
	var b buildInfo
	info, ok := read()
	if ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				b.commit = s.Value
				if len(b.commit) > 12 {
					b.commit = b.commit[:12]
				}
			}
		}
	}

	switch {
	case strings.TrimSpace(stamped) != "":
		b.version = strings.TrimSpace(stamped)
	case versionFile != "":
		if data, err := os.ReadFile(versionFile); err == nil && len(strings.TrimSpace(string(data))) > 0 {
			b.version = strings.TrimSpace(string(data))
		}
	}
	if b.version == "" && ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.version = info.Main.Version
	}
	if b.version == "" {
		b.version = "dev"
	}
	return b
}

// GetVersion returns the build version.
func GetVersion() string {
	return currentBuild().version
}

type VersionHandler struct{}

type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"goVersion"`
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	b := currentBuild()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(VersionResponse{
		Version:   b.version,
		Commit:    b.commit,
		GoVersion: runtime.Version(),
	})
}
