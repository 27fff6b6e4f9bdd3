package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/crucible"

	"github.com/namelens/gitrest/pkg/github"
)

// Build metadata, injected from main via SetVersionInfo.
var (
	AppVersion   = "dev"
	AppCommit    = "unknown"
	AppBuildDate = "unknown"
	appIdentity  *appidentity.Identity
)

func SetVersionInfo(version, commit, buildDate string) {
	AppVersion = version
	AppCommit = commit
	AppBuildDate = buildDate
}

func SetAppIdentity(identity *appidentity.Identity) {
	appIdentity = identity
}

// VersionResponse is served at /version and printed by `version --extended`.
type VersionResponse struct {
	App          AppInfo    `json:"app" yaml:"app"`
	Client       ClientInfo `json:"client" yaml:"client"`
	Dependencies DepInfo    `json:"dependencies" yaml:"dependencies"`
	Platform     string     `json:"platform" yaml:"platform"`
}

type AppInfo struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// ClientInfo describes the bundled API client.
type ClientInfo struct {
	Version   string `json:"version" yaml:"version"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

type DepInfo struct {
	Gofulmen string `json:"gofulmen" yaml:"gofulmen"`
	Crucible string `json:"crucible" yaml:"crucible"`
}

// CurrentVersion collects build, client and dependency versions. The app
// name falls back to the executable name when no identity was set.
func CurrentVersion() VersionResponse {
	name := "unknown"
	if appIdentity != nil && appIdentity.BinaryName != "" {
		name = appIdentity.BinaryName
	} else if len(os.Args) > 0 && os.Args[0] != "" {
		name = filepath.Base(os.Args[0])
	}

	deps := crucible.GetVersion()
	return VersionResponse{
		App: AppInfo{
			Name:      name,
			Version:   AppVersion,
			Commit:    AppCommit,
			BuildDate: AppBuildDate,
			GoVersion: runtime.Version(),
		},
		Client: ClientInfo{
			Version:   github.Version,
			UserAgent: github.DefaultUserAgent(),
		},
		Dependencies: DepInfo{
			Gofulmen: deps.Gofulmen,
			Crucible: deps.Crucible,
		},
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(CurrentVersion())
}
