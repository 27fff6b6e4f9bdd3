// Package appid resolves the application identity used for config paths,
// env prefixes and telemetry namespaces.
package appid

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"
)

const (
	BinaryName  = "gitrest"
	Vendor      = "namelens"
	EnvPrefix   = "GITREST_"
	ConfigName  = "gitrest"
	Description = "GitHub REST client with rate-limit aware dispatch"
)

// Default returns the built-in identity used when no .fulmen/app.yaml is
// discoverable.
func Default() *appidentity.Identity {
	return &appidentity.Identity{
		BinaryName:  BinaryName,
		Vendor:      Vendor,
		EnvPrefix:   EnvPrefix,
		ConfigName:  ConfigName,
		Description: Description,
	}
}

// Get returns the discovered identity, or Default when none exists. An
// explicit FULMEN_APP_IDENTITY_PATH that cannot be read stays an error.
func Get(ctx context.Context) (*appidentity.Identity, error) {
	identity, err := appidentity.Get(ctx)
	if err == nil && identity != nil {
		return identity, nil
	}

	var notFound *appidentity.NotFoundError
	if (err == nil || errors.As(err, &notFound)) && strings.TrimSpace(os.Getenv(appidentity.EnvIdentityPath)) == "" {
		return Default(), nil
	}
	return nil, err
}
