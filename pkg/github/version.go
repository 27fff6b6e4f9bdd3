package github

import (
	"fmt"
	"runtime"
)

// Version is the library version advertised in the default User-Agent.
var Version = "0.4.0"

const projectURL = "https://github.com/namelens/gitrest"

// DefaultUserAgent returns the User-Agent sent when the caller does not
// supply one.
func DefaultUserAgent() string {
	return fmt.Sprintf("gitrest/%s (+%s) Go/%s", Version, projectURL, runtime.Version())
}
