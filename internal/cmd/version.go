package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/gitrest/internal/output"
	"github.com/namelens/gitrest/internal/server/handlers"
)

var extended bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information. Use --extended for the client, Crucible and Go versions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		handlers.SetAppIdentity(GetAppIdentity())
		info := handlers.CurrentVersion()

		return writeOutput(cmd, "version", func(f output.Formatter) (string, error) {
			if _, ok := f.(*output.TableFormatter); !ok {
				return f.FormatPayload(info)
			}
			return renderVersion(info, extended), nil
		})
	},
}

func renderVersion(info handlers.VersionResponse, extended bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", info.App.Name, info.App.Version)
	if !extended {
		return sb.String()
	}
	fmt.Fprintf(&sb, "Commit: %s\n", info.App.Commit)
	fmt.Fprintf(&sb, "Built: %s\n", info.App.BuildDate)
	fmt.Fprintf(&sb, "Go: %s (%s)\n", info.App.GoVersion, info.Platform)
	fmt.Fprintf(&sb, "Client: %s (User-Agent %q)\n\n", info.Client.Version, info.Client.UserAgent)
	fmt.Fprintf(&sb, "Gofulmen: %s\n", info.Dependencies.Gofulmen)
	fmt.Fprintf(&sb, "Crucible: %s\n", info.Dependencies.Crucible)
	return sb.String()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&extended, "extended", "e", false, "show extended version information")
	addOutputFlags(versionCmd)
}
