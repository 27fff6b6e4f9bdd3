package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/gitrest/internal/output"
	"github.com/namelens/gitrest/internal/store"
)

var (
	rateLimitListAll    bool
	rateLimitListOrigin string
	rateLimitListPrefix string
)

var rateLimitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rate-limit snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := store.RateLimitQuery{
			All:    rateLimitListAll,
			Origin: strings.TrimSpace(rateLimitListOrigin),
			Prefix: strings.TrimSpace(rateLimitListPrefix),
		}
		if query.Origin == "" && query.Prefix == "" {
			query.All = true
		}

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		db, err := openStore(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		entries, err := db.ListRateLimits(cmd.Context(), query)
		if err != nil {
			return err
		}

		return writeOutput(cmd, "rate-limit.list", func(f output.Formatter) (string, error) {
			return f.FormatRateLimitEntries(entries)
		})
	},
}

func init() {
	rateLimitListCmd.Flags().BoolVar(&rateLimitListAll, "all", false, "List all origins")
	rateLimitListCmd.Flags().StringVar(&rateLimitListOrigin, "origin", "", "List one API origin (exact match, e.g. api.github.com)")
	rateLimitListCmd.Flags().StringVar(&rateLimitListPrefix, "prefix", "", "List origins with matching prefix")
	addOutputFlags(rateLimitListCmd)
}
