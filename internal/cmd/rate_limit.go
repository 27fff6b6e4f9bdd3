package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/namelens/gitrest/internal/output"
)

var rateLimitShowRefresh bool

var rateLimitCmd = &cobra.Command{
	Use:   "rate-limit",
	Short: "Inspect and manage rate-limit snapshots",
}

var rateLimitShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current rate-limit snapshot for the configured API",
	Long: `Show the snapshot a new client starts from: the persisted one when
snapshots are stored, the unauthenticated default otherwise.

With --refresh the API's rate_limit endpoint is queried first, which does
not count against the budget and updates the snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		sess, err := openSession(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer sess.Close() // nolint:errcheck // best-effort cleanup

		if rateLimitShowRefresh {
			if _, err := sess.client.GetRateLimit(cmd.Context()); err != nil {
				return err
			}
		}

		limits := sess.client.RateLimits()
		return writeOutput(cmd, "rate-limit.show", func(f output.Formatter) (string, error) {
			return f.FormatRateLimits(limits, time.Now())
		})
	},
}

func init() {
	rateLimitShowCmd.Flags().BoolVar(&rateLimitShowRefresh, "refresh", false, "Query the API before showing the snapshot")
	addOutputFlags(rateLimitShowCmd)

	rateLimitCmd.AddCommand(rateLimitShowCmd)
	rateLimitCmd.AddCommand(rateLimitListCmd)
	rateLimitCmd.AddCommand(rateLimitResetCmd)
	rootCmd.AddCommand(rateLimitCmd)
}
