package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/gitrest/internal/output"
	"github.com/namelens/gitrest/internal/store"
)

var (
	rateLimitResetAll    bool
	rateLimitResetOrigin string
	rateLimitResetPrefix string
	rateLimitResetYes    bool
	rateLimitResetDryRun bool
)

// rateLimitResetResult is the outcome of a reset.
type rateLimitResetResult struct {
	Matched int
	Deleted int64
	DryRun  bool
}

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored rate-limit snapshots",
	Long: `Delete stored snapshots so the next client for that origin starts from
the unauthenticated default. A client waiting out a cooldown in another
process is not affected.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := store.RateLimitQuery{
			All:    rateLimitResetAll,
			Origin: strings.TrimSpace(rateLimitResetOrigin),
			Prefix: strings.TrimSpace(rateLimitResetPrefix),
		}
		if err := query.Validate(); err != nil {
			return err
		}

		if query.All && !rateLimitResetYes && !rateLimitResetDryRun {
			return errors.New("--all requires --yes (or use --dry-run)")
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

		matched, err := db.CountRateLimits(cmd.Context(), query)
		if err != nil {
			return err
		}

		result := rateLimitResetResult{Matched: matched, DryRun: rateLimitResetDryRun}
		if !rateLimitResetDryRun {
			result.Deleted, err = db.ResetRateLimits(cmd.Context(), query)
			if err != nil {
				return err
			}
		}

		return writeOutput(cmd, "rate-limit.reset", func(f output.Formatter) (string, error) {
			return renderResetResult(f, result)
		})
	},
}

func renderResetResult(f output.Formatter, result rateLimitResetResult) (string, error) {
	if _, ok := f.(*output.TableFormatter); !ok {
		return f.FormatPayload(map[string]any{
			"matched": result.Matched,
			"deleted": result.Deleted,
			"dry_run": result.DryRun,
		})
	}
	if result.DryRun {
		return fmt.Sprintf("Would delete %d rate-limit snapshot(s)", result.Matched), nil
	}
	return fmt.Sprintf("Deleted %d/%d rate-limit snapshot(s)", result.Deleted, result.Matched), nil
}

func init() {
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetAll, "all", false, "Reset all origins")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetOrigin, "origin", "", "Reset a single origin (exact match)")
	rateLimitResetCmd.Flags().StringVar(&rateLimitResetPrefix, "prefix", "", "Reset origins with matching prefix")
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetYes, "yes", false, "Confirm destructive reset")
	rateLimitResetCmd.Flags().BoolVar(&rateLimitResetDryRun, "dry-run", false, "Show what would be deleted")
	addOutputFlags(rateLimitResetCmd)
}
