package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/namelens/gitrest/internal/output"
)

var latencyCmd = &cobra.Command{
	Use:   "latency",
	Short: "Measure the round-trip time to the API root",
	Long: `Send one probe to the API root and report its round-trip time. No probe
is sent while the budget is exhausted; the last measured value is shown
instead, which is zero for a fresh process.`,
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

		latency, err := sess.client.Latency(cmd.Context())
		if err != nil {
			return err
		}

		result := map[string]any{
			"base_url":     sess.client.BaseURL(),
			"latency_ms":   float64(latency.Microseconds()) / 1000,
			"rate_limited": sess.client.IsRateLimited(),
			"measured_at":  time.Now().UTC().Format(time.RFC3339),
		}
		return writeOutput(cmd, "latency", func(f output.Formatter) (string, error) {
			return f.FormatPayload(result)
		})
	},
}

func init() {
	addOutputFlags(latencyCmd)
	rootCmd.AddCommand(latencyCmd)
}
