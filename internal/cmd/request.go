package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/namelens/gitrest/internal/output"
	"github.com/namelens/gitrest/pkg/github"
)

var (
	requestQuery    []string
	requestHeaders  []string
	requestBodyFile string
	requestTimeout  time.Duration
)

var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send a raw API request",
	Long: `Send one request through the rate-limit aware dispatcher and print the
decoded response.

The body file may be JSON or YAML; it is sent as JSON. Use - to read it
from stdin.

Examples:
  gitrest request GET /repos/golang/go
  gitrest request GET /search/repositories --query q=language:go --query per_page=5
  gitrest request POST /markdown --body-file body.yaml --output-format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		method := strings.ToUpper(strings.TrimSpace(args[0]))
		path := strings.TrimSpace(args[1])

		opts, err := buildRequestOptions(requestQuery, requestHeaders, requestBodyFile)
		if err != nil {
			return err
		}
		opts.Timeout = requestTimeout

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		sess, err := openSession(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer sess.Close() // nolint:errcheck // best-effort cleanup

		payload, err := sess.client.Request(cmd.Context(), method, path, opts)
		if err != nil {
			return err
		}

		return writeOutput(cmd, strings.ToLower(method)+path, func(f output.Formatter) (string, error) {
			return f.FormatPayload(payload)
		})
	},
}

// buildRequestOptions parses k=v query pairs, "Name: value" headers and an
// optional JSON or YAML body file.
func buildRequestOptions(query, headers []string, bodyFile string) (*github.RequestOptions, error) {
	opts := &github.RequestOptions{}

	if len(query) > 0 {
		opts.Query = url.Values{}
		for _, pair := range query {
			key, value, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(key) == "" {
				return nil, fmt.Errorf("invalid --query %q: expected key=value", pair)
			}
			opts.Query.Add(strings.TrimSpace(key), value)
		}
	}

	if len(headers) > 0 {
		opts.Header = http.Header{}
		for _, line := range headers {
			name, value, ok := strings.Cut(line, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid --header %q: expected \"Name: value\"", line)
			}
			opts.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}

	if bodyFile = strings.TrimSpace(bodyFile); bodyFile != "" {
		var (
			raw []byte
			err error
		)
		if bodyFile == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(bodyFile)
		}
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		// The YAML decoder accepts JSON too.
		var body any
		if err := yaml.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("parse body %s: %w", bodyFile, err)
		}
		if body == nil {
			return nil, fmt.Errorf("body %s is empty", bodyFile)
		}
		opts.JSON = body
	}

	return opts, nil
}

func init() {
	requestCmd.Flags().StringArrayVarP(&requestQuery, "query", "q", nil, "Query parameter as key=value (repeatable)")
	requestCmd.Flags().StringArrayVarP(&requestHeaders, "header", "H", nil, "Extra header as \"Name: value\" (repeatable)")
	requestCmd.Flags().StringVar(&requestBodyFile, "body-file", "", "JSON or YAML request body (- for stdin)")
	requestCmd.Flags().DurationVar(&requestTimeout, "timeout", 0, "Timeout for this request (default from github.timeout)")
	addOutputFlags(requestCmd)
	rootCmd.AddCommand(requestCmd)
}
