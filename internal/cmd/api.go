package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/namelens/gitrest/internal/output"
	"github.com/namelens/gitrest/pkg/github"
)

var (
	searchSort    string
	searchOrder   string
	searchPerPage int
)

// apiCommand builds a command that runs one client call and prints its
// payload.
func apiCommand(use, short string, args cobra.PositionalArgs, call func(ctx context.Context, c *github.Client, args []string) (any, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
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

			payload, err := call(cmd.Context(), sess.client, args)
			if err != nil {
				return err
			}

			stem := strings.Join(append([]string{strings.Fields(use)[0]}, args...), "-")
			return writeOutput(cmd, stem, func(f output.Formatter) (string, error) {
				return f.FormatPayload(payload)
			})
		},
	}
	addOutputFlags(cmd)
	return cmd
}

// splitRepo parses owner/repo.
func splitRepo(value string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(value), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q: expected owner/repo", value)
	}
	return owner, repo, nil
}

var zenCmd = apiCommand("zen", "Print a random line of GitHub zen", cobra.NoArgs,
	func(ctx context.Context, c *github.Client, _ []string) (any, error) {
		return c.GetZen(ctx)
	})

var userCmd = apiCommand("user [USERNAME]", "Show a user, or the authenticated user when none is given", cobra.MaximumNArgs(1),
	func(ctx context.Context, c *github.Client, args []string) (any, error) {
		if len(args) == 0 {
			return c.GetAuthenticatedUser(ctx)
		}
		return c.GetUser(ctx, args[0])
	})

var repoCmd = apiCommand("repo OWNER/REPO", "Show a repository", cobra.ExactArgs(1),
	func(ctx context.Context, c *github.Client, args []string) (any, error) {
		owner, repo, err := splitRepo(args[0])
		if err != nil {
			return nil, err
		}
		return c.GetRepo(ctx, owner, repo)
	})

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the API",
}

// searchCommand builds a search subcommand over one search endpoint.
func searchCommand(kind string, search func(c *github.Client, ctx context.Context, q string, opts *github.SearchOptions) (any, error)) *cobra.Command {
	cmd := apiCommand(kind+" QUERY", "Search "+kind, cobra.MinimumNArgs(1),
		func(ctx context.Context, c *github.Client, args []string) (any, error) {
			opts := &github.SearchOptions{Sort: searchSort, Order: searchOrder, PerPage: searchPerPage}
			payload, err := search(c, ctx, strings.Join(args, " "), opts)
			if err != nil {
				return nil, err
			}
			if result, ok := payload.(map[string]any); ok {
				if items, ok := result["items"]; ok {
					return items, nil
				}
			}
			return payload, nil
		})
	cmd.Flags().StringVar(&searchSort, "sort", "", "Sort field (depends on the search kind)")
	cmd.Flags().StringVar(&searchOrder, "order", "", "Sort order: asc|desc")
	cmd.Flags().IntVar(&searchPerPage, "per-page", 0, "Results per page (max 100)")
	return cmd
}

func init() {
	searchCmd.AddCommand(searchCommand("repos", (*github.Client).SearchRepos))
	searchCmd.AddCommand(searchCommand("code", (*github.Client).SearchCode))
	searchCmd.AddCommand(searchCommand("issues", (*github.Client).SearchIssues))
	searchCmd.AddCommand(searchCommand("users", (*github.Client).SearchUsers))
	searchCmd.AddCommand(searchCommand("commits", (*github.Client).SearchCommits))

	rootCmd.AddCommand(zenCmd, userCmd, repoCmd, searchCmd)
}
