package github

import "context"

// SearchOptions holds the ordering and pagination shared by the search
// endpoints. Valid Sort values differ per endpoint.
type SearchOptions struct {
	Sort    string `json:"sort,omitempty"`
	Order   string `json:"order,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
	Page    int    `json:"page,omitempty"`
}

type searchQuery struct {
	Q            string `json:"q"`
	RepositoryID int64  `json:"repository_id,omitempty"`
	SearchOptions
}

func (c *Client) search(ctx context.Context, path string, query searchQuery, opts *SearchOptions) (any, error) {
	if opts != nil {
		query.SearchOptions = *opts
	}
	return c.get(ctx, path, query)
}

// SearchCode searches file contents. Sort accepts indexed.
func (c *Client) SearchCode(ctx context.Context, q string, opts *SearchOptions) (any, error) {
	return c.search(ctx, "/search/code", searchQuery{Q: q}, opts)
}

// SearchCommits searches commits. Sort accepts author-date or committer-date.
func (c *Client) SearchCommits(ctx context.Context, q string, opts *SearchOptions) (any, error) {
	return c.search(ctx, "/search/commits", searchQuery{Q: q}, opts)
}

// SearchIssues searches issues and pull requests.
func (c *Client) SearchIssues(ctx context.Context, q string, opts *SearchOptions) (any, error) {
	return c.search(ctx, "/search/issues", searchQuery{Q: q}, opts)
}

// SearchLabels searches the labels of one repository.
func (c *Client) SearchLabels(ctx context.Context, repositoryID int64, q string, opts *SearchOptions) (any, error) {
	return c.search(ctx, "/search/labels", searchQuery{Q: q, RepositoryID: repositoryID}, opts)
}

// SearchRepos searches repositories. Sort accepts stars, forks,
// help-wanted-issues or updated.
func (c *Client) SearchRepos(ctx context.Context, q string, opts *SearchOptions) (any, error) {
	return c.search(ctx, "/search/repositories", searchQuery{Q: q}, opts)
}

// SearchTopics searches topics. Sorting is not supported.
func (c *Client) SearchTopics(ctx context.Context, q string, opts *ListOptions) (any, error) {
	query := searchQuery{Q: q}
	if opts != nil {
		query.PerPage = opts.PerPage
		query.Page = opts.Page
	}
	return c.search(ctx, "/search/topics", query, nil)
}

// SearchUsers searches users. Sort accepts followers, repositories or joined.
func (c *Client) SearchUsers(ctx context.Context, q string, opts *SearchOptions) (any, error) {
	return c.search(ctx, "/search/users", searchQuery{Q: q}, opts)
}
