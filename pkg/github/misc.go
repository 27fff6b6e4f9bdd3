package github

import (
	"context"
	"net/http"
	"strconv"
)

// CreateDeployKeyRequest adds a deploy key to a repository.
type CreateDeployKeyRequest struct {
	Title    string `json:"title,omitempty"`
	Key      string `json:"key"`
	ReadOnly *bool  `json:"read_only,omitempty"`
}

// MarkdownRequest renders Markdown. Mode is markdown or gfm; Context is the
// owner/repo used to resolve references in gfm mode.
type MarkdownRequest struct {
	Text    string `json:"text"`
	Mode    string `json:"mode,omitempty"`
	Context string `json:"context,omitempty"`
}

// ListLicenses returns the commonly used licenses.
func (c *Client) ListLicenses(ctx context.Context) (any, error) {
	return c.get(ctx, "/licenses", nil)
}

// GetLicense returns a license by its SPDX-style key, such as mit.
func (c *Client) GetLicense(ctx context.Context, license string) (any, error) {
	return c.get(ctx, "/licenses/"+seg(license), nil)
}

// GetRepoLicense returns the license file detected in a repository.
func (c *Client) GetRepoLicense(ctx context.Context, owner, repo string) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "license"), nil)
}

// ListGitignoreTemplates lists the template names.
func (c *Client) ListGitignoreTemplates(ctx context.Context) (any, error) {
	return c.get(ctx, "/gitignore/templates", nil)
}

// GetGitignoreTemplate returns one template. The source is in the
// "source" field.
func (c *Client) GetGitignoreTemplate(ctx context.Context, name string) (any, error) {
	return c.get(ctx, "/gitignore/templates/"+seg(name), nil)
}

// GetEmojis returns emoji names mapped to image URLs.
func (c *Client) GetEmojis(ctx context.Context) (any, error) {
	return c.get(ctx, "/emojis", nil)
}

// ListCodesOfConduct lists the available codes of conduct.
func (c *Client) ListCodesOfConduct(ctx context.Context) (any, error) {
	return c.get(ctx, "/codes_of_conduct", nil)
}

// GetCodeOfConduct returns a code of conduct by key.
func (c *Client) GetCodeOfConduct(ctx context.Context, key string) (any, error) {
	return c.get(ctx, "/codes_of_conduct/"+seg(key), nil)
}

// ListDeployKeys lists the deploy keys of a repository.
func (c *Client) ListDeployKeys(ctx context.Context, owner, repo string, opts *ListOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "keys"), opts)
}

// CreateDeployKey adds a deploy key. Keys are read-write unless
// req.ReadOnly is set.
func (c *Client) CreateDeployKey(ctx context.Context, owner, repo string, req CreateDeployKeyRequest) (any, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo, "keys"), req)
}

// GetDeployKey returns one deploy key.
func (c *Client) GetDeployKey(ctx context.Context, owner, repo string, keyID int64) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "keys", strconv.FormatInt(keyID, 10)), nil)
}

// DeleteDeployKey removes a deploy key. Deploy keys cannot be edited, so
// replacing one means delete then create.
func (c *Client) DeleteDeployKey(ctx context.Context, owner, repo string, keyID int64) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "keys", strconv.FormatInt(keyID, 10)), nil)
}

// RenderMarkdown renders req.Text to HTML, returned as text.
func (c *Client) RenderMarkdown(ctx context.Context, req MarkdownRequest) (any, error) {
	return c.send(ctx, http.MethodPost, "/markdown", req)
}

// GetAPIRoot returns the hypermedia index at the API root. Latency probes
// use it.
func (c *Client) GetAPIRoot(ctx context.Context) (any, error) {
	return c.get(ctx, "/", nil)
}

// GetMeta returns GitHub's published service metadata such as IP ranges.
func (c *Client) GetMeta(ctx context.Context) (any, error) {
	return c.get(ctx, "/meta", nil)
}

// GetOctocat returns the ASCII octocat, saying s when non-empty.
func (c *Client) GetOctocat(ctx context.Context, s string) (any, error) {
	var query map[string]string
	if s != "" {
		query = map[string]string{"s": s}
	}
	return c.get(ctx, "/octocat", query)
}

// GetZen returns a random design aphorism as text.
func (c *Client) GetZen(ctx context.Context) (any, error) {
	return c.get(ctx, "/zen", nil)
}

// GetRateLimit returns the server-side view of every rate-limit bucket.
// The response does not count against the budget.
func (c *Client) GetRateLimit(ctx context.Context) (any, error) {
	return c.get(ctx, "/rate_limit", nil)
}
