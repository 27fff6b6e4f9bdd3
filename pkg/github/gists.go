package github

import (
	"context"
	"net/http"
)

// GistFile is the content of one gist file.
type GistFile struct {
	Content string `json:"content"`
}

// ListGistsOptions filters gist listings.
type ListGistsOptions struct {
	// Since is an ISO 8601 timestamp.
	Since   string `json:"since,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// CreateGistRequest creates a gist from files keyed by filename.
type CreateGistRequest struct {
	Description string              `json:"description,omitempty"`
	Files       map[string]GistFile `json:"files"`
	Public      *bool               `json:"public,omitempty"`
}

// UpdateGistRequest changes the description or files of a gist. A nil
// entry in Files deletes that file.
type UpdateGistRequest struct {
	Description *string              `json:"description,omitempty"`
	Files       map[string]*GistFile `json:"files,omitempty"`
}

type commentRequest struct {
	Body string `json:"body"`
}

// GistFiles builds the Files map of a CreateGistRequest from filename to
// content pairs.
func GistFiles(contents map[string]string) map[string]GistFile {
	files := make(map[string]GistFile, len(contents))
	for name, content := range contents {
		files[name] = GistFile{Content: content}
	}
	return files
}

// ListGists lists the authenticated user's gists, or public gists when
// called anonymously.
func (c *Client) ListGists(ctx context.Context, opts *ListGistsOptions) (any, error) {
	return c.get(ctx, "/gists", opts)
}

// CreateGist creates a gist. Gists are secret unless req.Public is set.
func (c *Client) CreateGist(ctx context.Context, req CreateGistRequest) (any, error) {
	return c.send(ctx, http.MethodPost, "/gists", req)
}

// ListPublicGists lists public gists, newest first.
func (c *Client) ListPublicGists(ctx context.Context, opts *ListGistsOptions) (any, error) {
	return c.get(ctx, "/gists/public", opts)
}

// ListStarredGists lists gists the authenticated user starred.
func (c *Client) ListStarredGists(ctx context.Context, opts *ListGistsOptions) (any, error) {
	return c.get(ctx, "/gists/starred", opts)
}

// GetGist returns a gist with its file contents.
func (c *Client) GetGist(ctx context.Context, gistID string) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID), nil)
}

// UpdateGist edits a gist. A file mapped to nil is deleted.
func (c *Client) UpdateGist(ctx context.Context, gistID string, req UpdateGistRequest) (any, error) {
	return c.send(ctx, http.MethodPatch, "/gists/"+seg(gistID), req)
}

// DeleteGist deletes a gist.
func (c *Client) DeleteGist(ctx context.Context, gistID string) (any, error) {
	return c.send(ctx, http.MethodDelete, "/gists/"+seg(gistID), nil)
}

// ListGistCommits lists the revision history of a gist.
func (c *Client) ListGistCommits(ctx context.Context, gistID string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID)+"/commits", opts)
}

// ListGistForks lists forks of a gist.
func (c *Client) ListGistForks(ctx context.Context, gistID string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID)+"/forks", opts)
}

// ForkGist forks a gist into the authenticated user's account.
func (c *Client) ForkGist(ctx context.Context, gistID string) (any, error) {
	return c.send(ctx, http.MethodPost, "/gists/"+seg(gistID)+"/forks", nil)
}

// CheckGistStarred succeeds with a 204 when the gist is starred and fails
// with a 404 otherwise.
func (c *Client) CheckGistStarred(ctx context.Context, gistID string) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID)+"/star", nil)
}

// StarGist stars a gist.
func (c *Client) StarGist(ctx context.Context, gistID string) (any, error) {
	return c.send(ctx, http.MethodPut, "/gists/"+seg(gistID)+"/star", nil)
}

// UnstarGist removes a star.
func (c *Client) UnstarGist(ctx context.Context, gistID string) (any, error) {
	return c.send(ctx, http.MethodDelete, "/gists/"+seg(gistID)+"/star", nil)
}

// GetGistRevision returns the gist as of revision sha.
func (c *Client) GetGistRevision(ctx context.Context, gistID, sha string) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID)+"/"+seg(sha), nil)
}

// ListGistsForUser lists the public gists of username.
func (c *Client) ListGistsForUser(ctx context.Context, username string, opts *ListGistsOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/gists", opts)
}

// ListGistComments lists comments on a gist.
func (c *Client) ListGistComments(ctx context.Context, gistID string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID)+"/comments", opts)
}

// CreateGistComment posts body as a new comment.
func (c *Client) CreateGistComment(ctx context.Context, gistID, body string) (any, error) {
	return c.send(ctx, http.MethodPost, "/gists/"+seg(gistID)+"/comments", commentRequest{Body: body})
}

// GetGistComment returns one gist comment.
func (c *Client) GetGistComment(ctx context.Context, gistID, commentID string) (any, error) {
	return c.get(ctx, "/gists/"+seg(gistID)+"/comments/"+seg(commentID), nil)
}

// UpdateGistComment replaces the body of a comment.
func (c *Client) UpdateGistComment(ctx context.Context, gistID, commentID, body string) (any, error) {
	return c.send(ctx, http.MethodPatch, "/gists/"+seg(gistID)+"/comments/"+seg(commentID), commentRequest{Body: body})
}

// DeleteGistComment deletes a comment.
func (c *Client) DeleteGistComment(ctx context.Context, gistID, commentID string) (any, error) {
	return c.send(ctx, http.MethodDelete, "/gists/"+seg(gistID)+"/comments/"+seg(commentID), nil)
}
