package github

import (
	"context"
	"net/http"
	"strconv"
)

// UpdateUserRequest holds the profile fields to change. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Blog            *string `json:"blog,omitempty"`
	TwitterUsername *string `json:"twitter_username,omitempty"`
	Company         *string `json:"company,omitempty"`
	Location        *string `json:"location,omitempty"`
	Hireable        *bool   `json:"hireable,omitempty"`
	Bio             *string `json:"bio,omitempty"`
}

// ListUsersOptions filters ListUsers.
type ListUsersOptions struct {
	Since   int64 `json:"since,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
}

// HovercardOptions narrows the hovercard to a subject.
type HovercardOptions struct {
	// SubjectType is organization, repository, issue or pull_request.
	SubjectType string `json:"subject_type,omitempty"`
	SubjectID   string `json:"subject_id,omitempty"`
}

// CreateGPGKeyRequest registers a GPG key.
type CreateGPGKeyRequest struct {
	Name             string `json:"name,omitempty"`
	ArmoredPublicKey string `json:"armored_public_key"`
}

// CreateSSHKeyRequest registers a public SSH key.
type CreateSSHKeyRequest struct {
	Title string `json:"title,omitempty"`
	Key   string `json:"key"`
}

type emailsRequest struct {
	Emails []string `json:"emails"`
}

// GetAuthenticatedUser returns the user the credentials belong to.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (any, error) {
	return c.get(ctx, "/user", nil)
}

// UpdateAuthenticatedUser changes profile fields of the authenticated user.
func (c *Client) UpdateAuthenticatedUser(ctx context.Context, req UpdateUserRequest) (any, error) {
	return c.send(ctx, http.MethodPatch, "/user", req)
}

// ListUsers lists all users in sign-up order.
func (c *Client) ListUsers(ctx context.Context, opts *ListUsersOptions) (any, error) {
	return c.get(ctx, "/users", opts)
}

// GetUser returns a public profile.
func (c *Client) GetUser(ctx context.Context, username string) (any, error) {
	return c.get(ctx, "/users/"+seg(username), nil)
}

// GetUserHovercard returns contextual information about a user.
func (c *Client) GetUserHovercard(ctx context.Context, username string, opts *HovercardOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/hovercard", opts)
}

// ListBlockedUsers lists users the authenticated user has blocked.
func (c *Client) ListBlockedUsers(ctx context.Context) (any, error) {
	return c.get(ctx, "/user/blocks", nil)
}

// CheckUserBlocked succeeds with an empty payload when username is blocked
// and fails with a 404 otherwise.
func (c *Client) CheckUserBlocked(ctx context.Context, username string) (any, error) {
	return c.get(ctx, "/user/blocks/"+seg(username), nil)
}

// BlockUser blocks username.
func (c *Client) BlockUser(ctx context.Context, username string) (any, error) {
	return c.send(ctx, http.MethodPut, "/user/blocks/"+seg(username), nil)
}

// UnblockUser lifts a block on username.
func (c *Client) UnblockUser(ctx context.Context, username string) (any, error) {
	return c.send(ctx, http.MethodDelete, "/user/blocks/"+seg(username), nil)
}

// SetPrimaryEmailVisibility sets the primary email to public or private.
func (c *Client) SetPrimaryEmailVisibility(ctx context.Context, visibility string) (any, error) {
	return c.send(ctx, http.MethodPatch, "/user/email/visibility", map[string]string{"visibility": visibility})
}

// ListEmails lists every address on the account, including private ones.
func (c *Client) ListEmails(ctx context.Context, opts *ListOptions) (any, error) {
	return c.get(ctx, "/user/emails", opts)
}

// AddEmails adds addresses to the authenticated user. Each address needs
// confirmation before it can be used.
func (c *Client) AddEmails(ctx context.Context, emails []string) (any, error) {
	return c.send(ctx, http.MethodPost, "/user/emails", emailsRequest{Emails: emails})
}

// DeleteEmails removes addresses from the authenticated user.
func (c *Client) DeleteEmails(ctx context.Context, emails []string) (any, error) {
	return c.send(ctx, http.MethodDelete, "/user/emails", emailsRequest{Emails: emails})
}

// ListPublicEmails lists the addresses marked public.
func (c *Client) ListPublicEmails(ctx context.Context, opts *ListOptions) (any, error) {
	return c.get(ctx, "/user/public_emails", opts)
}

// ListFollowers lists the authenticated user's followers.
func (c *Client) ListFollowers(ctx context.Context, opts *ListOptions) (any, error) {
	return c.get(ctx, "/user/followers", opts)
}

// ListFollowing lists the people the authenticated user follows.
func (c *Client) ListFollowing(ctx context.Context, opts *ListOptions) (any, error) {
	return c.get(ctx, "/user/following", opts)
}

// CheckFollowing answers 204 when the authenticated user follows username
// and 404 otherwise.
func (c *Client) CheckFollowing(ctx context.Context, username string) (any, error) {
	return c.get(ctx, "/user/following/"+seg(username), nil)
}

// FollowUser follows username.
func (c *Client) FollowUser(ctx context.Context, username string) (any, error) {
	return c.send(ctx, http.MethodPut, "/user/following/"+seg(username), nil)
}

// UnfollowUser stops following username.
func (c *Client) UnfollowUser(ctx context.Context, username string) (any, error) {
	return c.send(ctx, http.MethodDelete, "/user/following/"+seg(username), nil)
}

// ListFollowersForUser lists who follows username.
func (c *Client) ListFollowersForUser(ctx context.Context, username string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/followers", opts)
}

// ListFollowingForUser lists who username follows.
func (c *Client) ListFollowingForUser(ctx context.Context, username string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/following", opts)
}

// CheckUserFollows reports through a 204 or 404 whether username follows
// target.
func (c *Client) CheckUserFollows(ctx context.Context, username, target string) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/following/"+seg(target), nil)
}

// ListGPGKeys lists the authenticated user's GPG keys.
func (c *Client) ListGPGKeys(ctx context.Context, opts *ListOptions) (any, error) {
	return c.get(ctx, "/user/gpg_keys", opts)
}

// CreateGPGKey uploads an armored public key.
func (c *Client) CreateGPGKey(ctx context.Context, req CreateGPGKeyRequest) (any, error) {
	return c.send(ctx, http.MethodPost, "/user/gpg_keys", req)
}

// GetGPGKey returns one of the authenticated user's GPG keys.
func (c *Client) GetGPGKey(ctx context.Context, keyID int64) (any, error) {
	return c.get(ctx, "/user/gpg_keys/"+strconv.FormatInt(keyID, 10), nil)
}

// DeleteGPGKey removes a GPG key.
func (c *Client) DeleteGPGKey(ctx context.Context, keyID int64) (any, error) {
	return c.send(ctx, http.MethodDelete, "/user/gpg_keys/"+strconv.FormatInt(keyID, 10), nil)
}

// ListGPGKeysForUser lists the public GPG keys of username.
func (c *Client) ListGPGKeysForUser(ctx context.Context, username string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/gpg_keys", opts)
}

// ListSSHKeys lists the authenticated user's SSH keys.
func (c *Client) ListSSHKeys(ctx context.Context, opts *ListOptions) (any, error) {
	return c.get(ctx, "/user/keys", opts)
}

// CreateSSHKey adds a public SSH key.
func (c *Client) CreateSSHKey(ctx context.Context, req CreateSSHKeyRequest) (any, error) {
	return c.send(ctx, http.MethodPost, "/user/keys", req)
}

// GetSSHKey returns an extended view of one SSH key.
func (c *Client) GetSSHKey(ctx context.Context, keyID int64) (any, error) {
	return c.get(ctx, "/user/keys/"+strconv.FormatInt(keyID, 10), nil)
}

// DeleteSSHKey removes an SSH key.
func (c *Client) DeleteSSHKey(ctx context.Context, keyID int64) (any, error) {
	return c.send(ctx, http.MethodDelete, "/user/keys/"+strconv.FormatInt(keyID, 10), nil)
}

// ListSSHKeysForUser lists the verified public SSH keys of username.
func (c *Client) ListSSHKeysForUser(ctx context.Context, username string, opts *ListOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/keys", opts)
}
