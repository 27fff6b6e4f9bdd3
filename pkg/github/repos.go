package github

import (
	"context"
	"net/http"
	"strconv"
)

// ListReposOptions filters repository listings for organizations and users.
type ListReposOptions struct {
	// Type is all, public, private, forks, sources, member or internal.
	Type      string `json:"type,omitempty"`
	Sort      string `json:"sort,omitempty"`
	Direction string `json:"direction,omitempty"`
	PerPage   int    `json:"per_page,omitempty"`
	Page      int    `json:"page,omitempty"`
}

// ListAuthenticatedReposOptions filters ListReposForAuthenticatedUser.
type ListAuthenticatedReposOptions struct {
	Visibility  string `json:"visibility,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	Type        string `json:"type,omitempty"`
	Sort        string `json:"sort,omitempty"`
	Direction   string `json:"direction,omitempty"`
	PerPage     int    `json:"per_page,omitempty"`
	Page        int    `json:"page,omitempty"`
	// Since and Before are ISO 8601 timestamps.
	Since       string `json:"since,omitempty"`
	Before      string `json:"before,omitempty"`
}

// CreateRepoRequest describes a new repository. Org-only fields such as
// Visibility and TeamID are ignored by GitHub for personal repositories.
type CreateRepoRequest struct {
	Name                      string `json:"name"`
	Description               string `json:"description,omitempty"`
	Homepage                  string `json:"homepage,omitempty"`
	Private                   *bool  `json:"private,omitempty"`
	Visibility                string `json:"visibility,omitempty"`
	HasIssues                 *bool  `json:"has_issues,omitempty"`
	HasProjects               *bool  `json:"has_projects,omitempty"`
	HasWiki                   *bool  `json:"has_wiki,omitempty"`
	HasDownloads              *bool  `json:"has_downloads,omitempty"`
	IsTemplate                *bool  `json:"is_template,omitempty"`
	TeamID                    int64  `json:"team_id,omitempty"`
	AutoInit                  *bool  `json:"auto_init,omitempty"`
	GitignoreTemplate         string `json:"gitignore_template,omitempty"`
	LicenseTemplate           string `json:"license_template,omitempty"`
	AllowSquashMerge          *bool  `json:"allow_squash_merge,omitempty"`
	AllowMergeCommit          *bool  `json:"allow_merge_commit,omitempty"`
	AllowRebaseMerge          *bool  `json:"allow_rebase_merge,omitempty"`
	AllowAutoMerge            *bool  `json:"allow_auto_merge,omitempty"`
	DeleteBranchOnMerge       *bool  `json:"delete_branch_on_merge,omitempty"`
	UseSquashPRTitleAsDefault *bool  `json:"use_squash_pr_title_as_default,omitempty"`
}

// SecurityFeature toggles one security_and_analysis feature.
type SecurityFeature struct {
	// Status is enabled or disabled.
	Status string `json:"status"`
}

// SecurityAndAnalysis groups the repository security feature toggles.
type SecurityAndAnalysis struct {
	AdvancedSecurity             *SecurityFeature `json:"advanced_security,omitempty"`
	SecretScanning               *SecurityFeature `json:"secret_scanning,omitempty"`
	SecretScanningPushProtection *SecurityFeature `json:"secret_scanning_push_protection,omitempty"`
}

// UpdateRepoRequest holds the repository settings to change.
type UpdateRepoRequest struct {
	Name                      *string              `json:"name,omitempty"`
	Description               *string              `json:"description,omitempty"`
	Homepage                  *string              `json:"homepage,omitempty"`
	Private                   *bool                `json:"private,omitempty"`
	Visibility                string               `json:"visibility,omitempty"`
	SecurityAndAnalysis       *SecurityAndAnalysis `json:"security_and_analysis,omitempty"`
	HasIssues                 *bool                `json:"has_issues,omitempty"`
	HasProjects               *bool                `json:"has_projects,omitempty"`
	HasWiki                   *bool                `json:"has_wiki,omitempty"`
	IsTemplate                *bool                `json:"is_template,omitempty"`
	DefaultBranch             string               `json:"default_branch,omitempty"`
	AllowSquashMerge          *bool                `json:"allow_squash_merge,omitempty"`
	AllowMergeCommit          *bool                `json:"allow_merge_commit,omitempty"`
	AllowRebaseMerge          *bool                `json:"allow_rebase_merge,omitempty"`
	AllowAutoMerge            *bool                `json:"allow_auto_merge,omitempty"`
	DeleteBranchOnMerge       *bool                `json:"delete_branch_on_merge,omitempty"`
	UseSquashPRTitleAsDefault *bool                `json:"use_squash_pr_title_as_default,omitempty"`
	Archived                  *bool                `json:"archived,omitempty"`
	AllowForking              *bool                `json:"allow_forking,omitempty"`
}

// ContributorsOptions filters ListContributors.
type ContributorsOptions struct {
	Anon    *bool `json:"anon,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Page    int   `json:"page,omitempty"`
}

// RefOptions selects a commit, branch or tag.
type RefOptions struct {
	Ref string `json:"ref,omitempty"`
}

// DispatchRequest triggers a repository_dispatch webhook event.
type DispatchRequest struct {
	EventType     string         `json:"event_type"`
	ClientPayload map[string]any `json:"client_payload,omitempty"`
}

// TransferRepoRequest moves a repository to another owner.
type TransferRepoRequest struct {
	NewOwner string  `json:"new_owner"`
	NewName  string  `json:"new_name,omitempty"`
	TeamIDs  []int64 `json:"team_ids,omitempty"`
}

// TemplateRepoRequest creates a repository from a template.
type TemplateRepoRequest struct {
	Owner              string `json:"owner,omitempty"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	IncludeAllBranches *bool  `json:"include_all_branches,omitempty"`
	Private            *bool  `json:"private,omitempty"`
}

// PublicReposOptions pages through all public repositories.
type PublicReposOptions struct {
	Since int64 `json:"since,omitempty"`
}

// CreateAutolinkRequest defines an autolink reference.
type CreateAutolinkRequest struct {
	KeyPrefix      string `json:"key_prefix"`
	URLTemplate    string `json:"url_template"`
	IsAlphanumeric *bool  `json:"is_alphanumeric,omitempty"`
}

// CommitIdentity names the author or committer of a contents change.
type CommitIdentity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date,omitempty"`
}

// PutContentsRequest creates or replaces a file. Content is base64.
type PutContentsRequest struct {
	Message   string          `json:"message"`
	Content   string          `json:"content"`
	SHA       string          `json:"sha,omitempty"`
	Branch    string          `json:"branch,omitempty"`
	Committer *CommitIdentity `json:"committer,omitempty"`
	Author    *CommitIdentity `json:"author,omitempty"`
}

// DeleteContentsRequest deletes a file at the given blob SHA.
type DeleteContentsRequest struct {
	Message   string          `json:"message"`
	SHA       string          `json:"sha"`
	Branch    string          `json:"branch,omitempty"`
	Committer *CommitIdentity `json:"committer,omitempty"`
	Author    *CommitIdentity `json:"author,omitempty"`
}

// ArchiveFormat selects the repository archive flavor.
type ArchiveFormat string

const (
	ArchiveTarball ArchiveFormat = "tarball"
	ArchiveZipball ArchiveFormat = "zipball"
)

// ListForksOptions orders ListForks.
type ListForksOptions struct {
	// Sort is newest, oldest, stargazers or watchers.
	Sort    string `json:"sort,omitempty"`
	PerPage int    `json:"per_page,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// CreateForkRequest forks into an organization or under a new name.
type CreateForkRequest struct {
	Organization      string `json:"organization,omitempty"`
	Name              string `json:"name,omitempty"`
	DefaultBranchOnly *bool  `json:"default_branch_only,omitempty"`
}

// ListOrgRepos lists repositories of an organization.
func (c *Client) ListOrgRepos(ctx context.Context, org string, opts *ListReposOptions) (any, error) {
	return c.get(ctx, "/orgs/"+seg(org)+"/repos", opts)
}

// CreateOrgRepo creates a repository owned by an organization.
func (c *Client) CreateOrgRepo(ctx context.Context, org string, req CreateRepoRequest) (any, error) {
	return c.send(ctx, http.MethodPost, "/orgs/"+seg(org)+"/repos", req)
}

// GetRepo returns a repository. Renamed repositories answer with a
// redirect that net/http follows.
func (c *Client) GetRepo(ctx context.Context, owner, repo string) (any, error) {
	return c.get(ctx, repoPath(owner, repo), nil)
}

// UpdateRepo edits repository settings. Unset fields stay unchanged.
func (c *Client) UpdateRepo(ctx context.Context, owner, repo string, req UpdateRepoRequest) (any, error) {
	return c.send(ctx, http.MethodPatch, repoPath(owner, repo), req)
}

// DeleteRepo deletes a repository. Requires the delete_repo scope.
func (c *Client) DeleteRepo(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo), nil)
}

// EnableAutomatedSecurityFixes turns on Dependabot security updates.
func (c *Client) EnableAutomatedSecurityFixes(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodPut, repoPath(owner, repo, "automated-security-fixes"), nil)
}

// DisableAutomatedSecurityFixes turns off Dependabot security updates.
func (c *Client) DisableAutomatedSecurityFixes(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "automated-security-fixes"), nil)
}

// ListCodeownersErrors lists syntax errors in the CODEOWNERS file at ref.
func (c *Client) ListCodeownersErrors(ctx context.Context, owner, repo string, opts *RefOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "codeowners", "errors"), opts)
}

// ListContributors lists contributors by commit count.
func (c *Client) ListContributors(ctx context.Context, owner, repo string, opts *ContributorsOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "contributors"), opts)
}

// CreateDispatchEvent fires a repository_dispatch event.
func (c *Client) CreateDispatchEvent(ctx context.Context, owner, repo string, req DispatchRequest) (any, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo, "dispatches"), req)
}

// ListLanguages returns bytes of code per language.
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "languages"), nil)
}

// ListTags lists repository tags.
func (c *Client) ListTags(ctx context.Context, owner, repo string, opts *ListOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "tags"), opts)
}

// ListRepoTeams lists teams with access to the repository.
func (c *Client) ListRepoTeams(ctx context.Context, owner, repo string, opts *ListOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "teams"), opts)
}

// GetTopics returns the repository topics.
func (c *Client) GetTopics(ctx context.Context, owner, repo string, opts *ListOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "topics"), opts)
}

// ReplaceTopics sets the full topic list; an empty list clears it.
func (c *Client) ReplaceTopics(ctx context.Context, owner, repo string, names []string) (any, error) {
	if names == nil {
		names = []string{}
	}
	return c.send(ctx, http.MethodPut, repoPath(owner, repo, "topics"), map[string][]string{"names": names})
}

// TransferRepo starts a transfer to req.NewOwner. The API answers 202
// and completes the move asynchronously.
func (c *Client) TransferRepo(ctx context.Context, owner, repo string, req TransferRepoRequest) (any, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo, "transfer"), req)
}

// CheckVulnerabilityAlerts succeeds with a 204 when alerts are enabled and
// fails with a 404 when they are not.
func (c *Client) CheckVulnerabilityAlerts(ctx context.Context, owner, repo string) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "vulnerability-alerts"), nil)
}

// EnableVulnerabilityAlerts enables dependency alerts.
func (c *Client) EnableVulnerabilityAlerts(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodPut, repoPath(owner, repo, "vulnerability-alerts"), nil)
}

// DisableVulnerabilityAlerts disables dependency alerts.
func (c *Client) DisableVulnerabilityAlerts(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "vulnerability-alerts"), nil)
}

// CreateRepoFromTemplate generates a repository from templateOwner/templateRepo.
func (c *Client) CreateRepoFromTemplate(ctx context.Context, templateOwner, templateRepo string, req TemplateRepoRequest) (any, error) {
	return c.send(ctx, http.MethodPost, repoPath(templateOwner, templateRepo, "generate"), req)
}

// ListPublicRepos lists public repositories in creation order.
func (c *Client) ListPublicRepos(ctx context.Context, opts *PublicReposOptions) (any, error) {
	return c.get(ctx, "/repositories", opts)
}

// ListReposForAuthenticatedUser lists repositories the authenticated user
// can access.
func (c *Client) ListReposForAuthenticatedUser(ctx context.Context, opts *ListAuthenticatedReposOptions) (any, error) {
	return c.get(ctx, "/user/repos", opts)
}

// CreateRepoForAuthenticatedUser creates a repository owned by the
// authenticated user.
func (c *Client) CreateRepoForAuthenticatedUser(ctx context.Context, req CreateRepoRequest) (any, error) {
	return c.send(ctx, http.MethodPost, "/user/repos", req)
}

// ListReposForUser lists the public repositories of username.
func (c *Client) ListReposForUser(ctx context.Context, username string, opts *ListReposOptions) (any, error) {
	return c.get(ctx, "/users/"+seg(username)+"/repos", opts)
}

// ListAutolinks lists autolink references.
func (c *Client) ListAutolinks(ctx context.Context, owner, repo string, opts *ListOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "autolinks"), opts)
}

// CreateAutolink adds an autolink reference.
func (c *Client) CreateAutolink(ctx context.Context, owner, repo string, req CreateAutolinkRequest) (any, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo, "autolinks"), req)
}

// GetAutolink returns one autolink reference.
func (c *Client) GetAutolink(ctx context.Context, owner, repo string, autolinkID int64) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "autolinks", strconv.FormatInt(autolinkID, 10)), nil)
}

// DeleteAutolink removes an autolink reference.
func (c *Client) DeleteAutolink(ctx context.Context, owner, repo string, autolinkID int64) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "autolinks", strconv.FormatInt(autolinkID, 10)), nil)
}

// GetContents returns a file or directory listing at path.
func (c *Client) GetContents(ctx context.Context, owner, repo, path string, opts *RefOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "contents", filePath(path)), opts)
}

// PutContents creates a file, or replaces it when req.SHA names the
// current blob.
func (c *Client) PutContents(ctx context.Context, owner, repo, path string, req PutContentsRequest) (any, error) {
	return c.send(ctx, http.MethodPut, repoPath(owner, repo, "contents", filePath(path)), req)
}

// DeleteContents deletes a file. req.SHA must match the current blob.
func (c *Client) DeleteContents(ctx context.Context, owner, repo, path string, req DeleteContentsRequest) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "contents", filePath(path)), req)
}

// GetReadme returns the preferred README of the repository.
func (c *Client) GetReadme(ctx context.Context, owner, repo string, opts *RefOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "readme"), opts)
}

// GetReadmeInDirectory returns the README found in dir.
func (c *Client) GetReadmeInDirectory(ctx context.Context, owner, repo, dir string, opts *RefOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "readme", filePath(dir)), opts)
}

// DownloadArchive fetches a tarball or zipball of ref, or of the default
// branch when ref is empty. The archive is returned as text. format is sent
// as given; the API answers an unknown one with a 404.
func (c *Client) DownloadArchive(ctx context.Context, owner, repo string, format ArchiveFormat, ref string) (any, error) {
	parts := []string{string(format)}
	if ref != "" {
		parts = append(parts, filePath(ref))
	}
	return c.get(ctx, repoPath(owner, repo, parts...), nil)
}

// ListForks lists forks of the repository.
func (c *Client) ListForks(ctx context.Context, owner, repo string, opts *ListForksOptions) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "forks"), opts)
}

// CreateFork forks a repository. A nil req forks into the authenticated
// user's account.
func (c *Client) CreateFork(ctx context.Context, owner, repo string, req *CreateForkRequest) (any, error) {
	if req == nil {
		return c.send(ctx, http.MethodPost, repoPath(owner, repo, "forks"), nil)
	}
	return c.send(ctx, http.MethodPost, repoPath(owner, repo, "forks"), req)
}

// EnableLFS enables Git LFS.
func (c *Client) EnableLFS(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodPut, repoPath(owner, repo, "lfs"), nil)
}

// DisableLFS disables Git LFS.
func (c *Client) DisableLFS(ctx context.Context, owner, repo string) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "lfs"), nil)
}

// ListTagProtection lists tag protection patterns.
func (c *Client) ListTagProtection(ctx context.Context, owner, repo string) (any, error) {
	return c.get(ctx, repoPath(owner, repo, "tags", "protection"), nil)
}

// CreateTagProtection protects tags matching pattern.
func (c *Client) CreateTagProtection(ctx context.Context, owner, repo, pattern string) (any, error) {
	return c.send(ctx, http.MethodPost, repoPath(owner, repo, "tags", "protection"), map[string]string{"pattern": pattern})
}

// DeleteTagProtection removes a tag protection pattern.
func (c *Client) DeleteTagProtection(ctx context.Context, owner, repo string, protectionID int64) (any, error) {
	return c.send(ctx, http.MethodDelete, repoPath(owner, repo, "tags", "protection", strconv.FormatInt(protectionID, 10)), nil)
}
