package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
	raw    string
}

func newRecordingServer(t *testing.T) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.EscapedPath()
		captured.query = r.URL.Query()
		raw, _ := io.ReadAll(r.Body)
		captured.raw = string(raw)
		captured.body = nil
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &captured.body))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestRoutes(t *testing.T) {
	server, captured := newRecordingServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() (any, error)
		method string
		path   string
		query  url.Values
		body   map[string]any
	}{
		// users
		{name: "authenticated user", call: func() (any, error) { return client.GetAuthenticatedUser(ctx) }, method: "GET", path: "/user"},
		{name: "update user", call: func() (any, error) {
			return client.UpdateAuthenticatedUser(ctx, UpdateUserRequest{Bio: String("gopher"), Hireable: Bool(false)})
		}, method: "PATCH", path: "/user", body: map[string]any{"bio": "gopher", "hireable": false}},
		{name: "list users", call: func() (any, error) { return client.ListUsers(ctx, &ListUsersOptions{Since: 135, PerPage: 50}) }, method: "GET", path: "/users", query: url.Values{"since": {"135"}, "per_page": {"50"}}},
		{name: "get user", call: func() (any, error) { return client.GetUser(ctx, "octocat") }, method: "GET", path: "/users/octocat"},
		{name: "hovercard", call: func() (any, error) {
			return client.GetUserHovercard(ctx, "octocat", &HovercardOptions{SubjectType: "repository", SubjectID: "1300192"})
		}, method: "GET", path: "/users/octocat/hovercard", query: url.Values{"subject_type": {"repository"}, "subject_id": {"1300192"}}},
		{name: "blocks", call: func() (any, error) { return client.ListBlockedUsers(ctx) }, method: "GET", path: "/user/blocks"},
		{name: "check block", call: func() (any, error) { return client.CheckUserBlocked(ctx, "spammer") }, method: "GET", path: "/user/blocks/spammer"},
		{name: "block", call: func() (any, error) { return client.BlockUser(ctx, "spammer") }, method: "PUT", path: "/user/blocks/spammer"},
		{name: "unblock", call: func() (any, error) { return client.UnblockUser(ctx, "spammer") }, method: "DELETE", path: "/user/blocks/spammer"},
		{name: "email visibility", call: func() (any, error) { return client.SetPrimaryEmailVisibility(ctx, "private") }, method: "PATCH", path: "/user/email/visibility", body: map[string]any{"visibility": "private"}},
		{name: "emails", call: func() (any, error) { return client.ListEmails(ctx, &ListOptions{Page: 2}) }, method: "GET", path: "/user/emails", query: url.Values{"page": {"2"}}},
		{name: "add emails", call: func() (any, error) { return client.AddEmails(ctx, []string{"a@example.com"}) }, method: "POST", path: "/user/emails", body: map[string]any{"emails": []any{"a@example.com"}}},
		{name: "delete emails", call: func() (any, error) { return client.DeleteEmails(ctx, []string{"a@example.com"}) }, method: "DELETE", path: "/user/emails", body: map[string]any{"emails": []any{"a@example.com"}}},
		{name: "public emails", call: func() (any, error) { return client.ListPublicEmails(ctx, nil) }, method: "GET", path: "/user/public_emails"},
		{name: "followers", call: func() (any, error) { return client.ListFollowers(ctx, nil) }, method: "GET", path: "/user/followers"},
		{name: "following", call: func() (any, error) { return client.ListFollowing(ctx, nil) }, method: "GET", path: "/user/following"},
		{name: "check following", call: func() (any, error) { return client.CheckFollowing(ctx, "octocat") }, method: "GET", path: "/user/following/octocat"},
		{name: "follow", call: func() (any, error) { return client.FollowUser(ctx, "octocat") }, method: "PUT", path: "/user/following/octocat"},
		{name: "unfollow", call: func() (any, error) { return client.UnfollowUser(ctx, "octocat") }, method: "DELETE", path: "/user/following/octocat"},
		{name: "followers for user", call: func() (any, error) { return client.ListFollowersForUser(ctx, "octocat", &ListOptions{PerPage: 100}) }, method: "GET", path: "/users/octocat/followers", query: url.Values{"per_page": {"100"}}},
		{name: "following for user", call: func() (any, error) { return client.ListFollowingForUser(ctx, "octocat", nil) }, method: "GET", path: "/users/octocat/following"},
		{name: "user follows", call: func() (any, error) { return client.CheckUserFollows(ctx, "octocat", "hubot") }, method: "GET", path: "/users/octocat/following/hubot"},
		{name: "gpg keys", call: func() (any, error) { return client.ListGPGKeys(ctx, nil) }, method: "GET", path: "/user/gpg_keys"},
		{name: "create gpg key", call: func() (any, error) {
			return client.CreateGPGKey(ctx, CreateGPGKeyRequest{ArmoredPublicKey: "-----BEGIN PGP PUBLIC KEY BLOCK-----"})
		}, method: "POST", path: "/user/gpg_keys", body: map[string]any{"armored_public_key": "-----BEGIN PGP PUBLIC KEY BLOCK-----"}},
		{name: "get gpg key", call: func() (any, error) { return client.GetGPGKey(ctx, 3) }, method: "GET", path: "/user/gpg_keys/3"},
		{name: "delete gpg key", call: func() (any, error) { return client.DeleteGPGKey(ctx, 3) }, method: "DELETE", path: "/user/gpg_keys/3"},
		{name: "gpg keys for user", call: func() (any, error) { return client.ListGPGKeysForUser(ctx, "octocat", nil) }, method: "GET", path: "/users/octocat/gpg_keys"},
		{name: "ssh keys", call: func() (any, error) { return client.ListSSHKeys(ctx, nil) }, method: "GET", path: "/user/keys"},
		{name: "create ssh key", call: func() (any, error) {
			return client.CreateSSHKey(ctx, CreateSSHKeyRequest{Title: "laptop", Key: "ssh-ed25519 AAAA"})
		}, method: "POST", path: "/user/keys", body: map[string]any{"title": "laptop", "key": "ssh-ed25519 AAAA"}},
		{name: "get ssh key", call: func() (any, error) { return client.GetSSHKey(ctx, 7) }, method: "GET", path: "/user/keys/7"},
		{name: "delete ssh key", call: func() (any, error) { return client.DeleteSSHKey(ctx, 7) }, method: "DELETE", path: "/user/keys/7"},
		{name: "ssh keys for user", call: func() (any, error) { return client.ListSSHKeysForUser(ctx, "octocat", nil) }, method: "GET", path: "/users/octocat/keys"},

		// repos
		{name: "org repos", call: func() (any, error) {
			return client.ListOrgRepos(ctx, "github", &ListReposOptions{Type: "public", Sort: "updated"})
		}, method: "GET", path: "/orgs/github/repos", query: url.Values{"type": {"public"}, "sort": {"updated"}}},
		{name: "create org repo", call: func() (any, error) {
			return client.CreateOrgRepo(ctx, "github", CreateRepoRequest{Name: "tools", Private: Bool(false), AllowRebaseMerge: Bool(true)})
		}, method: "POST", path: "/orgs/github/repos", body: map[string]any{"name": "tools", "private": false, "allow_rebase_merge": true}},
		{name: "get repo", call: func() (any, error) { return client.GetRepo(ctx, "octocat", "hello-world") }, method: "GET", path: "/repos/octocat/hello-world"},
		{name: "update repo", call: func() (any, error) {
			return client.UpdateRepo(ctx, "octocat", "hello-world", UpdateRepoRequest{
				DefaultBranch:       "main",
				SecurityAndAnalysis: &SecurityAndAnalysis{SecretScanning: &SecurityFeature{Status: "enabled"}},
			})
		}, method: "PATCH", path: "/repos/octocat/hello-world", body: map[string]any{
			"default_branch":        "main",
			"security_and_analysis": map[string]any{"secret_scanning": map[string]any{"status": "enabled"}},
		}},
		{name: "delete repo", call: func() (any, error) { return client.DeleteRepo(ctx, "octocat", "hello-world") }, method: "DELETE", path: "/repos/octocat/hello-world"},
		{name: "enable security fixes", call: func() (any, error) { return client.EnableAutomatedSecurityFixes(ctx, "o", "r") }, method: "PUT", path: "/repos/o/r/automated-security-fixes"},
		{name: "disable security fixes", call: func() (any, error) { return client.DisableAutomatedSecurityFixes(ctx, "o", "r") }, method: "DELETE", path: "/repos/o/r/automated-security-fixes"},
		{name: "codeowners errors", call: func() (any, error) { return client.ListCodeownersErrors(ctx, "o", "r", &RefOptions{Ref: "main"}) }, method: "GET", path: "/repos/o/r/codeowners/errors", query: url.Values{"ref": {"main"}}},
		{name: "contributors", call: func() (any, error) { return client.ListContributors(ctx, "o", "r", &ContributorsOptions{Anon: Bool(true)}) }, method: "GET", path: "/repos/o/r/contributors", query: url.Values{"anon": {"true"}}},
		{name: "dispatch", call: func() (any, error) {
			return client.CreateDispatchEvent(ctx, "o", "r", DispatchRequest{EventType: "deploy"})
		}, method: "POST", path: "/repos/o/r/dispatches", body: map[string]any{"event_type": "deploy"}},
		{name: "languages", call: func() (any, error) { return client.ListLanguages(ctx, "o", "r") }, method: "GET", path: "/repos/o/r/languages"},
		{name: "tags", call: func() (any, error) { return client.ListTags(ctx, "o", "r", nil) }, method: "GET", path: "/repos/o/r/tags"},
		{name: "teams", call: func() (any, error) { return client.ListRepoTeams(ctx, "o", "r", nil) }, method: "GET", path: "/repos/o/r/teams"},
		{name: "topics", call: func() (any, error) { return client.GetTopics(ctx, "o", "r", nil) }, method: "GET", path: "/repos/o/r/topics"},
		{name: "replace topics", call: func() (any, error) { return client.ReplaceTopics(ctx, "o", "r", nil) }, method: "PUT", path: "/repos/o/r/topics", body: map[string]any{"names": []any{}}},
		{name: "transfer", call: func() (any, error) {
			return client.TransferRepo(ctx, "o", "r", TransferRepoRequest{NewOwner: "github", TeamIDs: []int64{12}})
		}, method: "POST", path: "/repos/o/r/transfer", body: map[string]any{"new_owner": "github", "team_ids": []any{float64(12)}}},
		{name: "check vulnerability alerts", call: func() (any, error) { return client.CheckVulnerabilityAlerts(ctx, "o", "r") }, method: "GET", path: "/repos/o/r/vulnerability-alerts"},
		{name: "enable vulnerability alerts", call: func() (any, error) { return client.EnableVulnerabilityAlerts(ctx, "o", "r") }, method: "PUT", path: "/repos/o/r/vulnerability-alerts"},
		{name: "disable vulnerability alerts", call: func() (any, error) { return client.DisableVulnerabilityAlerts(ctx, "o", "r") }, method: "DELETE", path: "/repos/o/r/vulnerability-alerts"},
		{name: "from template", call: func() (any, error) {
			return client.CreateRepoFromTemplate(ctx, "tmpl", "base", TemplateRepoRequest{Name: "new", IncludeAllBranches: Bool(false)})
		}, method: "POST", path: "/repos/tmpl/base/generate", body: map[string]any{"name": "new", "include_all_branches": false}},
		{name: "public repos", call: func() (any, error) { return client.ListPublicRepos(ctx, &PublicReposOptions{Since: 364}) }, method: "GET", path: "/repositories", query: url.Values{"since": {"364"}}},
		{name: "my repos", call: func() (any, error) {
			return client.ListReposForAuthenticatedUser(ctx, &ListAuthenticatedReposOptions{Visibility: "private", Affiliation: "owner"})
		}, method: "GET", path: "/user/repos", query: url.Values{"visibility": {"private"}, "affiliation": {"owner"}}},
		{name: "create my repo", call: func() (any, error) {
			return client.CreateRepoForAuthenticatedUser(ctx, CreateRepoRequest{Name: "scratch", AutoInit: Bool(true)})
		}, method: "POST", path: "/user/repos", body: map[string]any{"name": "scratch", "auto_init": true}},
		{name: "user repos", call: func() (any, error) { return client.ListReposForUser(ctx, "octocat", nil) }, method: "GET", path: "/users/octocat/repos"},
		{name: "autolinks", call: func() (any, error) { return client.ListAutolinks(ctx, "o", "r", nil) }, method: "GET", path: "/repos/o/r/autolinks"},
		{name: "create autolink", call: func() (any, error) {
			return client.CreateAutolink(ctx, "o", "r", CreateAutolinkRequest{KeyPrefix: "TICKET-", URLTemplate: "https://example.com/TICKET?query=<num>"})
		}, method: "POST", path: "/repos/o/r/autolinks", body: map[string]any{"key_prefix": "TICKET-", "url_template": "https://example.com/TICKET?query=<num>"}},
		{name: "get autolink", call: func() (any, error) { return client.GetAutolink(ctx, "o", "r", 1) }, method: "GET", path: "/repos/o/r/autolinks/1"},
		{name: "delete autolink", call: func() (any, error) { return client.DeleteAutolink(ctx, "o", "r", 1) }, method: "DELETE", path: "/repos/o/r/autolinks/1"},
		{name: "contents", call: func() (any, error) { return client.GetContents(ctx, "o", "r", "docs/read me.md", nil) }, method: "GET", path: "/repos/o/r/contents/docs/read%20me.md"},
		{name: "put contents", call: func() (any, error) {
			return client.PutContents(ctx, "o", "r", "a.txt", PutContentsRequest{Message: "add", Content: "aGk=", Committer: &CommitIdentity{Name: "Mona", Email: "mona@example.com"}})
		}, method: "PUT", path: "/repos/o/r/contents/a.txt", body: map[string]any{
			"message": "add", "content": "aGk=", "committer": map[string]any{"name": "Mona", "email": "mona@example.com"},
		}},
		{name: "delete contents", call: func() (any, error) {
			return client.DeleteContents(ctx, "o", "r", "a.txt", DeleteContentsRequest{Message: "rm", SHA: "abc"})
		}, method: "DELETE", path: "/repos/o/r/contents/a.txt", body: map[string]any{"message": "rm", "sha": "abc"}},
		{name: "readme", call: func() (any, error) { return client.GetReadme(ctx, "o", "r", nil) }, method: "GET", path: "/repos/o/r/readme"},
		{name: "readme in dir", call: func() (any, error) { return client.GetReadmeInDirectory(ctx, "o", "r", "docs", &RefOptions{Ref: "v1"}) }, method: "GET", path: "/repos/o/r/readme/docs", query: url.Values{"ref": {"v1"}}},
		{name: "archive", call: func() (any, error) { return client.DownloadArchive(ctx, "o", "r", ArchiveZipball, "v1.0") }, method: "GET", path: "/repos/o/r/zipball/v1.0"},
		{name: "forks", call: func() (any, error) { return client.ListForks(ctx, "o", "r", &ListForksOptions{Sort: "stargazers"}) }, method: "GET", path: "/repos/o/r/forks", query: url.Values{"sort": {"stargazers"}}},
		{name: "create fork", call: func() (any, error) { return client.CreateFork(ctx, "o", "r", &CreateForkRequest{Organization: "acme"}) }, method: "POST", path: "/repos/o/r/forks", body: map[string]any{"organization": "acme"}},
		{name: "create fork default", call: func() (any, error) { return client.CreateFork(ctx, "o", "r", nil) }, method: "POST", path: "/repos/o/r/forks"},
		{name: "enable lfs", call: func() (any, error) { return client.EnableLFS(ctx, "o", "r") }, method: "PUT", path: "/repos/o/r/lfs"},
		{name: "disable lfs", call: func() (any, error) { return client.DisableLFS(ctx, "o", "r") }, method: "DELETE", path: "/repos/o/r/lfs"},
		{name: "tag protection", call: func() (any, error) { return client.ListTagProtection(ctx, "o", "r") }, method: "GET", path: "/repos/o/r/tags/protection"},
		{name: "create tag protection", call: func() (any, error) { return client.CreateTagProtection(ctx, "o", "r", "v*") }, method: "POST", path: "/repos/o/r/tags/protection", body: map[string]any{"pattern": "v*"}},
		{name: "delete tag protection", call: func() (any, error) { return client.DeleteTagProtection(ctx, "o", "r", 2) }, method: "DELETE", path: "/repos/o/r/tags/protection/2"},

		// gists
		{name: "gists", call: func() (any, error) { return client.ListGists(ctx, &ListGistsOptions{Since: "2026-01-01T00:00:00Z"}) }, method: "GET", path: "/gists", query: url.Values{"since": {"2026-01-01T00:00:00Z"}}},
		{name: "create gist", call: func() (any, error) {
			return client.CreateGist(ctx, CreateGistRequest{Files: GistFiles(map[string]string{"hello.go": "package main"}), Public: Bool(true)})
		}, method: "POST", path: "/gists", body: map[string]any{"files": map[string]any{"hello.go": map[string]any{"content": "package main"}}, "public": true}},
		{name: "public gists", call: func() (any, error) { return client.ListPublicGists(ctx, nil) }, method: "GET", path: "/gists/public"},
		{name: "starred gists", call: func() (any, error) { return client.ListStarredGists(ctx, nil) }, method: "GET", path: "/gists/starred"},
		{name: "get gist", call: func() (any, error) { return client.GetGist(ctx, "aa5a315d") }, method: "GET", path: "/gists/aa5a315d"},
		{name: "update gist", call: func() (any, error) {
			return client.UpdateGist(ctx, "aa5a315d", UpdateGistRequest{Description: String("new"), Files: map[string]*GistFile{"old.txt": nil}})
		}, method: "PATCH", path: "/gists/aa5a315d", body: map[string]any{"description": "new", "files": map[string]any{"old.txt": nil}}},
		{name: "delete gist", call: func() (any, error) { return client.DeleteGist(ctx, "aa5a315d") }, method: "DELETE", path: "/gists/aa5a315d"},
		{name: "gist commits", call: func() (any, error) { return client.ListGistCommits(ctx, "aa5a315d", nil) }, method: "GET", path: "/gists/aa5a315d/commits"},
		{name: "gist forks", call: func() (any, error) { return client.ListGistForks(ctx, "aa5a315d", nil) }, method: "GET", path: "/gists/aa5a315d/forks"},
		{name: "fork gist", call: func() (any, error) { return client.ForkGist(ctx, "aa5a315d") }, method: "POST", path: "/gists/aa5a315d/forks"},
		{name: "gist starred", call: func() (any, error) { return client.CheckGistStarred(ctx, "aa5a315d") }, method: "GET", path: "/gists/aa5a315d/star"},
		{name: "star gist", call: func() (any, error) { return client.StarGist(ctx, "aa5a315d") }, method: "PUT", path: "/gists/aa5a315d/star"},
		{name: "unstar gist", call: func() (any, error) { return client.UnstarGist(ctx, "aa5a315d") }, method: "DELETE", path: "/gists/aa5a315d/star"},
		{name: "gist revision", call: func() (any, error) { return client.GetGistRevision(ctx, "aa5a315d", "3d7ee9") }, method: "GET", path: "/gists/aa5a315d/3d7ee9"},
		{name: "user gists", call: func() (any, error) { return client.ListGistsForUser(ctx, "octocat", nil) }, method: "GET", path: "/users/octocat/gists"},
		{name: "gist comments", call: func() (any, error) { return client.ListGistComments(ctx, "g", nil) }, method: "GET", path: "/gists/g/comments"},
		{name: "create gist comment", call: func() (any, error) { return client.CreateGistComment(ctx, "g", "nice") }, method: "POST", path: "/gists/g/comments", body: map[string]any{"body": "nice"}},
		{name: "get gist comment", call: func() (any, error) { return client.GetGistComment(ctx, "g", "1") }, method: "GET", path: "/gists/g/comments/1"},
		{name: "update gist comment", call: func() (any, error) { return client.UpdateGistComment(ctx, "g", "1", "nicer") }, method: "PATCH", path: "/gists/g/comments/1", body: map[string]any{"body": "nicer"}},
		{name: "delete gist comment", call: func() (any, error) { return client.DeleteGistComment(ctx, "g", "1") }, method: "DELETE", path: "/gists/g/comments/1"},

		// licenses, gitignore, emojis, codes of conduct
		{name: "licenses", call: func() (any, error) { return client.ListLicenses(ctx) }, method: "GET", path: "/licenses"},
		{name: "license", call: func() (any, error) { return client.GetLicense(ctx, "mit") }, method: "GET", path: "/licenses/mit"},
		{name: "repo license", call: func() (any, error) { return client.GetRepoLicense(ctx, "o", "r") }, method: "GET", path: "/repos/o/r/license"},
		{name: "gitignore templates", call: func() (any, error) { return client.ListGitignoreTemplates(ctx) }, method: "GET", path: "/gitignore/templates"},
		{name: "gitignore template", call: func() (any, error) { return client.GetGitignoreTemplate(ctx, "Go") }, method: "GET", path: "/gitignore/templates/Go"},
		{name: "emojis", call: func() (any, error) { return client.GetEmojis(ctx) }, method: "GET", path: "/emojis"},
		{name: "codes of conduct", call: func() (any, error) { return client.ListCodesOfConduct(ctx) }, method: "GET", path: "/codes_of_conduct"},
		{name: "code of conduct", call: func() (any, error) { return client.GetCodeOfConduct(ctx, "contributor_covenant") }, method: "GET", path: "/codes_of_conduct/contributor_covenant"},

		// deploy keys
		{name: "deploy keys", call: func() (any, error) { return client.ListDeployKeys(ctx, "o", "r", nil) }, method: "GET", path: "/repos/o/r/keys"},
		{name: "create deploy key", call: func() (any, error) {
			return client.CreateDeployKey(ctx, "o", "r", CreateDeployKeyRequest{Key: "ssh-rsa AAA", ReadOnly: Bool(true)})
		}, method: "POST", path: "/repos/o/r/keys", body: map[string]any{"key": "ssh-rsa AAA", "read_only": true}},
		{name: "get deploy key", call: func() (any, error) { return client.GetDeployKey(ctx, "o", "r", 9) }, method: "GET", path: "/repos/o/r/keys/9"},
		{name: "delete deploy key", call: func() (any, error) { return client.DeleteDeployKey(ctx, "o", "r", 9) }, method: "DELETE", path: "/repos/o/r/keys/9"},

		// markdown and meta
		{name: "markdown", call: func() (any, error) {
			return client.RenderMarkdown(ctx, MarkdownRequest{Text: "#1", Mode: "gfm", Context: "o/r"})
		}, method: "POST", path: "/markdown", body: map[string]any{"text": "#1", "mode": "gfm", "context": "o/r"}},
		{name: "api root", call: func() (any, error) { return client.GetAPIRoot(ctx) }, method: "GET", path: "/"},
		{name: "meta", call: func() (any, error) { return client.GetMeta(ctx) }, method: "GET", path: "/meta"},
		{name: "octocat", call: func() (any, error) { return client.GetOctocat(ctx, "") }, method: "GET", path: "/octocat"},
		{name: "octocat says", call: func() (any, error) { return client.GetOctocat(ctx, "hi") }, method: "GET", path: "/octocat", query: url.Values{"s": {"hi"}}},
		{name: "zen", call: func() (any, error) { return client.GetZen(ctx) }, method: "GET", path: "/zen"},
		{name: "rate limit", call: func() (any, error) { return client.GetRateLimit(ctx) }, method: "GET", path: "/rate_limit"},

		// search
		{name: "search code", call: func() (any, error) {
			return client.SearchCode(ctx, "addClass in:file language:js", &SearchOptions{Sort: "indexed", Order: "asc"})
		}, method: "GET", path: "/search/code", query: url.Values{"q": {"addClass in:file language:js"}, "sort": {"indexed"}, "order": {"asc"}}},
		{name: "search commits", call: func() (any, error) { return client.SearchCommits(ctx, "repo:o/r fix", nil) }, method: "GET", path: "/search/commits", query: url.Values{"q": {"repo:o/r fix"}}},
		{name: "search issues", call: func() (any, error) {
			return client.SearchIssues(ctx, "is:open", &SearchOptions{PerPage: 5, Page: 3})
		}, method: "GET", path: "/search/issues", query: url.Values{"q": {"is:open"}, "per_page": {"5"}, "page": {"3"}}},
		{name: "search labels", call: func() (any, error) { return client.SearchLabels(ctx, 64778136, "bug", nil) }, method: "GET", path: "/search/labels", query: url.Values{"q": {"bug"}, "repository_id": {"64778136"}}},
		{name: "search repos", call: func() (any, error) { return client.SearchRepos(ctx, "tetris", &SearchOptions{Sort: "stars"}) }, method: "GET", path: "/search/repositories", query: url.Values{"q": {"tetris"}, "sort": {"stars"}}},
		{name: "search topics", call: func() (any, error) { return client.SearchTopics(ctx, "ruby", &ListOptions{PerPage: 10}) }, method: "GET", path: "/search/topics", query: url.Values{"q": {"ruby"}, "per_page": {"10"}}},
		{name: "search users", call: func() (any, error) { return client.SearchUsers(ctx, "tom", nil) }, method: "GET", path: "/search/users", query: url.Values{"q": {"tom"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := tt.call()
			require.NoError(t, err)
			require.Equal(t, map[string]any{}, payload)

			require.Equal(t, tt.method, captured.method)
			require.Equal(t, tt.path, captured.path)

			wantQuery := tt.query
			if wantQuery == nil {
				wantQuery = url.Values{}
			}
			require.Equal(t, wantQuery, captured.query)
			require.Equal(t, tt.body, captured.body, captured.raw)
		})
	}
}

func TestOmittedOptionalsAreAbsent(t *testing.T) {
	server, captured := newRecordingServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	_, err := client.ListOrgRepos(ctx, "github", &ListReposOptions{})
	require.NoError(t, err)
	require.Empty(t, captured.query)

	_, err = client.UpdateRepo(ctx, "o", "r", UpdateRepoRequest{Archived: Bool(true)})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"archived": true}, captured.body)

	_, err = client.CreateGist(ctx, CreateGistRequest{Files: GistFiles(map[string]string{"a": "b"})})
	require.NoError(t, err)
	require.NotContains(t, captured.body, "public")
	require.NotContains(t, captured.body, "description")
}

func TestRoutesPassArgumentsThrough(t *testing.T) {
	server, captured := newRecordingServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	_, err := client.SearchRepos(ctx, "", nil)
	require.NoError(t, err)
	require.Equal(t, "/search/repositories", captured.path)
	require.True(t, captured.query.Has("q"))
	require.Equal(t, "", captured.query.Get("q"))

	_, err = client.DownloadArchive(ctx, "o", "r", "tar.gz", "")
	require.NoError(t, err)
	require.Equal(t, "GET", captured.method)
	require.Equal(t, "/repos/o/r/tar.gz", captured.path)
}

func TestEmptySearchQueryReturnsAPIError(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server)

	_, err := client.SearchCode(context.Background(), "", nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.Equal(t, 1, hits)
}

func TestEncodeQuery(t *testing.T) {
	values, err := encodeQuery(&ContributorsOptions{Anon: Bool(false), PerPage: 30})
	require.NoError(t, err)
	require.Equal(t, url.Values{"anon": {"false"}, "per_page": {"30"}}, values)

	var nilOpts *ListOptions
	values, err = encodeQuery(nilOpts)
	require.NoError(t, err)
	require.Nil(t, values)

	values, err = encodeQuery(map[string]any{"ids": []int{1, 2}})
	require.NoError(t, err)
	require.Equal(t, "1,2", values.Get("ids"))

	for name, tc := range map[string]struct {
		options any
		key     string
		want    string
	}{
		"int64 above 2^53": {&ListUsersOptions{Since: 9007199254740993}, "since", "9007199254740993"},
		"max int64":         {&ListUsersOptions{Since: 9223372036854775807}, "since", "9223372036854775807"},
		"float":             {map[string]any{"ratio": 0.25}, "ratio", "0.25"},
		"id list":           {map[string]any{"ids": []int64{9007199254740993, 7}}, "ids", "9007199254740993,7"},
	} {
		t.Run(name, func(t *testing.T) {
			values, err := encodeQuery(tc.options)
			require.NoError(t, err)
			require.Equal(t, tc.want, values.Get(tc.key))
		})
	}
}

func TestListUsersSendsLargeSinceExactly(t *testing.T) {
	server, captured := newRecordingServer(t)
	client := newTestClient(t, server)

	_, err := client.ListUsers(context.Background(), &ListUsersOptions{Since: 9007199254740993})
	require.NoError(t, err)
	require.Equal(t, "9007199254740993", captured.query.Get("since"))
}
