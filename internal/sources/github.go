package sources

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
)

// GitHubRelease is a release of a repository with its assets.
type GitHubRelease struct {
	Name       string        `json:"name"`
	Body       string        `json:"body"`
	Prerelease bool          `json:"prerelease"`
	Assets     []GitHubAsset `json:"assets"`
}

type GitHubAsset struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Repository names a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// RepositoryResult is the outcome of querying one repository. Exactly one of
// Releases and Err is meaningful.
type RepositoryResult struct {
	// Repository holds the canonical owner and name returned by GitHub.
	Repository Repository
	Releases   []GitHubRelease
	Err        error
}

// GraphQLError is an error reported by the GitHub GraphQL API for one repository.
type GraphQLError struct {
	Type    string
	Message string
}

func (e *GraphQLError) Error() string {
	return e.Message
}

// Unwrap maps NOT_FOUND errors to ErrNotFound.
func (e *GraphQLError) Unwrap() error {
	if e.Type == "NOT_FOUND" {
		return ErrNotFound
	}
	return nil
}

type GitHubClient struct {
	apiClient
}

// NewGitHubClient creates a client, authenticated when token is not empty.
// The GraphQL API requires a token.
func NewGitHubClient(baseURL, token string) *GitHubClient {
	g := &GitHubClient{apiClient: newAPIClient(config.PlatformGitHub, baseURL, newGitHubLimiter())}
	g.headers["Accept"] = "application/vnd.github+json"
	if token != "" {
		g.headers["Authorization"] = "Bearer " + token
	}
	return g
}

// repositoryQuery builds one GraphQL document querying every repository,
// aliased by its index as _0, _1, ...
func repositoryQuery(repos []Repository) string {
	var b strings.Builder
	b.WriteString("{")
	for i, r := range repos {
		fmt.Fprintf(&b, `_%d: repository(owner: %s, name: %s) {
	owner { login }
	name
	releases(first: 100, orderBy: {field: CREATED_AT, direction: DESC}) {
		nodes {
			name
			description
			isPrerelease
			releaseAssets(first: 10) { nodes { databaseId name downloadUrl size } }
		}
	}
}
`, i, strconv.Quote(r.Owner), strconv.Quote(r.Name))
	}
	b.WriteString("}")
	return b.String()
}

type graphQLRepository struct {
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name     string `json:"name"`
	Releases struct {
		Nodes []struct {
			Name          string `json:"name"`
			Description   string `json:"description"`
			IsPrerelease  bool   `json:"isPrerelease"`
			ReleaseAssets struct {
				Nodes []struct {
					DatabaseID  int64  `json:"databaseId"`
					Name        string `json:"name"`
					DownloadURL string `json:"downloadUrl"`
					Size        int64  `json:"size"`
				} `json:"nodes"`
			} `json:"releaseAssets"`
		} `json:"nodes"`
	} `json:"releases"`
}

func (r *graphQLRepository) releases() []GitHubRelease {
	releases := make([]GitHubRelease, 0, len(r.Releases.Nodes))
	for _, node := range r.Releases.Nodes {
		release := GitHubRelease{
			Name:       node.Name,
			Body:       node.Description,
			Prerelease: node.IsPrerelease,
		}
		for _, a := range node.ReleaseAssets.Nodes {
			release.Assets = append(release.Assets, GitHubAsset{
				ID:                 a.DatabaseID,
				Name:               a.Name,
				BrowserDownloadURL: a.DownloadURL,
				Size:               a.Size,
			})
		}
		releases = append(releases, release)
	}
	return releases
}

// QueryRepositories fetches the releases of every repository in a single
// GraphQL request. The result has one entry per repository, in order; per
// repository failures are reported in RepositoryResult.Err.
func (g *GitHubClient) QueryRepositories(ctx context.Context, repos []Repository) ([]RepositoryResult, error) {
	if len(repos) == 0 {
		return nil, nil
	}

	var resp struct {
		Data   map[string]*graphQLRepository `json:"data"`
		Errors []struct {
			Type    string        `json:"type"`
			Path    []interface{} `json:"path"`
			Message string        `json:"message"`
		} `json:"errors"`
	}
	if err := g.postJSON(ctx, "/graphql", map[string]string{"query": repositoryQuery(repos)}, &resp); err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}

	results := make([]RepositoryResult, len(repos))
	for i, r := range repos {
		results[i].Repository = r
		data := resp.Data["_"+strconv.Itoa(i)]
		if data == nil {
			results[i].Err = &GraphQLError{Type: "NOT_FOUND", Message: "could not resolve to a repository"}
			continue
		}
		results[i].Repository = Repository{Owner: data.Owner.Login, Name: data.Name}
		results[i].Releases = data.releases()
	}

	for _, e := range resp.Errors {
		if len(e.Path) == 0 {
			continue
		}
		alias, _ := e.Path[0].(string)
		i, err := strconv.Atoi(strings.TrimPrefix(alias, "_"))
		if err != nil || i < 0 || i >= len(results) {
			continue
		}
		results[i].Releases = nil
		results[i].Err = &GraphQLError{Type: e.Type, Message: e.Message}
	}
	return results, nil
}

// ListReleases lists the releases of a repository, newest first.
func (g *GitHubClient) ListReleases(ctx context.Context, repo Repository) ([]GitHubRelease, error) {
	var releases []GitHubRelease
	endpoint := fmt.Sprintf("/repos/%s/%s/releases?per_page=100", url.PathEscape(repo.Owner), url.PathEscape(repo.Name))
	if err := g.getJSON(ctx, endpoint, &releases); err != nil {
		return nil, fmt.Errorf("failed to list releases of %s: %w", repo, err)
	}
	return releases, nil
}

// GetReleaseAsset fetches one release asset.
func (g *GitHubClient) GetReleaseAsset(ctx context.Context, repo Repository, assetID int64) (*GitHubAsset, error) {
	var asset GitHubAsset
	endpoint := fmt.Sprintf("/repos/%s/%s/releases/assets/%d", url.PathEscape(repo.Owner), url.PathEscape(repo.Name), assetID)
	if err := g.getJSON(ctx, endpoint, &asset); err != nil {
		return nil, fmt.Errorf("failed to get asset %d of %s: %w", assetID, repo, err)
	}
	return &asset, nil
}
