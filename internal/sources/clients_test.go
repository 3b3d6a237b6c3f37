package sources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestModrinthGetProjects(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects", r.URL.Path)
		assert.Equal(t, `["AANobbMI","lithium"]`, r.URL.Query().Get("ids"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		io.WriteString(w, `[{"id":"AANobbMI","slug":"sodium","title":"Sodium","project_type":"mod","game_versions":["1.20.1"],"loaders":["fabric","quilt"],"versions":["v1"]}]`)
	})

	projects, err := NewModrinthClient(srv.URL).GetProjects(context.Background(), []string{"AANobbMI", "lithium"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Sodium", projects[0].Title)
	assert.Equal(t, []string{"v1"}, projects[0].Versions)
}

func TestModrinthListGameVersions(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tag/game_version", r.URL.Path)
		io.WriteString(w, `[
			{"version":"1.20.1","version_type":"release","major":false},
			{"version":"23w31a","version_type":"snapshot","major":false},
			{"version":"1.20","version_type":"release","major":true}
		]`)
	})

	versions, err := NewModrinthClient(srv.URL).ListGameVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []metadata.GameVersion{
		{Version: "1.20.1", Type: metadata.VersionRelease},
		{Version: "23w31a", Type: metadata.VersionSnapshot},
		{Version: "1.20", Type: metadata.VersionRelease, Major: true},
	}, versions)
}

func TestModrinthVersionGroupsEndToEnd(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"version":"1.20.1","version_type":"release","major":false},
			{"version":"1.20","version_type":"release","major":true},
			{"version":"1.19.4","version_type":"release","major":false}
		]`)
	})

	groups := metadata.NewVersionGroups(NewModrinthClient(srv.URL))
	expanded, err := groups.Expand(context.Background(), []string{"1.20"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1.20.1", "1.20"}, expanded)
}

func TestModrinthNotFound(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := NewModrinthClient(srv.URL).GetVersion(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModrinthServerError(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := NewModrinthClient(srv.URL).ListVersions(context.Background(), "sodium")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, config.PlatformModrinth, apiErr.Platform)
}

func TestCurseForgeGetMods(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/mods", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body map[string][]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{238222}, body["modIds"])

		io.WriteString(w, `{"data":[{"id":238222,"name":"JEI","slug":"jei","links":{"websiteUrl":"https://www.curseforge.com/minecraft/mc-mods/jei"},"allowModDistribution":true,"latestFilesIndexes":[{"gameVersion":"1.20.1","fileId":1,"modLoader":1},{"gameVersion":"1.20.1","fileId":2,"modLoader":6}]}]}`)
	})

	mods, err := NewCurseForgeClient(srv.URL, "secret").GetMods(context.Background(), []int{238222})
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.True(t, *mods[0].AllowModDistribution)

	candidate := CurseForgeCandidate(&mods[0])
	assert.Equal(t, []string{"1.20.1", "1.20.1"}, candidate.GameVersions)
	assert.Equal(t, []metadata.Loader{metadata.LoaderForge, metadata.LoaderNeoForge}, candidate.Loaders)
}

func TestCurseForgeGetModFilesPaginates(t *testing.T) {
	var calls int
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/mods/1/files", r.URL.Path)
		switch r.URL.Query().Get("index") {
		case "0":
			io.WriteString(w, `{"data":[{"id":1},{"id":2}],"pagination":{"index":0,"resultCount":2,"totalCount":3}}`)
		case "2":
			io.WriteString(w, `{"data":[{"id":3}],"pagination":{"index":2,"resultCount":1,"totalCount":3}}`)
		default:
			t.Errorf("unexpected index %q", r.URL.Query().Get("index"))
		}
	})

	files, err := NewCurseForgeClient(srv.URL, "").GetModFiles(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Equal(t, 2, calls)
}

func TestGitHubQueryRepositories(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body["query"], `_0: repository(owner: "CaffeineMC", name: "sodium-fabric")`)
		assert.Contains(t, body["query"], `_1: repository(owner: "ghost", name: "missing")`)
		assert.Contains(t, body["query"], `_2: repository(owner: "private", name: "repo")`)

		writeJSON(t, w, map[string]interface{}{
			"data": map[string]interface{}{
				"_0": map[string]interface{}{
					"owner": map[string]string{"login": "CaffeineMC"},
					"name":  "sodium-fabric",
					"releases": map[string]interface{}{"nodes": []interface{}{
						map[string]interface{}{
							"name":         "Sodium 0.5.3",
							"description":  "Fixes",
							"isPrerelease": false,
							"releaseAssets": map[string]interface{}{"nodes": []interface{}{
								map[string]interface{}{"databaseId": 42, "name": "sodium-fabric-mc1.20.1-0.5.3.jar", "downloadUrl": "https://example.com/a.jar", "size": 10},
							}},
						},
					}},
				},
				"_1": nil,
				"_2": nil,
			},
			"errors": []interface{}{
				map[string]interface{}{"type": "NOT_FOUND", "path": []string{"_1"}, "message": "Could not resolve to a Repository"},
				map[string]interface{}{"type": "FORBIDDEN", "path": []string{"_2"}, "message": "Resource not accessible"},
			},
		})
	})

	results, err := NewGitHubClient(srv.URL, "token").QueryRepositories(context.Background(), []Repository{
		{Owner: "CaffeineMC", Name: "sodium-fabric"},
		{Owner: "ghost", Name: "missing"},
		{Owner: "private", Name: "repo"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Releases, 1)
	assert.Equal(t, int64(42), results[0].Releases[0].Assets[0].ID)

	assert.ErrorIs(t, results[1].Err, ErrNotFound)

	var gqlErr *GraphQLError
	require.ErrorAs(t, results[2].Err, &gqlErr)
	assert.Equal(t, "FORBIDDEN", gqlErr.Type)
	assert.False(t, errors.Is(results[2].Err, ErrNotFound))
}

func TestGitHubListReleases(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/releases", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `[{"name":"v2","body":"","prerelease":true,"assets":[{"id":7,"name":"mod-fabric-1.20.1.jar","browser_download_url":"https://example.com/7","size":3}]}]`)
	})

	releases, err := NewGitHubClient(srv.URL, "").ListReleases(context.Background(), Repository{Owner: "owner", Name: "repo"})
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.True(t, releases[0].Prerelease)
}

func TestRequestsHonourContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewModrinthClient(srv.URL).ListVersions(ctx, "sodium")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline"))
}
