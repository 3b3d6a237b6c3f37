package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// ModrinthProject is a project as returned by the Modrinth API.
type ModrinthProject struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	ProjectType  string   `json:"project_type"`
	GameVersions []string `json:"game_versions"`
	Loaders      []string `json:"loaders"`
	// Versions lists the IDs of every version of the project.
	Versions []string `json:"versions"`
}

// ModrinthVersion is a version of a Modrinth project.
type ModrinthVersion struct {
	ID            string               `json:"id"`
	ProjectID     string               `json:"project_id"`
	Name          string               `json:"name"`
	VersionNumber string               `json:"version_number"`
	Changelog     string               `json:"changelog"`
	VersionType   string               `json:"version_type"`
	GameVersions  []string             `json:"game_versions"`
	Loaders       []string             `json:"loaders"`
	Files         []ModrinthFile       `json:"files"`
	Dependencies  []ModrinthDependency `json:"dependencies"`
	DatePublished time.Time            `json:"date_published"`
}

type ModrinthFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
	Hashes   struct {
		SHA1   string `json:"sha1"`
		SHA512 string `json:"sha512"`
	} `json:"hashes"`
}

type ModrinthDependency struct {
	VersionID      string `json:"version_id"`
	ProjectID      string `json:"project_id"`
	DependencyType string `json:"dependency_type"`
}

// PrimaryFile returns the primary file of the version, or its first file.
func (v *ModrinthVersion) PrimaryFile() (ModrinthFile, bool) {
	for _, f := range v.Files {
		if f.Primary {
			return f, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return ModrinthFile{}, false
}

type ModrinthClient struct {
	apiClient
}

func NewModrinthClient(baseURL string) *ModrinthClient {
	return &ModrinthClient{apiClient: newAPIClient(config.PlatformModrinth, baseURL, newModrinthLimiter())}
}

// GetProjects fetches every project in ids (IDs or slugs) in one request.
// Unknown projects are absent from the result.
func (m *ModrinthClient) GetProjects(ctx context.Context, ids []string) ([]ModrinthProject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}

	var projects []ModrinthProject
	if err := m.getJSON(ctx, "/projects?ids="+url.QueryEscape(string(encoded)), &projects); err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// ListVersions lists every version of a project, newest first.
func (m *ModrinthClient) ListVersions(ctx context.Context, projectID string) ([]ModrinthVersion, error) {
	var versions []ModrinthVersion
	if err := m.getJSON(ctx, fmt.Sprintf("/project/%s/version", url.PathEscape(projectID)), &versions); err != nil {
		return nil, fmt.Errorf("failed to list versions of %s: %w", projectID, err)
	}
	return versions, nil
}

// GetVersion fetches a single version.
func (m *ModrinthClient) GetVersion(ctx context.Context, versionID string) (*ModrinthVersion, error) {
	var version ModrinthVersion
	if err := m.getJSON(ctx, "/version/"+url.PathEscape(versionID), &version); err != nil {
		return nil, fmt.Errorf("failed to get version %s: %w", versionID, err)
	}
	return &version, nil
}

// ListGameVersions lists every Minecraft version known to Modrinth, newest first.
// It implements metadata.GameVersionLister.
func (m *ModrinthClient) ListGameVersions(ctx context.Context) ([]metadata.GameVersion, error) {
	var versions []metadata.GameVersion
	if err := m.getJSON(ctx, "/tag/game_version", &versions); err != nil {
		return nil, fmt.Errorf("failed to list game versions: %w", err)
	}
	return versions, nil
}
