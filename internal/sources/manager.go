package sources

import (
	"context"
	"fmt"
	"slices"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// Manager routes mod identifiers to the client of their platform.
type Manager struct {
	Modrinth   *ModrinthClient
	CurseForge *CurseForgeClient
	GitHub     *GitHubClient
}

// NewManager creates the platform clients from settings.
func NewManager(s *config.Settings) *Manager {
	return &Manager{
		Modrinth:   NewModrinthClient(s.ModrinthURL),
		CurseForge: NewCurseForgeClient(s.CurseForgeURL, s.CurseForgeAPIKey),
		GitHub:     NewGitHubClient(s.GitHubURL, s.GitHubToken),
	}
}

// Candidates fetches and normalizes every file of an unpinned project, newest first.
// The two returned slices are parallel.
func (m *Manager) Candidates(ctx context.Context, id config.ModIdentifier) ([]metadata.Metadata, []DownloadData, error) {
	switch id.Platform {
	case config.PlatformCurseForge:
		files, err := m.CurseForge.GetModFiles(ctx, id.CurseForgeID)
		if err != nil {
			return nil, nil, err
		}
		slices.SortStableFunc(files, func(a, b CurseForgeFile) int {
			return b.FileDate.Compare(a.FileDate)
		})

		metas := make([]metadata.Metadata, len(files))
		data := make([]DownloadData, len(files))
		for i := range files {
			// Denied files are kept, Resolve reports them only if they are selected.
			metas[i], data[i], _ = FromCurseForgeFile(&files[i])
		}
		return metas, data, nil

	case config.PlatformModrinth:
		versions, err := m.Modrinth.ListVersions(ctx, id.ModrinthID)
		if err != nil {
			return nil, nil, err
		}
		metas := make([]metadata.Metadata, len(versions))
		data := make([]DownloadData, len(versions))
		for i := range versions {
			metas[i], data[i] = FromModrinthVersion(&versions[i])
		}
		return metas, data, nil

	case config.PlatformGitHub:
		releases, err := m.GitHub.ListReleases(ctx, Repository{Owner: id.Owner, Name: id.Repo})
		if err != nil {
			return nil, nil, err
		}
		metas, data := FromGitHubReleases(releases)
		return metas, data, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown platform %q", config.ErrInvalidIdentifier, id.Platform)
}

// Pinned fetches the download data of the file a pinned identifier points to.
func (m *Manager) Pinned(ctx context.Context, id config.ModIdentifier) (DownloadData, error) {
	switch id.Platform {
	case config.PlatformCurseForge:
		fileID, err := id.PinID()
		if err != nil {
			return DownloadData{}, err
		}
		file, err := m.CurseForge.GetModFile(ctx, id.CurseForgeID, fileID)
		if err != nil {
			return DownloadData{}, err
		}
		_, data, err := FromCurseForgeFile(file)
		return data, err

	case config.PlatformModrinth:
		version, err := m.Modrinth.GetVersion(ctx, id.Pin)
		if err != nil {
			return DownloadData{}, err
		}
		_, data := FromModrinthVersion(version)
		return data, nil

	case config.PlatformGitHub:
		assetID, err := pinID(id.Pin)
		if err != nil {
			return DownloadData{}, fmt.Errorf("%w: %v", config.ErrInvalidIdentifier, err)
		}
		asset, err := m.GitHub.GetReleaseAsset(ctx, Repository{Owner: id.Owner, Name: id.Repo}, assetID)
		if err != nil {
			return DownloadData{}, err
		}
		return FromGitHubReleaseAsset(asset), nil
	}
	return DownloadData{}, fmt.Errorf("%w: unknown platform %q", config.ErrInvalidIdentifier, id.Platform)
}
