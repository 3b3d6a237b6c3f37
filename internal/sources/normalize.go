package sources

import (
	"strconv"
	"strings"

	"github.com/gorilla-devs/ferium-sub000/internal/checksum"
	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// FromModrinthVersion normalizes a Modrinth version.
func FromModrinthVersion(v *ModrinthVersion) (metadata.Metadata, DownloadData) {
	file, _ := v.PrimaryFile()

	channel, err := metadata.ParseReleaseChannel(v.VersionType)
	if err != nil {
		channel = metadata.ChannelRelease
	}

	meta := metadata.Metadata{
		Title:        v.Name,
		Description:  v.Changelog,
		Filename:     file.Filename,
		Channel:      channel,
		GameVersions: v.GameVersions,
		Loaders:      metadata.ParseLoaders(v.Loaders),
	}

	data := DownloadData{
		URL:    file.URL,
		Output: file.Filename,
		Length: file.Size,
		Hashes: checksum.Checksums{SHA1: file.Hashes.SHA1, SHA512: file.Hashes.SHA512},
	}
	for _, d := range v.Dependencies {
		if d.ProjectID == "" {
			continue
		}
		id := config.ModrinthProject(d.ProjectID)
		if d.VersionID != "" {
			id = id.Pinned(d.VersionID)
		}
		switch d.DependencyType {
		case "required":
			data.Dependencies = append(data.Dependencies, id)
		case "incompatible":
			data.Conflicts = append(data.Conflicts, id)
		}
	}
	return meta, data
}

// FromCurseForgeFile normalizes a CurseForge file. Files without a download URL
// are still normalized so they take part in selection, but their DownloadData
// is marked Denied and the returned error is a *DistributionDeniedError.
func FromCurseForgeFile(f *CurseForgeFile) (metadata.Metadata, DownloadData, error) {
	channel := metadata.ChannelRelease
	switch f.ReleaseType {
	case CurseForgeBeta:
		channel = metadata.ChannelBeta
	case CurseForgeAlpha:
		channel = metadata.ChannelAlpha
	}

	meta := metadata.Metadata{
		Title:        f.DisplayName,
		Filename:     f.FileName,
		Channel:      channel,
		GameVersions: f.GameVersions,
		Loaders:      metadata.ParseLoaders(f.GameVersions),
	}

	data := DownloadData{
		Output: f.FileName,
		Length: f.FileLength,
	}
	for _, h := range f.Hashes {
		if h.Algo == CurseForgeSHA1 {
			data.Hashes.SHA1 = h.Value
		}
	}
	for _, d := range f.Dependencies {
		switch d.RelationType {
		case CurseForgeRequiredDependency:
			data.Dependencies = append(data.Dependencies, config.CurseForgeProject(d.ModID))
		case CurseForgeIncompatible:
			data.Conflicts = append(data.Conflicts, config.CurseForgeProject(d.ModID))
		}
	}

	if f.DownloadURL == nil || *f.DownloadURL == "" {
		data.Denied = &DistributionDeniedError{ModID: f.ModID, FileID: f.ID}
		return meta, data, data.Denied
	}
	data.URL = *f.DownloadURL
	return meta, data, nil
}

// ParseAssetName derives game versions and loaders from a release asset name
// such as "sodium-fabric-mc1.20.1-0.5.3.jar". Every token counts as a game
// version, so spurious entries are expected and harmless.
func ParseAssetName(name string) (gameVersions []string, loaders []metadata.Loader) {
	tokens := strings.FieldsFunc(strings.TrimSuffix(name, ".jar"), func(r rune) bool {
		return r == '-' || r == '_' || r == '+'
	})
	for _, t := range tokens {
		gameVersions = append(gameVersions, strings.TrimPrefix(t, "mc"))
	}
	return gameVersions, metadata.ParseLoaders(tokens)
}

// FromGitHubAsset normalizes one asset of release.
func FromGitHubAsset(release *GitHubRelease, asset *GitHubAsset) (metadata.Metadata, DownloadData) {
	channel := metadata.ChannelRelease
	if release.Prerelease {
		channel = metadata.ChannelBeta
	}
	gameVersions, loaders := ParseAssetName(asset.Name)

	meta := metadata.Metadata{
		Title:        release.Name,
		Description:  release.Body,
		Filename:     asset.Name,
		Channel:      channel,
		GameVersions: gameVersions,
		Loaders:      loaders,
	}
	return meta, downloadFromAsset(asset)
}

func downloadFromAsset(asset *GitHubAsset) DownloadData {
	return DownloadData{
		URL:    asset.BrowserDownloadURL,
		Output: asset.Name,
		Length: asset.Size,
	}
}

// FromGitHubReleases normalizes every asset of every release, in order.
func FromGitHubReleases(releases []GitHubRelease) ([]metadata.Metadata, []DownloadData) {
	var (
		metas []metadata.Metadata
		data  []DownloadData
	)
	for i := range releases {
		for j := range releases[i].Assets {
			m, d := FromGitHubAsset(&releases[i], &releases[i].Assets[j])
			metas = append(metas, m)
			data = append(data, d)
		}
	}
	return metas, data
}

// FromGitHubReleaseAsset builds the download data of a pinned asset.
func FromGitHubReleaseAsset(asset *GitHubAsset) DownloadData {
	return downloadFromAsset(asset)
}

// ProjectCandidate builds the synthetic candidate used to check a project's
// compatibility before any of its files are fetched.
func ProjectCandidate(gameVersions []string, loaders []metadata.Loader) metadata.Metadata {
	return metadata.Metadata{
		Channel:      metadata.ChannelRelease,
		GameVersions: gameVersions,
		Loaders:      loaders,
	}
}

// CurseForgeCandidate builds the synthetic candidate of a CurseForge mod from
// its latest file indexes, which cover every loader and game version it supports.
func CurseForgeCandidate(m *CurseForgeMod) metadata.Metadata {
	var (
		versions []string
		loaders  []metadata.Loader
	)
	for _, idx := range m.LatestFilesIndexes {
		versions = append(versions, idx.GameVersion)
		if l, ok := idx.Loader(); ok {
			loaders = append(loaders, l)
		}
	}
	return ProjectCandidate(versions, loaders)
}

// ModrinthCandidate builds the synthetic candidate of a Modrinth project.
func ModrinthCandidate(p *ModrinthProject) metadata.Metadata {
	return ProjectCandidate(p.GameVersions, metadata.ParseLoaders(p.Loaders))
}

// pinID parses a numeric pin.
func pinID(pin string) (int64, error) {
	return strconv.ParseInt(pin, 10, 64)
}
