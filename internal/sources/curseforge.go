package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// CurseForge release types.
const (
	CurseForgeRelease = 1
	CurseForgeBeta    = 2
	CurseForgeAlpha   = 3
)

// CurseForge file relation types.
const (
	CurseForgeRequiredDependency = 3
	CurseForgeIncompatible       = 5
)

// CurseForge hash algorithms.
const (
	CurseForgeSHA1 = 1
	CurseForgeMD5  = 2
)

// curseForgeLoaders maps the ModLoaderType enum to loaders.
var curseForgeLoaders = map[int]metadata.Loader{
	1: metadata.LoaderForge,
	4: metadata.LoaderFabric,
	5: metadata.LoaderQuilt,
	6: metadata.LoaderNeoForge,
}

// CurseForgeMod is a project as returned by the CurseForge API.
type CurseForgeMod struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Links struct {
		WebsiteURL string `json:"websiteUrl"`
	} `json:"links"`
	// AllowModDistribution is nil when the author never made a choice.
	AllowModDistribution *bool                  `json:"allowModDistribution"`
	LatestFilesIndexes   []CurseForgeFileIndex `json:"latestFilesIndexes"`
}

type CurseForgeFileIndex struct {
	GameVersion string `json:"gameVersion"`
	FileID      int    `json:"fileId"`
	ModLoader   *int   `json:"modLoader"`
}

// Loader returns the loader of the index, if it is a known one.
func (i CurseForgeFileIndex) Loader() (metadata.Loader, bool) {
	if i.ModLoader == nil {
		return "", false
	}
	l, ok := curseForgeLoaders[*i.ModLoader]
	return l, ok
}

// CurseForgeFile is a file of a CurseForge project.
type CurseForgeFile struct {
	ID           int                  `json:"id"`
	ModID        int                  `json:"modId"`
	DisplayName  string               `json:"displayName"`
	FileName     string               `json:"fileName"`
	ReleaseType  int                  `json:"releaseType"`
	DownloadURL  *string              `json:"downloadUrl"`
	FileLength   int64                `json:"fileLength"`
	FileDate     time.Time            `json:"fileDate"`
	GameVersions []string             `json:"gameVersions"`
	Dependencies []CurseForgeRelation `json:"dependencies"`
	Hashes       []CurseForgeHash     `json:"hashes"`
}

type CurseForgeRelation struct {
	ModID        int `json:"modId"`
	RelationType int `json:"relationType"`
}

type CurseForgeHash struct {
	Value string `json:"value"`
	Algo  int    `json:"algo"`
}

type CurseForgeClient struct {
	apiClient
}

// NewCurseForgeClient creates a client authenticated with apiKey.
func NewCurseForgeClient(baseURL, apiKey string) *CurseForgeClient {
	c := &CurseForgeClient{apiClient: newAPIClient(config.PlatformCurseForge, baseURL, newCurseForgeLimiter())}
	if apiKey != "" {
		c.headers["x-api-key"] = apiKey
	}
	return c
}

// GetMods fetches every mod in ids in one request. Unknown mods are absent from the result.
func (c *CurseForgeClient) GetMods(ctx context.Context, ids []int) ([]CurseForgeMod, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resp struct {
		Data []CurseForgeMod `json:"data"`
	}
	if err := c.postJSON(ctx, "/v1/mods", map[string][]int{"modIds": ids}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get mods: %w", err)
	}
	return resp.Data, nil
}

// GetFiles fetches every file in ids in one request.
func (c *CurseForgeClient) GetFiles(ctx context.Context, ids []int) ([]CurseForgeFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var resp struct {
		Data []CurseForgeFile `json:"data"`
	}
	if err := c.postJSON(ctx, "/v1/mods/files", map[string][]int{"fileIds": ids}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get files: %w", err)
	}
	return resp.Data, nil
}

// GetModFiles lists every file of a mod, following pagination.
func (c *CurseForgeClient) GetModFiles(ctx context.Context, modID int) ([]CurseForgeFile, error) {
	const pageSize = 50

	var files []CurseForgeFile
	for index := 0; ; {
		var resp struct {
			Data       []CurseForgeFile `json:"data"`
			Pagination struct {
				Index       int `json:"index"`
				ResultCount int `json:"resultCount"`
				TotalCount  int `json:"totalCount"`
			} `json:"pagination"`
		}
		endpoint := fmt.Sprintf("/v1/mods/%d/files?index=%d&pageSize=%d", modID, index, pageSize)
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("failed to list files of mod %d: %w", modID, err)
		}

		files = append(files, resp.Data...)
		index += resp.Pagination.ResultCount
		if resp.Pagination.ResultCount == 0 || index >= resp.Pagination.TotalCount {
			return files, nil
		}
	}
}

// GetModFile fetches one file of a mod.
func (c *CurseForgeClient) GetModFile(ctx context.Context, modID, fileID int) (*CurseForgeFile, error) {
	var resp struct {
		Data CurseForgeFile `json:"data"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/mods/%d/files/%d", modID, fileID), &resp); err != nil {
		return nil, fmt.Errorf("failed to get file %d of mod %d: %w", fileID, modID, err)
	}
	return &resp.Data, nil
}
