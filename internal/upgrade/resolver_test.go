package upgrade

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/filters"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
)

type fakeSource struct {
	mu         sync.Mutex
	candidates map[string][]metadata.Metadata
	pinned     map[string]sources.DownloadData
	denied     map[string]bool
	err        error
	calls      int
}

func (f *fakeSource) Candidates(_ context.Context, id config.ModIdentifier) ([]metadata.Metadata, []sources.DownloadData, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, nil, f.err
	}

	metas := f.candidates[id.String()]
	data := make([]sources.DownloadData, len(metas))
	for i, m := range metas {
		data[i] = sources.DownloadData{URL: "https://dl/" + m.Filename, Output: m.Filename}
		if f.denied[m.Filename] {
			data[i].Denied = &sources.DistributionDeniedError{ModID: 1, FileID: i}
		}
	}
	return metas, data, nil
}

func (f *fakeSource) Pinned(_ context.Context, id config.ModIdentifier) (sources.DownloadData, error) {
	data, ok := f.pinned[id.String()]
	if !ok {
		return sources.DownloadData{}, sources.ErrNotFound
	}
	return data, nil
}

type identityGroups struct{}

func (identityGroups) Expand(_ context.Context, versions []string) ([]string, error) {
	return versions, nil
}

func jar(name, version string, loader metadata.Loader) metadata.Metadata {
	return metadata.Metadata{
		Filename:     name,
		Channel:      metadata.ChannelRelease,
		GameVersions: []string{version},
		Loaders:      []metadata.Loader{loader},
	}
}

func testProfile() *config.Profile {
	p := config.NewProfile("test", "", []string{"1.20.1"}, metadata.LoaderFabric)
	p.PushMod("Sodium", config.ModrinthProject("sodium"), "sodium", false, nil)
	p.PushMod("Forge Only", config.ModrinthProject("forgeonly"), "", false, nil)
	p.PushMod("Pinned", config.ModrinthProject("lithium").Pinned("v1"), "", false, nil)
	p.PushMod("Old", config.ModrinthProject("old"), "", true, filters.Filters{filters.GameVersionStrict("1.19.4")})
	return &p
}

func testSource() *fakeSource {
	return &fakeSource{
		candidates: map[string][]metadata.Metadata{
			"sodium": {
				jar("sodium-forge.jar", "1.20.1", metadata.LoaderForge),
				jar("sodium-new.jar", "1.20.1", metadata.LoaderFabric),
				jar("sodium-old.jar", "1.20.1", metadata.LoaderFabric),
			},
			"forgeonly": {jar("forge.jar", "1.20.1", metadata.LoaderForge)},
			"old": {
				jar("old-1.20.1.jar", "1.20.1", metadata.LoaderFabric),
				jar("old-1.19.4.jar", "1.19.4", metadata.LoaderForge),
			},
		},
		pinned: map[string]sources.DownloadData{
			"lithium@v1": {URL: "https://dl/lithium.jar", Output: "lithium.jar"},
		},
	}
}

func TestResolveMod(t *testing.T) {
	profile := testProfile()
	r := NewResolver(testSource(), filters.NewSelector(identityGroups{}), 4)
	ctx := context.Background()

	data, err := r.ResolveMod(ctx, profile, &profile.Mods[0])
	require.NoError(t, err)
	assert.Equal(t, "sodium-new.jar", data.Filename())

	_, err = r.ResolveMod(ctx, profile, &profile.Mods[1])
	assert.ErrorIs(t, err, filters.ErrFilterEmpty)

	data, err = r.ResolveMod(ctx, profile, &profile.Mods[2])
	require.NoError(t, err)
	assert.Equal(t, "lithium.jar", data.Filename())

	// Overridden filters drop the profile's loader and version.
	data, err = r.ResolveMod(ctx, profile, &profile.Mods[3])
	require.NoError(t, err)
	assert.Equal(t, "old-1.19.4.jar", data.Filename())
}

func TestResolveModDenied(t *testing.T) {
	profile := testProfile()
	src := testSource()
	src.denied = map[string]bool{"sodium-old.jar": true}
	r := NewResolver(src, filters.NewSelector(identityGroups{}), 1)

	// A denied file that is not selected does not matter.
	data, err := r.ResolveMod(context.Background(), profile, &profile.Mods[0])
	require.NoError(t, err)
	assert.Equal(t, "sodium-new.jar", data.Filename())

	src.denied = map[string]bool{"sodium-new.jar": true}
	_, err = r.ResolveMod(context.Background(), profile, &profile.Mods[0])
	assert.ErrorIs(t, err, sources.ErrDistributionDenied)
}

func TestResolveProfile(t *testing.T) {
	profile := testProfile()
	src := testSource()
	r := NewResolver(src, filters.NewSelector(identityGroups{}), 2)

	results := r.ResolveProfile(context.Background(), profile)
	require.Len(t, results, 4)

	names := make([]string, len(results))
	for i, res := range results {
		names[i] = res.Name
	}
	assert.Equal(t, []string{"Sodium", "Forge Only", "Pinned", "Old"}, names)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.NoError(t, results[3].Err)
	assert.Equal(t, 3, src.calls)
}

func TestResolveProfileSourceFailure(t *testing.T) {
	boom := errors.New("boom")
	profile := testProfile()
	src := testSource()
	src.err = boom

	results := NewResolver(src, filters.NewSelector(identityGroups{}), 0).ResolveProfile(context.Background(), profile)
	for _, res := range results {
		if res.Name == "Pinned" {
			assert.NoError(t, res.Err)
			continue
		}
		assert.ErrorIs(t, res.Err, boom)
	}
}
