package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

func TestFiltersAccessors(t *testing.T) {
	fs := Filters{
		MinChannel(metadata.ChannelBeta),
		LoaderPrefer(metadata.LoaderQuilt, metadata.LoaderFabric),
		GameVersionMinor("1.20.1"),
		GameVersionStrict("1.19.4"),
	}

	versions, ok := fs.GameVersions()
	assert.True(t, ok)
	assert.Equal(t, []string{"1.20.1"}, versions)

	loader, ok := fs.ModLoader()
	assert.True(t, ok)
	assert.Equal(t, metadata.LoaderQuilt, loader)

	_, ok = Filters{MinChannel(metadata.ChannelBeta)}.GameVersions()
	assert.False(t, ok)
	_, ok = Filters{LoaderAny()}.ModLoader()
	assert.False(t, ok)
}

func TestFiltersSetters(t *testing.T) {
	fs := Filters{GameVersionStrict("1.19.4"), LoaderAny(metadata.LoaderForge)}

	assert.True(t, fs.SetGameVersions([]string{"1.20.1", "1.20"}))
	assert.True(t, fs.SetModLoaders([]metadata.Loader{metadata.LoaderNeoForge}))
	assert.Equal(t, Filters{
		GameVersionStrict("1.20.1", "1.20"),
		LoaderAny(metadata.LoaderNeoForge),
	}, fs)

	assert.False(t, Filters{}.SetGameVersions([]string{"1.20"}))
	assert.False(t, Filters{}.SetModLoaders(nil))
}

func TestFiltersMerge(t *testing.T) {
	profile := Filters{GameVersionStrict("1.20.1"), LoaderPrefer(metadata.LoaderFabric)}
	mod := Filters{FilenameRegex("fabric")}

	assert.Equal(t, Filters{
		GameVersionStrict("1.20.1"),
		LoaderPrefer(metadata.LoaderFabric),
		FilenameRegex("fabric"),
	}, profile.Merge(mod, false))

	assert.Equal(t, mod, profile.Merge(mod, true))
	assert.Nil(t, profile.Merge(nil, true))
}

func TestFiltersCloneIsIndependent(t *testing.T) {
	fs := Filters{GameVersionStrict("1.20.1"), LoaderPrefer(metadata.LoaderFabric)}
	merged := fs.Merge(nil, false)

	merged[0].Versions[0] = "1.8.9"
	merged[1].Loaders[0] = metadata.LoaderForge

	assert.Equal(t, "1.20.1", fs[0].Versions[0])
	assert.Equal(t, metadata.LoaderFabric, fs[1].Loaders[0])
}

func TestFiltersOnly(t *testing.T) {
	fs := Filters{
		TitleRegex("x"),
		GameVersionStrict("1.20.1"),
		LoaderPrefer(metadata.LoaderFabric),
		MinChannel(metadata.ChannelRelease),
	}

	got := fs.Only(KindGameVersionStrict, KindModLoaderPrefer)
	assert.Equal(t, Filters{GameVersionStrict("1.20.1"), LoaderPrefer(metadata.LoaderFabric)}, got)
}
