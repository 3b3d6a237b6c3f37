package filters

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

func TestFilterJSON(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		json   string
	}{
		{
			name:   "loader prefer",
			filter: LoaderPrefer(metadata.LoaderQuilt, metadata.LoaderFabric),
			json:   `{"ModLoaderPrefer":["Quilt","Fabric"]}`,
		},
		{
			name:   "game version strict",
			filter: GameVersionStrict("1.20.1"),
			json:   `{"GameVersionStrict":["1.20.1"]}`,
		},
		{
			name:   "release channel",
			filter: MinChannel(metadata.ChannelBeta),
			json:   `{"ReleaseChannel":"Beta"}`,
		},
		{
			name:   "filename",
			filter: FilenameRegex(`.*\.jar`),
			json:   `{"Filename":".*\\.jar"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.filter)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var decoded Filter
			require.NoError(t, json.Unmarshal([]byte(tt.json), &decoded))
			assert.Equal(t, tt.filter, decoded)
		})
	}
}

func TestFilterJSON_CaseInsensitiveEnums(t *testing.T) {
	var fs Filters
	err := json.Unmarshal([]byte(`[{"ModLoaderAny":["fabric","NEOFORGE"]},{"ReleaseChannel":"alpha"}]`), &fs)
	require.NoError(t, err)
	assert.Equal(t, Filters{
		LoaderAny(metadata.LoaderFabric, metadata.LoaderNeoForge),
		MinChannel(metadata.ChannelAlpha),
	}, fs)
}

func TestFilterJSON_Invalid(t *testing.T) {
	inputs := []string{
		`{"Unknown":["x"]}`,
		`{"ModLoaderPrefer":["Rift"]}`,
		`{"ReleaseChannel":"nightly"}`,
		`{"Title":"a","Filename":"b"}`,
		`{}`,
		`"GameVersionStrict"`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var f Filter
			assert.Error(t, json.Unmarshal([]byte(in), &f))
		})
	}
}

func TestFilterYAML(t *testing.T) {
	in := Filters{
		LoaderPrefer(metadata.LoaderQuilt, metadata.LoaderFabric),
		GameVersionMinor("1.20"),
		MinChannel(metadata.ChannelRelease),
		DescriptionRegex("^Fixes"),
	}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ModLoaderPrefer:")
	assert.Contains(t, string(data), "ReleaseChannel: Release")

	var out Filters
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestFilterYAML_Invalid(t *testing.T) {
	var f Filter
	assert.Error(t, yaml.Unmarshal([]byte("- GameVersionStrict"), &[]Filter{f}))
	assert.Error(t, yaml.Unmarshal([]byte("Bogus: [1]"), &f))
	assert.Error(t, yaml.Unmarshal([]byte("ModLoaderAny: [rift]"), &f))
}
