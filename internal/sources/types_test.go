package sources

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
)

func TestDistributionDeniedError(t *testing.T) {
	err := &DistributionDeniedError{ModID: 238222, FileID: 4712309}

	assert.True(t, errors.Is(err, ErrDistributionDenied))
	assert.Contains(t, err.Error(), "238222")
	assert.Contains(t, err.Error(), "4712309")
}

func TestAPIError(t *testing.T) {
	err := &APIError{Platform: config.PlatformCurseForge, StatusCode: 403, URL: "https://api.curseforge.com/v1/mods"}
	assert.Equal(t, "CurseForge api error: status 403 for https://api.curseforge.com/v1/mods", err.Error())
}

func TestDownloadDataFilename(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"sodium.jar", "sodium.jar"},
		{"mods/sodium.jar", "sodium.jar"},
	}

	for _, tt := range tests {
		d := DownloadData{Output: tt.output}
		assert.Equal(t, tt.want, d.Filename())
	}
}
