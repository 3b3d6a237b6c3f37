package upgrade

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorilla-devs/ferium-sub000/internal/checksum"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
)

const (
	jarContents = "mod jar contents"
	jarSHA1     = "4314bfbb4e05912c58686f5fecdbee4644ad1645"
)

func newJarServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Path == "/missing.jar" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(jarContents))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	var hits int32
	srv := newJarServer(t, &hits)
	dir := filepath.Join(t.TempDir(), "mods")

	tests := []struct {
		name    string
		data    sources.DownloadData
		wantErr bool
	}{
		{
			name: "without checksum",
			data: sources.DownloadData{URL: srv.URL + "/a.jar", Output: "a.jar"},
		},
		{
			name: "matching checksum",
			data: sources.DownloadData{URL: srv.URL + "/b.jar", Output: "b.jar", Hashes: checksum.Checksums{SHA1: jarSHA1}},
		},
		{
			name:    "wrong checksum",
			data:    sources.DownloadData{URL: srv.URL + "/c.jar", Output: "c.jar", Hashes: checksum.Checksums{SHA1: "0000"}},
			wantErr: true,
		},
		{
			name:    "not found",
			data:    sources.DownloadData{URL: srv.URL + "/missing.jar", Output: "missing.jar"},
			wantErr: true,
		},
		{
			name:    "distribution denied",
			data:    sources.DownloadData{Output: "d.jar", Denied: &sources.DistributionDeniedError{ModID: 1, FileID: 2}},
			wantErr: true,
		},
	}

	d := NewDownloader(2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := d.Download(context.Background(), dir, tt.data)
			final := filepath.Join(dir, tt.data.Filename())
			if tt.wantErr {
				assert.Error(t, err)
				assert.NoFileExists(t, final)
				assert.NoFileExists(t, final+partSuffix)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, final, path)
			contents, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, jarContents, string(contents))
			assert.NoFileExists(t, final+partSuffix)
		})
	}
}

func TestDownloadSkipsExistingFile(t *testing.T) {
	var hits int32
	srv := newJarServer(t, &hits)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jar"), []byte(jarContents), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.jar"), []byte("corrupt"), 0644))

	d := NewDownloader(1)
	_, err := d.Download(context.Background(), dir, sources.DownloadData{
		URL: srv.URL + "/a.jar", Output: "a.jar", Hashes: checksum.Checksums{SHA1: jarSHA1},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))

	_, err = d.Download(context.Background(), dir, sources.DownloadData{
		URL: srv.URL + "/b.jar", Output: "b.jar", Hashes: checksum.Checksums{SHA1: jarSHA1},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	contents, err := os.ReadFile(filepath.Join(dir, "b.jar"))
	require.NoError(t, err)
	assert.Equal(t, jarContents, string(contents))
}

func TestDownloadAll(t *testing.T) {
	var hits int32
	srv := newJarServer(t, &hits)
	dir := t.TempDir()

	resolutions := []Resolution{
		{Name: "A", Data: sources.DownloadData{URL: srv.URL + "/a.jar", Output: "a.jar"}},
		{Name: "B", Err: assert.AnError},
		{Name: "C", Data: sources.DownloadData{URL: srv.URL + "/missing.jar", Output: "c.jar"}},
	}

	err := NewDownloader(4).DownloadAll(context.Background(), dir, resolutions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "C:")
	assert.NotContains(t, err.Error(), "B:")
	assert.FileExists(t, filepath.Join(dir, "a.jar"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
