package upgrade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gorilla-devs/ferium-sub000/internal/checksum"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

const partSuffix = ".part"

// Downloader writes resolved files into a directory.
type Downloader struct {
	httpClient  *http.Client
	concurrency int
	SkipVerify  bool
}

func NewDownloader(concurrency int) *Downloader {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Downloader{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		concurrency: concurrency,
	}
}

// Download writes data into dir and returns the path of the file. A file that
// already exists is kept when its checksum matches, or when there is none.
func (d *Downloader) Download(ctx context.Context, dir string, data sources.DownloadData) (string, error) {
	if data.Denied != nil {
		return "", data.Denied
	}
	if data.URL == "" {
		return "", fmt.Errorf("no download URL for %s", data.Filename())
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	destPath := filepath.Join(dir, data.Filename())
	if _, err := os.Stat(destPath); err == nil {
		if d.SkipVerify || !data.Hashes.HasAny() {
			return destPath, nil
		}
		if err := checksum.VerifyFile(destPath, &data.Hashes); err == nil {
			return destPath, nil
		}
		ui.Debug("checksum mismatch, downloading again", "file", destPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, data.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	partPath := destPath + partSuffix
	if err := d.writePart(partPath, resp.Body, &data.Hashes); err != nil {
		os.Remove(partPath)
		return "", err
	}
	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return "", fmt.Errorf("failed to move %s into place: %w", data.Filename(), err)
	}
	return destPath, nil
}

func (d *Downloader) writePart(partPath string, body io.Reader, hashes *checksum.Checksums) error {
	out, err := os.Create(partPath)
	if err != nil {
		return err
	}
	defer out.Close()

	reader, result := body, &checksum.VerificationResult{Skipped: true}
	if !d.SkipVerify {
		reader, result = checksum.VerifyReader(body, hashes)
	}

	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := result.Verify(partPath); err != nil {
		return fmt.Errorf("checksum verification failed for %s: %w", filepath.Base(partPath), err)
	}
	return out.Close()
}

// DownloadAll downloads every successful resolution into dir. Resolutions that
// failed are skipped; download errors are joined.
func (d *Downloader) DownloadAll(ctx context.Context, dir string, resolutions []Resolution) error {
	errs := make([]error, len(resolutions))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, r := range resolutions {
		if r.Err != nil {
			continue
		}
		g.Go(func() error {
			path, err := d.Download(ctx, dir, r.Data)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", r.Name, err)
				return nil
			}
			ui.Debug("downloaded", "mod", r.Name, "path", path)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
