// Package sources talks to the mod distribution platforms (Modrinth,
// CurseForge and GitHub) and normalizes their files into metadata.Metadata.
package sources

import (
	"errors"
	"fmt"
	"path"

	"github.com/gorilla-devs/ferium-sub000/internal/checksum"
	"github.com/gorilla-devs/ferium-sub000/internal/config"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDistributionDenied is returned when a CurseForge author has denied
	// third party downloads of a file.
	ErrDistributionDenied = errors.New("the developer of this project has denied third party applications from downloading it")
)

// APIError is returned when a platform answers with an unexpected status.
type APIError struct {
	Platform   config.Platform
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status %d for %s", e.Platform, e.StatusCode, e.URL)
}

// DistributionDeniedError carries the CurseForge mod and file IDs of a file
// without a download URL.
type DistributionDeniedError struct {
	ModID  int
	FileID int
}

func (e *DistributionDeniedError) Error() string {
	return fmt.Sprintf("%v (mod %d, file %d)", ErrDistributionDenied, e.ModID, e.FileID)
}

func (e *DistributionDeniedError) Unwrap() error {
	return ErrDistributionDenied
}

// DownloadData describes how to fetch the file chosen for a mod.
type DownloadData struct {
	URL string
	// Output is the path of the file relative to the output directory.
	Output string
	// Length is the size of the file in bytes.
	Length int64

	Dependencies []config.ModIdentifier
	Conflicts    []config.ModIdentifier

	Hashes checksum.Checksums

	// Denied is set for CurseForge files that cannot be downloaded by third parties.
	Denied *DistributionDeniedError
}

// Filename returns the base name of Output.
func (d *DownloadData) Filename() string {
	return path.Base(d.Output)
}
