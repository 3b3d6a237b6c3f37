// Package checksum verifies downloaded mod files against the hashes published
// by the distribution platforms (SHA-1 on CurseForge, SHA-1 and SHA-512 on Modrinth).
package checksum

import (
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// Algorithm represents a supported hash algorithm.
type Algorithm string

const (
	AlgorithmSHA1   Algorithm = "sha1"
	AlgorithmSHA512 Algorithm = "sha512"
)

var (
	// ErrChecksumMismatch is returned when file checksum doesn't match the expected value.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrNoChecksum is returned when no checksum is provided for verification.
	ErrNoChecksum = errors.New("no checksum provided")
)

// MismatchError provides detailed information about a checksum mismatch.
type MismatchError struct {
	FilePath  string
	Algorithm Algorithm
	Expected  string
	Actual    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %s %s, got %s",
		e.FilePath, e.Algorithm, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return ErrChecksumMismatch
}

// Checksums holds the published hashes of a file, hex encoded.
type Checksums struct {
	SHA1   string
	SHA512 string
}

// HasAny returns true if at least one checksum is set.
func (c *Checksums) HasAny() bool {
	return c != nil && (c.SHA1 != "" || c.SHA512 != "")
}

// strongest returns the strongest available algorithm and its expected value.
func (c *Checksums) strongest() (Algorithm, string, hash.Hash) {
	if c.SHA512 != "" {
		return AlgorithmSHA512, c.SHA512, sha512.New()
	}
	return AlgorithmSHA1, c.SHA1, sha1.New()
}

// Calculate computes every supported checksum of r in a single pass.
func Calculate(r io.Reader) (*Checksums, error) {
	sha1Hash := sha1.New()
	sha512Hash := sha512.New()

	if _, err := io.Copy(io.MultiWriter(sha1Hash, sha512Hash), r); err != nil {
		return nil, fmt.Errorf("failed to calculate checksums: %w", err)
	}

	return &Checksums{
		SHA1:   hex.EncodeToString(sha1Hash.Sum(nil)),
		SHA512: hex.EncodeToString(sha512Hash.Sum(nil)),
	}, nil
}

// CalculateFile calculates checksums for a file at the given path.
func CalculateFile(filePath string) (*Checksums, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for checksum: %w", err)
	}
	defer file.Close()

	return Calculate(file)
}

// VerifyFile checks the file at filePath against the strongest expected checksum.
func VerifyFile(filePath string, expected *Checksums) error {
	if !expected.HasAny() {
		return ErrNoChecksum
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file for verification: %w", err)
	}
	defer file.Close()

	r, result := VerifyReader(file, expected)
	if _, err := io.Copy(io.Discard, r); err != nil {
		return fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return result.Verify(filePath)
}

// VerifyReader wraps r so that the data read through it is hashed. Call
// Verify on the result once r has been fully consumed.
func VerifyReader(r io.Reader, expected *Checksums) (io.Reader, *VerificationResult) {
	if !expected.HasAny() {
		return r, &VerificationResult{Skipped: true}
	}

	algorithm, want, h := expected.strongest()
	return io.TeeReader(r, h), &VerificationResult{
		Algorithm: algorithm,
		Expected:  want,
		hash:      h,
	}
}

// VerificationResult holds the state of a streaming verification.
type VerificationResult struct {
	Algorithm Algorithm
	Expected  string
	Actual    string
	Skipped   bool
	hash      hash.Hash
}

// Verify completes the verification after all data has been read.
func (v *VerificationResult) Verify(filePath string) error {
	if v.Skipped {
		return nil
	}
	if v.hash == nil {
		return ErrNoChecksum
	}

	v.Actual = hex.EncodeToString(v.hash.Sum(nil))
	if !strings.EqualFold(v.Actual, v.Expected) {
		return &MismatchError{
			FilePath:  filePath,
			Algorithm: v.Algorithm,
			Expected:  v.Expected,
			Actual:    v.Actual,
		}
	}
	return nil
}
