package checksum

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	helloSHA1   = "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"
	helloSHA512 = "309ecc489c12d6eb4cc40f50c902f2b4d0ed77ee511a7c7a9bcd3ca86d4cd86f989dd35bc5ff499670da34255b45b0cfd830e81f605dcf7dc5542e93ae9cd76f"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name           string
		data           string
		expectedSHA1   string
		expectedSHA512 string
	}{
		{
			name:           "empty data",
			data:           "",
			expectedSHA1:   "da39a3ee5e6b4b0d3255bfef95601890afd80709",
			expectedSHA512: "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		},
		{
			name:           "simple text",
			data:           "hello world",
			expectedSHA1:   helloSHA1,
			expectedSHA512: helloSHA512,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checksums, err := Calculate(strings.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if checksums.SHA1 != tt.expectedSHA1 {
				t.Errorf("SHA1 = %v, want %v", checksums.SHA1, tt.expectedSHA1)
			}
			if checksums.SHA512 != tt.expectedSHA512 {
				t.Errorf("SHA512 = %v, want %v", checksums.SHA512, tt.expectedSHA512)
			}
		})
	}
}

func writeHello(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sodium.jar")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestCalculateFile(t *testing.T) {
	checksums, err := CalculateFile(writeHello(t))
	if err != nil {
		t.Fatalf("CalculateFile() error = %v", err)
	}
	if checksums.SHA1 != helloSHA1 {
		t.Errorf("SHA1 = %v, want %v", checksums.SHA1, helloSHA1)
	}

	if _, err := CalculateFile("/non/existent/file.jar"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestVerifyFile(t *testing.T) {
	path := writeHello(t)

	tests := []struct {
		name      string
		checksums *Checksums
		wantErr   error
	}{
		{name: "valid SHA1", checksums: &Checksums{SHA1: helloSHA1}},
		{name: "valid SHA512", checksums: &Checksums{SHA512: helloSHA512}},
		{name: "uppercase SHA1", checksums: &Checksums{SHA1: strings.ToUpper(helloSHA1)}},
		{
			name:      "SHA512 is preferred over SHA1",
			checksums: &Checksums{SHA1: helloSHA1, SHA512: strings.Repeat("0", 128)},
			wantErr:   ErrChecksumMismatch,
		},
		{
			name:      "invalid SHA1",
			checksums: &Checksums{SHA1: strings.Repeat("0", 40)},
			wantErr:   ErrChecksumMismatch,
		},
		{name: "nil checksums", checksums: nil, wantErr: ErrNoChecksum},
		{name: "empty checksums", checksums: &Checksums{}, wantErr: ErrNoChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyFile(path, tt.checksums)
			if tt.wantErr == nil && err != nil {
				t.Errorf("VerifyFile() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("VerifyFile() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMismatchError(t *testing.T) {
	err := &MismatchError{
		FilePath:  "/mods/sodium.jar",
		Algorithm: AlgorithmSHA1,
		Expected:  "expected123",
		Actual:    "actual456",
	}

	for _, part := range []string{"/mods/sodium.jar", "sha1", "expected123", "actual456"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("Error message %q should contain %q", err.Error(), part)
		}
	}
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Error("MismatchError should unwrap to ErrChecksumMismatch")
	}
}

func TestVerifyReader(t *testing.T) {
	data := []byte("hello world")

	tests := []struct {
		name      string
		checksums *Checksums
		wantErr   bool
		skipped   bool
	}{
		{name: "match", checksums: &Checksums{SHA1: helloSHA1}},
		{name: "mismatch", checksums: &Checksums{SHA512: strings.Repeat("f", 128)}, wantErr: true},
		{name: "skipped", checksums: nil, skipped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, result := VerifyReader(bytes.NewReader(data), tt.checksums)

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(reader); err != nil {
				t.Fatalf("Failed to read: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), data) {
				t.Error("Data was corrupted during verification")
			}

			err := result.Verify("sodium.jar")
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if result.Skipped != tt.skipped {
				t.Errorf("Skipped = %v, want %v", result.Skipped, tt.skipped)
			}
		})
	}
}
