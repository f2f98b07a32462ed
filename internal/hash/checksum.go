// Package hash provides checksum helpers for Flatpak source descriptors.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ValidateSHA256 checks that s is a hex encoded sha256 digest, as flatpak-builder
// expects in the sha256 field of archive and file sources.
func ValidateSHA256(s string) error {
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("decoding sha256 %q: %w", s, err)
	}

	if len(decoded) != sha256.Size {
		return fmt.Errorf("sha256 hash must be %d bytes, got %d", sha256.Size, len(decoded))
	}

	return nil
}

// FileSHA256 computes the hex encoded sha256 digest of the file at path.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
