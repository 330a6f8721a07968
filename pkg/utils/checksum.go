// Package utils holds small shared helpers.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/arthur-debert/sysdot/pkg/types"
)

// Checksum returns the sha256 of the given bytes, prefixed with the
// algorithm name so stored values stay self-describing.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%s", hex.EncodeToString(sum[:]))
}

// FileChecksum reads a file through the FS abstraction and returns its
// checksum.
func FileChecksum(fs types.FS, path string) (string, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Checksum(data), nil
}
