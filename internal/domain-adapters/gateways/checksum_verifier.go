package gateways

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// checksumVerifier implements checksum verification using pure Go
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// VerifyChecksum verifies a file against an expected hex digest. The
// algorithm is inferred from the digest length: 64 hex chars is SHA-256,
// 128 is SHA-512.
// Pure Go implementation - no external sha256sum binary needed
func (v *checksumVerifier) VerifyChecksum(_ context.Context, filePath, expectedSum string) error {
	expectedSum = strings.ToLower(strings.TrimSpace(expectedSum))

	var h hash.Hash
	switch len(expectedSum) {
	case sha256.Size * 2:
		h = sha256.New()
	case sha512.Size * 2:
		h = sha512.New()
	default:
		return fmt.Errorf("unrecognized digest length %d (want SHA-256 or SHA-512)", len(expectedSum))
	}

	actualSum, err := digestFile(filePath, h)
	if err != nil {
		return err
	}

	if actualSum != expectedSum {
		return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedSum, actualSum)
	}
	return nil
}

// VerifyChecksumFile verifies a file against a published checksum file in
// the conventional "digest  filename" format.
func (v *checksumVerifier) VerifyChecksumFile(ctx context.Context, filePath, checksumFile string) error {
	//nolint:gosec // G304: checksumFile is user-provided path for verification
	data, err := os.ReadFile(checksumFile)
	if err != nil {
		return fmt.Errorf("failed to read checksum file: %w", err)
	}

	parts := strings.Fields(string(data))
	if len(parts) < 1 {
		return fmt.Errorf("invalid checksum file format")
	}
	return v.VerifyChecksum(ctx, filePath, parts[0])
}

// CalculateChecksum calculates the SHA-256 checksum of a file
func (v *checksumVerifier) CalculateChecksum(filePath string) (string, error) {
	return digestFile(filePath, sha256.New())
}

func digestFile(filePath string, h hash.Hash) (string, error) {
	//nolint:gosec // G304: File path is user-provided for checksum verification
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
