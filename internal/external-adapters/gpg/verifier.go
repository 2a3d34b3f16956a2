// Package gpg provides GPG signature verification capabilities.
package gpg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Verifier checks detached GPG signatures on build artifacts using
// ProtonMail's go-crypto, a maintained fork of golang.org/x/crypto/openpgp.
// Living in external-adapters isolates the dependency from the domain.
type Verifier struct {
	keyring    openpgp.EntityList
	httpClient *http.Client
}

// NewVerifier creates a new GPG verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{
		keyring: make(openpgp.EntityList, 0),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImportKeyFromFile imports a GPG public key from a local file, accepting
// both armored and binary keyrings.
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is user-provided for GPG key import
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	entities, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return fmt.Errorf("failed to reset file: %w", seekErr)
		}
		entities, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// ImportKeysFromURL imports every key in a published KEYS file, the
// convention used by upstream release pages.
func (v *Verifier) ImportKeysFromURL(ctx context.Context, keysURL string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", keysURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download KEYS file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("KEYS file download failed with status %d", resp.StatusCode)
	}

	// Some projects publish large keyring files; cap at 10MB.
	limitedReader := io.LimitReader(resp.Body, 10*1024*1024)

	entities, err := openpgp.ReadArmoredKeyRing(limitedReader)
	if err != nil {
		return fmt.Errorf("failed to parse KEYS file: %w", err)
	}
	if len(entities) == 0 {
		return fmt.Errorf("no keys found in KEYS file")
	}

	v.keyring = append(v.keyring, entities...)
	return nil
}

// VerifySignatureFromFile verifies a local detached signature against a
// local artifact, accepting armored and binary signatures.
func (v *Verifier) VerifySignatureFromFile(filePath, sigPath string) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no GPG keys imported, import a key first")
	}

	//nolint:gosec // G304: sigPath is user-provided for GPG verification
	sigData, err := os.ReadFile(sigPath)
	if err != nil {
		return fmt.Errorf("failed to read signature file: %w", err)
	}
	if len(sigData) < 10 {
		return fmt.Errorf("signature file too small to be a valid GPG signature")
	}

	//nolint:gosec // G304: filePath is user-provided for GPG verification
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	isArmored := bytes.HasPrefix(sigData, []byte("-----BEGIN PGP SIGNATURE---"))

	var verifyErr error
	if isArmored {
		_, verifyErr = openpgp.CheckArmoredDetachedSignature(v.keyring, f, bytes.NewReader(sigData), nil)
	} else {
		_, verifyErr = openpgp.CheckDetachedSignature(v.keyring, f, bytes.NewReader(sigData), nil)
	}

	if verifyErr != nil {
		return fmt.Errorf("signature verification failed: %w", verifyErr)
	}
	return nil
}

// GetKeyringSize returns the number of imported keys
func (v *Verifier) GetKeyringSize() int {
	return len(v.keyring)
}

// ClearKeyring removes all imported keys
func (v *Verifier) ClearKeyring() {
	v.keyring = make(openpgp.EntityList, 0)
}
