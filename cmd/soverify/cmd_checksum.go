package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gookit/color"

	adapters "github.com/soverify/soverify/internal/domain-adapters/gateways"
	"github.com/soverify/soverify/internal/external-adapters/gpg"
)

func runChecksum(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("checksum", flag.ExitOnError)
	var (
		checksumFile = fs.String("checksum", "", "Checksum file to verify against (.sha256 or .sha512)")
		gpgSig       = fs.String("gpg-sig", "", "Detached GPG signature file (.asc or .sig)")
		gpgKey       = fs.String("gpg-key", "", "GPG public key file to import")
		gpgKeysURL   = fs.String("gpg-keys-url", "", "URL of a KEYS file to import")
		verifyAll    = fs.Bool("all", false, "Auto-detect and verify all available sidecar files")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: soverify checksum [options] <file>

Verify checksums and GPG signatures of build inputs and outputs, such as
prebuilt toolchain archives and packaged libraries.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Verify a toolchain archive against its published checksum
  soverify checksum --checksum openssl-1.1.1w.tar.gz.sha256 openssl-1.1.1w.tar.gz

  # Verify a release signature with the maintainer keyring
  soverify checksum --gpg-sig ffmpeg-6.1.tar.xz.asc --gpg-key KEYS.asc ffmpeg-6.1.tar.xz

  # Verify every sidecar file found next to the artifact
  soverify checksum --all --gpg-key KEYS.asc dist/libijkffmpeg.so
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: file path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	filePath := fs.Arg(0)

	if err := executeChecksum(ctx, filePath, *checksumFile, *gpgSig, *gpgKey, *gpgKeysURL, *verifyAll); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func executeChecksum(ctx context.Context, filePath, checksumFile, gpgSig, gpgKey, gpgKeysURL string, verifyAll bool) error {
	verified := 0
	failed := 0

	if verifyAll {
		if checksumFile == "" {
			if fileExists(filePath + ".sha256") {
				checksumFile = filePath + ".sha256"
			} else if fileExists(filePath + ".sha512") {
				checksumFile = filePath + ".sha512"
			}
		}
		if gpgSig == "" {
			if fileExists(filePath + ".asc") {
				gpgSig = filePath + ".asc"
			} else if fileExists(filePath + ".sig") {
				gpgSig = filePath + ".sig"
			}
		}
	}

	if checksumFile != "" {
		verifier := adapters.NewChecksumVerifier()
		if err := verifier.VerifyChecksumFile(ctx, filePath, checksumFile); err != nil {
			color.Error.Printf("checksum verification FAILED: %v\n", err)
			failed++
		} else {
			color.Success.Println("checksum verified")
			verified++
		}
	}

	if gpgSig != "" {
		if err := verifyGPGSignature(ctx, filePath, gpgSig, gpgKey, gpgKeysURL); err != nil {
			color.Error.Printf("GPG signature verification FAILED: %v\n", err)
			failed++
		} else {
			color.Success.Println("GPG signature verified")
			verified++
		}
	}

	fmt.Printf("verified: %d, failed: %d\n", verified, failed)

	if failed > 0 {
		return fmt.Errorf("%d verification checks failed", failed)
	}
	if verified == 0 {
		return fmt.Errorf("no verification checks performed (specify --checksum, --gpg-sig, or --all)")
	}
	return nil
}

func verifyGPGSignature(ctx context.Context, filePath, gpgSig, gpgKey, gpgKeysURL string) error {
	verifier := gpg.NewVerifier()

	switch {
	case gpgKey != "":
		if err := verifier.ImportKeyFromFile(gpgKey); err != nil {
			return fmt.Errorf("failed to import GPG key: %w", err)
		}
	case gpgKeysURL != "":
		if err := verifier.ImportKeysFromURL(ctx, gpgKeysURL); err != nil {
			return fmt.Errorf("failed to import GPG keys from URL: %w", err)
		}
	}

	if verifier.GetKeyringSize() == 0 {
		return fmt.Errorf("no GPG keys imported for verification (use --gpg-key or --gpg-keys-url)")
	}

	return verifier.VerifySignatureFromFile(filePath, gpgSig)
}
