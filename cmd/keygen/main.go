// Package main provides a CLI tool for generating an attestation key pair.
// It writes the raw 32-byte ed25519 seed and public key in the layout the
// server loads at startup.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
)

func main() {
	secretOut := flag.String("secret-out", "secret_key.bin", "Path for the raw 32-byte secret seed")
	publicOut := flag.String("public-out", "public_key.bin", "Path for the raw 32-byte public key")
	force := flag.Bool("force", false, "Overwrite existing key files")
	flag.Parse()

	if !*force {
		for _, path := range []string{*secretOut, *publicOut} {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(os.Stderr, "refusing to overwrite %s (use -force)\n", path)
				os.Exit(1)
			}
		}
	}

	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate key pair: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*secretOut, private.Seed(), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *secretOut, err)
		os.Exit(1)
	}
	if err := os.WriteFile(*publicOut, public, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *publicOut, err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s and %s\n", *secretOut, *publicOut)
	fmt.Printf("public key: %s\n", hex.EncodeToString(public))
}
