// Package attestation signs verification outcomes with the service's
// attestation key.
package attestation

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
	"os"
)

// LoadKeyPair reads the attestation key pair from disk: a raw 32-byte ed25519
// seed and the matching raw 32-byte public key. Both files must be present
// and consistent with each other; a mismatch means the deployment is wired to
// the wrong key material and the process must not start.
func LoadKeyPair(secretKeyFile, publicKeyFile string) (ed25519.PrivateKey, ed25519.PublicKey, error) {
	seed, err := os.ReadFile(secretKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read secret key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, nil, fmt.Errorf("secret key file %s: got %d bytes, want %d", secretKeyFile, len(seed), ed25519.SeedSize)
	}

	public, err := os.ReadFile(publicKeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read public key: %w", err)
	}
	if len(public) != ed25519.PublicKeySize {
		return nil, nil, fmt.Errorf("public key file %s: got %d bytes, want %d", publicKeyFile, len(public), ed25519.PublicKeySize)
	}

	private := ed25519.NewKeyFromSeed(seed)
	if !bytes.Equal(private.Public().(ed25519.PublicKey), public) {
		return nil, nil, fmt.Errorf("public key file %s does not match the secret key", publicKeyFile)
	}

	return private, ed25519.PublicKey(public), nil
}
