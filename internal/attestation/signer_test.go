package attestation

import (
	"crypto/ed25519"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attestor/internal/statement"
	"attestor/pkg/domain"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	public, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return NewSigner(private, public)
}

func testAddress(t *testing.T) domain.AccountAddress {
	t.Helper()
	var raw [32]byte
	_, err := rand.Read(raw[:])
	require.NoError(t, err)
	return domain.AccountAddress(raw)
}

func TestSignVerifiesWithPublicKey(t *testing.T) {
	signer := newTestSigner(t)
	addr := testAddress(t)
	stmt := statement.Normalized{Tag: statement.TagCountryOfResidence, Set: []string{"DK", "IT"}}

	message, signature := signer.Sign(addr, stmt)

	assert.Equal(t, Message(addr, stmt), message)
	assert.True(t, ed25519.Verify(signer.PublicKey(), message, signature))
}

func TestSignatureDoesNotTransfer(t *testing.T) {
	signer := newTestSigner(t)
	addr := testAddress(t)
	stmt := statement.Normalized{Tag: statement.TagCountryOfResidence, Set: []string{"DK"}}

	message, signature := signer.Sign(addr, stmt)

	// A different account's message must not verify under the same signature.
	otherMessage := Message(testAddress(t), stmt)
	assert.False(t, ed25519.Verify(signer.PublicKey(), otherMessage, signature))

	// Nor a different statement for the same account.
	otherStmt := statement.Normalized{Tag: statement.TagCountryOfResidence, Set: []string{"SE"}}
	assert.False(t, ed25519.Verify(signer.PublicKey(), Message(addr, otherStmt), signature))

	// Nor a corrupted signature.
	signature[0] ^= 0x01
	assert.False(t, ed25519.Verify(signer.PublicKey(), message, signature))
}

func TestMessageLayout(t *testing.T) {
	addr := testAddress(t)
	stmt := statement.Normalized{Tag: statement.TagCountryOfResidence, Set: []string{"DK", "IT"}}

	msg := Message(addr, stmt)
	require.Len(t, msg, 32+6)
	assert.Equal(t, addr.Bytes(), msg[:32])
	assert.Equal(t, []byte{4, 2, 'D', 'K', 'I', 'T'}, msg[32:])
}

func TestLoadKeyPair(t *testing.T) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	dir := t.TempDir()
	secretFile := filepath.Join(dir, "secret_key.bin")
	publicFile := filepath.Join(dir, "public_key.bin")
	require.NoError(t, os.WriteFile(secretFile, private.Seed(), 0o600))
	require.NoError(t, os.WriteFile(publicFile, public, 0o600))

	gotPrivate, gotPublic, err := LoadKeyPair(secretFile, publicFile)
	require.NoError(t, err)
	assert.Equal(t, private, gotPrivate)
	assert.Equal(t, public, gotPublic)
}

func TestLoadKeyPairRejectsBadMaterial(t *testing.T) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	otherPublic, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	dir := t.TempDir()
	secretFile := filepath.Join(dir, "secret_key.bin")
	require.NoError(t, os.WriteFile(secretFile, private.Seed(), 0o600))

	t.Run("missing public key file", func(t *testing.T) {
		_, _, err := LoadKeyPair(secretFile, filepath.Join(dir, "nope.bin"))
		assert.Error(t, err)
	})

	t.Run("mismatched public key", func(t *testing.T) {
		mismatched := filepath.Join(dir, "mismatched.bin")
		require.NoError(t, os.WriteFile(mismatched, otherPublic, 0o600))
		_, _, err := LoadKeyPair(secretFile, mismatched)
		assert.ErrorContains(t, err, "does not match")
	})

	t.Run("truncated seed", func(t *testing.T) {
		short := filepath.Join(dir, "short.bin")
		require.NoError(t, os.WriteFile(short, private.Seed()[:16], 0o600))
		publicFile := filepath.Join(dir, "public_key.bin")
		require.NoError(t, os.WriteFile(publicFile, public, 0o600))
		_, _, err := LoadKeyPair(short, publicFile)
		assert.ErrorContains(t, err, "32")
	})
}
