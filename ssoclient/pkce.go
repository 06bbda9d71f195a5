package ssoclient

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// CodeChallengeMethodS256 is the only PKCE method this client sends.
const CodeChallengeMethodS256 = "S256"

// randomByteLength yields 64 hex characters for states and verifiers.
const randomByteLength = 32

// DigestFunc hashes data for the PKCE challenge.
type DigestFunc func(data []byte) []byte

// SHA256Digest is the default DigestFunc
func SHA256Digest(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// GenerateRandomString reads 32 bytes from src and hex encodes them.
// A nil src uses crypto/rand.
func GenerateRandomString(src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	b := make([]byte, randomByteLength)
	if _, err := io.ReadFull(src, b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateCodeChallenge creates a PKCE code challenge from a verifier:
// base64url without padding of digest(verifier).
func GenerateCodeChallenge(verifier string, digest DigestFunc) string {
	if digest == nil {
		digest = SHA256Digest
	}
	return base64.RawURLEncoding.EncodeToString(digest([]byte(verifier)))
}
