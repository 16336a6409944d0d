package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SecretLength is the length of generated client secrets. Secrets are
// compared against stored values verbatim, so length is part of the contract.
const SecretLength = 40

// secretAlphabet is the character set used for client secrets: mixed-case
// alphanumerics, 62 symbols.
const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecret creates a cryptographically secure random secret of n
// mixed-case alphanumeric characters. Each character is drawn independently
// via crypto/rand, so there is no modulo bias. Returns an error only if the
// system random source fails.
func GenerateSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: secret length must be positive, got %d", n)
	}

	max := big.NewInt(int64(len(secretAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to read random source: %w", err)
		}
		buf[i] = secretAlphabet[idx.Int64()]
	}

	return string(buf), nil
}

// MustGenerateSecret is like GenerateSecret but panics on error.
// Use this only in contexts where a failed random source is unrecoverable.
func MustGenerateSecret(n int) string {
	secret, err := GenerateSecret(n)
	if err != nil {
		panic(err)
	}
	return secret
}
