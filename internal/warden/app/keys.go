package app

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"os"

	"github.com/wardenauth/warden/pkg/idx"
	"github.com/wardenauth/warden/pkg/jwtx"
)

// InitSigningKeys sets up the Ed25519 signer plus the KeySet the verifier
// and the JWKS endpoint share.
//
// With WARDEN_SIGNING_KEY_FILE set the key is loaded from disk and tokens
// survive restarts. Without it an ephemeral key is generated on startup and
// every previously minted token becomes invalid.
func InitSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, jwtx.Verifier, error) {
	var (
		pemKey []byte
		err    error
	)

	if cfg.SigningKeyFile != "" {
		pemKey, err = os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("read signing key: %w", err)
		}
		logger.Info("signing key loaded", "path", cfg.SigningKeyFile)
	} else {
		pemKey, err = generateEphemeralKey()
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Warn("ephemeral signing key generated, previously minted tokens are now invalid")
	}

	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("register signing key: %w", err)
	}

	verifier := jwtx.NewVerifierEdDSA(keys, cfg.Issuer)
	return signer, keys, verifier, nil
}

func generateEphemeralKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate Ed25519 key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshal PKCS8: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
