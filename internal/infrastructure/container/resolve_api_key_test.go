package container

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/cookbook/internal/infrastructure/config"
	"github.com/alchemorsel/cookbook/internal/infrastructure/security"
)

func TestResolveAPIKeyPrefersPlaintext(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.APIKey = "sk-plaintext"
	cfg.LLM.APIKeyEncryptedHex = "deadbeef"

	key, err := resolveAPIKey(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "sk-plaintext", key)
}

func TestResolveAPIKeyDecryptsWhenPlaintextAbsent(t *testing.T) {
	keyMaterial := make([]byte, 32)
	cipher, err := security.NewAESGCMCipher(keyMaterial)
	require.NoError(t, err)

	sealed, err := cipher.Encrypt([]byte("sk-from-vault"))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LLM.APIKeyEncryptedHex = hex.EncodeToString(sealed)

	key, err := resolveAPIKey(cfg, cipher)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-vault", key)
}

func TestResolveAPIKeyReturnsBlankWhenUnset(t *testing.T) {
	cfg := &config.Config{}

	key, err := resolveAPIKey(cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, key)
}
