package signer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKey(t *testing.T) (string, *openpgp.Entity) {
	t.Helper()

	entity, err := openpgp.NewEntity("rpmaudit test", "", "rpmaudit@example.com", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "key.asc")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path, entity
}

func TestSignDetachedVerifies(t *testing.T) {
	keyPath, entity := writeTestKey(t)

	s, err := NewGPGSigner(keyPath, "")
	require.NoError(t, err)

	data := []byte(`{"health_score": 100}`)
	sig, err := s.SignDetached(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(sig, []byte("-----BEGIN PGP SIGNATURE-----")))

	signer, err := openpgp.CheckArmoredDetachedSignature(
		openpgp.EntityList{entity}, bytes.NewReader(data), bytes.NewReader(sig), nil)
	require.NoError(t, err)
	assert.Equal(t, entity.PrimaryKey.KeyId, signer.PrimaryKey.KeyId)
}

func TestNewGPGSignerErrors(t *testing.T) {
	_, err := NewGPGSigner("", "")
	assert.Error(t, err)

	_, err = NewGPGSigner(filepath.Join(t.TempDir(), "missing.asc"), "")
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.asc")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0600))
	_, err = NewGPGSigner(garbage, "")
	assert.Error(t, err)
}
