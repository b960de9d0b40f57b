package secrets

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*LocalSecretStore, string) {
	t.Helper()
	masterKey, err := GenerateMasterKey()
	require.NoError(t, err)
	filename := filepath.Join(t.TempDir(), "secrets.json")
	store, err := NewLocalSecretStore(masterKey, filename, true)
	require.NoError(t, err)
	return store, masterKey
}

func TestDeriveAESKey(t *testing.T) {
	key1 := deriveAESKey([]byte("testmasterkey"), "pdu-a")
	key2 := deriveAESKey([]byte("testmasterkey"), "pdu-a")
	key3 := deriveAESKey([]byte("testmasterkey"), "pdu-b")

	assert.Len(t, key1, keySize)
	assert.Equal(t, key1, key2)
	assert.NotEqual(t, key1, key3)
}

func TestEncryptDecryptAESGCM(t *testing.T) {
	key := deriveAESKey([]byte("anotherTestMasterKey"), "pdu-a")

	sealed, err := encryptAESGCM(key, []byte("Hello, secrets!"))
	require.NoError(t, err)

	plain, err := decryptAESGCM(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "Hello, secrets!", plain)

	_, err = decryptAESGCM(deriveAESKey([]byte("anotherTestMasterKey"), "pdu-b"), sealed)
	assert.Error(t, err)
	_, err = decryptAESGCM(key, "00")
	assert.Error(t, err)
}

func TestGenerateMasterKey(t *testing.T) {
	key, err := GenerateMasterKey()
	require.NoError(t, err)
	assert.Len(t, key, 2*keySize)
}

func TestNewLocalSecretStore(t *testing.T) {
	store, masterKey := newTestStore(t)
	assert.Equal(t, masterKey, hex.EncodeToString(store.masterKey))
	assert.FileExists(t, store.filename)

	_, err := NewLocalSecretStore(masterKey, filepath.Join(t.TempDir(), "missing.json"), false)
	assert.Error(t, err)

	_, err = NewLocalSecretStore("not hex", store.filename, false)
	assert.Error(t, err)
}

func TestStoreGetAndReload(t *testing.T) {
	store, masterKey := newTestStore(t)
	secret := `{"username":"admin","password":"liebert"}`
	require.NoError(t, store.StoreSecretByID("pdu-a.example.com", secret))

	got, err := store.GetSecretByID("pdu-a.example.com")
	require.NoError(t, err)
	assert.Equal(t, secret, got)

	// secrets survive a reopen and are not stored in the clear
	raw, err := os.ReadFile(store.filename)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "liebert")

	reopened, err := NewLocalSecretStore(masterKey, store.filename, false)
	require.NoError(t, err)
	got, err = reopened.GetSecretByID("pdu-a.example.com")
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestListAndRemoveSecrets(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.StoreSecretByID("a", "1"))
	require.NoError(t, store.StoreSecretByID("b", "2"))

	listed, err := store.ListSecrets()
	require.NoError(t, err)
	assert.Len(t, listed, 2)
	assert.Equal(t, store.Secrets["a"], listed["a"])

	// the listing is a copy
	delete(listed, "a")
	assert.Len(t, store.Secrets, 2)

	require.NoError(t, store.RemoveSecretByID("a"))
	_, err = store.GetSecretByID("a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.RemoveSecretByID("a"), ErrNotFound)
}

func TestOpenStore(t *testing.T) {
	_, err := OpenStore("")
	assert.Error(t, err)

	t.Setenv(MasterKeyEnv, "")
	_, err = OpenStore(filepath.Join(t.TempDir(), "s.json"))
	assert.Error(t, err)

	key, err := GenerateMasterKey()
	require.NoError(t, err)
	t.Setenv(MasterKeyEnv, key)
	store, err := OpenStore(filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	assert.NotNil(t, store)
}
