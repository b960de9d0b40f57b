package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCredentialsFallsBackToDefault(t *testing.T) {
	store, _ := newTestStore(t)

	creds, err := GetCredentials(store, "pdu-a")
	require.NoError(t, err)
	assert.True(t, creds.Empty())

	def, err := Credentials{Username: "admin", Password: "default"}.Encode()
	require.NoError(t, err)
	require.NoError(t, store.StoreSecretByID(DefaultKey, def))

	creds, err = GetCredentials(store, "pdu-a")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "admin", Password: "default"}, creds)

	require.NoError(t, store.StoreSecretByID("pdu-a", `{"username":"ops","password":"pdu-a"}`))
	creds, err = GetCredentials(store, "pdu-a")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "ops", Password: "pdu-a"}, creds)

	require.NoError(t, store.StoreSecretByID("pdu-b", `not json`))
	_, err = GetCredentials(store, "pdu-b")
	assert.Error(t, err)
}

func TestResolveAppliesOverrides(t *testing.T) {
	store := NewStaticStore("admin", "secret")

	creds, err := Resolve(store, "any", Credentials{})
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "admin", Password: "secret"}, creds)

	creds, err = Resolve(store, "any", Credentials{Password: "other"})
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "admin", Password: "other"}, creds)

	creds, err = Resolve(nil, "any", Credentials{Username: "u"})
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "u"}, creds)
}

func TestParseBasic(t *testing.T) {
	creds, err := ParseBasic("admin:pa:ss")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "admin", Password: "pa:ss"}, creds)

	_, err = ParseBasic("admin")
	assert.Error(t, err)
	_, err = ParseBasic(":x")
	assert.Error(t, err)
}

func TestStaticStoreIsReadOnly(t *testing.T) {
	store := NewStaticStore("admin", "secret")
	assert.Error(t, store.StoreSecretByID("x", "y"))
	assert.Error(t, store.RemoveSecretByID("x"))

	listed, err := store.ListSecrets()
	require.NoError(t, err)
	assert.Contains(t, listed, DefaultKey)
}
