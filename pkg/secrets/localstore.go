package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/exp/maps"
)

var ErrNotFound = errors.New("secret not found")

// LocalSecretStore keeps secrets in a JSON file, each one sealed with a key
// derived from the master key and its ID.
type LocalSecretStore struct {
	mu        sync.RWMutex
	masterKey []byte
	filename  string
	Secrets   map[string]string `json:"secrets"`
}

// NewLocalSecretStore loads the store at filename, creating an empty one
// when the file is missing and create is set.
func NewLocalSecretStore(masterKeyHex, filename string, create bool) (*LocalSecretStore, error) {
	masterKey, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode master key: %w", err)
	}

	store := &LocalSecretStore{masterKey: masterKey, filename: filename}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if !create {
			return nil, fmt.Errorf("secrets file %s does not exist", filename)
		}
		store.Secrets = map[string]string{}
		if err := SaveSecrets(filename, store.Secrets); err != nil {
			return nil, fmt.Errorf("failed to create secrets file %s: %w", filename, err)
		}
		return store, nil
	}

	if store.Secrets, err = loadSecrets(filename); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	return store, nil
}

// GenerateMasterKey returns a random AES-256 master key as hex.
func GenerateMasterKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}

func (l *LocalSecretStore) GetSecretByID(secretID string) (string, error) {
	l.mu.RLock()
	sealed, ok := l.Secrets[secretID]
	l.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	return decryptAESGCM(deriveAESKey(l.masterKey, secretID), sealed)
}

func (l *LocalSecretStore) StoreSecretByID(secretID, secret string) error {
	sealed, err := encryptAESGCM(deriveAESKey(l.masterKey, secretID), []byte(secret))
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.Secrets[secretID] = sealed
	return SaveSecrets(l.filename, l.Secrets)
}

// ListSecrets returns a copy of the sealed secrets by ID.
func (l *LocalSecretStore) ListSecrets() (map[string]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.Secrets), nil
}

func (l *LocalSecretStore) RemoveSecretByID(secretID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.Secrets[secretID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, secretID)
	}
	delete(l.Secrets, secretID)
	return SaveSecrets(l.filename, l.Secrets)
}

// OpenStore opens or creates the store at filename with the master key from
// the MASTER_KEY environment variable.
func OpenStore(filename string) (SecretStore, error) {
	if filename == "" {
		return nil, fmt.Errorf("path to secret store required")
	}
	masterKey := os.Getenv(MasterKeyEnv)
	if masterKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", MasterKeyEnv)
	}
	store, err := NewLocalSecretStore(masterKey, filename, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open local secret store: %w", err)
	}
	return store, nil
}

// SaveSecrets writes the sealed secrets to jsonFile, readable only by the
// owner.
func SaveSecrets(jsonFile string, secrets map[string]string) error {
	file, err := os.OpenFile(jsonFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(secrets)
}

func loadSecrets(jsonFile string) (map[string]string, error) {
	b, err := os.ReadFile(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file %s: %w", jsonFile, err)
	}
	secrets := map[string]string{}
	if len(b) == 0 {
		return secrets, nil
	}
	if err := json.Unmarshal(b, &secrets); err != nil {
		return nil, fmt.Errorf("failed to decode secrets file %s: %w", jsonFile, err)
	}
	return secrets, nil
}
