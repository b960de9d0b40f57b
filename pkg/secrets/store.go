// Package secrets keeps the credentials used to log in to each PDU's web
// interface. Secrets are keyed by host; DefaultKey holds the credentials
// used for hosts without an entry of their own.
package secrets

// DefaultKey is the secret ID consulted when a host has no credentials.
const DefaultKey = "default"

// MasterKeyEnv names the environment variable OpenStore reads the hex
// encoded master key from.
const MasterKeyEnv = "MASTER_KEY"

type SecretStore interface {
	GetSecretByID(secretID string) (string, error)
	StoreSecretByID(secretID, secret string) error
	ListSecrets() (map[string]string, error)
	RemoveSecretByID(secretID string) error
}
