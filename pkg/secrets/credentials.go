package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Credentials log in to a PDU's web interface. They are stored as JSON.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Empty() bool {
	return c.Username == "" && c.Password == ""
}

func (c Credentials) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return string(b), nil
}

func DecodeCredentials(secret string) (Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(secret), &creds); err != nil {
		return creds, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return creds, nil
}

// ParseBasic reads credentials given as "username:password". The password
// may itself contain colons.
func ParseBasic(s string) (Credentials, error) {
	username, password, ok := strings.Cut(s, ":")
	if !ok || username == "" {
		return Credentials{}, fmt.Errorf("expected credentials as username:password")
	}
	return Credentials{Username: username, Password: password}, nil
}

// GetCredentials looks up the credentials for host, falling back to the
// DefaultKey entry when the host has none. Blank credentials are returned
// with a nil error when neither exists so flags can still fill them in.
func GetCredentials(store SecretStore, host string) (Credentials, error) {
	if store == nil {
		return Credentials{}, nil
	}
	secret, err := store.GetSecretByID(host)
	if err == nil {
		log.Debug().Str("host", host).Msg("using host credentials")
		return DecodeCredentials(secret)
	}
	if !errors.Is(err, ErrNotFound) && host != DefaultKey {
		log.Warn().Err(err).Str("host", host).Msg("failed to read host credentials, falling back to default")
	}

	secret, err = store.GetSecretByID(DefaultKey)
	if err != nil {
		log.Debug().Str("host", host).Msg("no default credentials stored")
		return Credentials{}, nil
	}
	log.Debug().Str("host", host).Msg("using default credentials")
	return DecodeCredentials(secret)
}

// Resolve returns the stored credentials for host with any non-empty
// override applied on top.
func Resolve(store SecretStore, host string, override Credentials) (Credentials, error) {
	creds, err := GetCredentials(store, host)
	if err != nil {
		return creds, err
	}
	if override.Username != "" {
		creds.Username = override.Username
	}
	if override.Password != "" {
		creds.Password = override.Password
	}
	return creds, nil
}
