package secrets

import "fmt"

// StaticStore answers every lookup with one fixed set of credentials. It
// backs the --username and --password flags.
type StaticStore struct {
	Credentials Credentials
}

func NewStaticStore(username, password string) *StaticStore {
	return &StaticStore{Credentials: Credentials{Username: username, Password: password}}
}

func (s *StaticStore) GetSecretByID(string) (string, error) {
	return s.Credentials.Encode()
}

func (s *StaticStore) StoreSecretByID(string, string) error {
	return fmt.Errorf("static credentials are read-only")
}

func (s *StaticStore) ListSecrets() (map[string]string, error) {
	secret, err := s.Credentials.Encode()
	if err != nil {
		return nil, err
	}
	return map[string]string{DefaultKey: secret}, nil
}

func (s *StaticStore) RemoveSecretByID(string) error {
	return fmt.Errorf("static credentials are read-only")
}
