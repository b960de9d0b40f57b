package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadAccessToken loads a bearer token from the ACCESS_TOKEN environment
// variable, then the file at path, then the access-token config key.
func LoadAccessToken(path string) (string, error) {
	if token := os.Getenv("ACCESS_TOKEN"); token != "" {
		return token, nil
	}
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(b)), nil
		}
	}
	if token := viper.GetString("access-token"); token != "" {
		return token, nil
	}
	return "", fmt.Errorf("failed to load token from environment variable, file, or config")
}
