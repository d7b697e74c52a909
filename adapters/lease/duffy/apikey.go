package duffy

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvAPIKey overrides the configured API key.
const EnvAPIKey = "DUFFY_API_KEY"

// ResolveAPIKey returns the key from the environment, then the inline
// value, then the key file.
func ResolveAPIKey(inline, keyFile string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(inline); v != "" {
		return v, nil
	}
	if keyFile == "" {
		return "", errors.New("no duffy API key configured")
	}
	b, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("read duffy API key: %w", err)
	}
	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", fmt.Errorf("duffy API key file %s is empty", keyFile)
	}
	return key, nil
}
