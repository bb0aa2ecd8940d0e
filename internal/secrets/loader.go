package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Load resolves a secret either from a file or from an inline value. The file
// takes precedence when both are set. The returned secret is always trimmed.
// The name is only used to give error messages more context.
func Load(name, file, inline string) (string, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = "secret"
	}

	value := inline
	if file = strings.TrimSpace(file); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	if value = strings.TrimSpace(value); value == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return value, nil
}
