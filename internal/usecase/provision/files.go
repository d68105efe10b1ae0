package provision

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/propstack/propsearch/internal/domain"
)

// LoadMapping reads the index mapping definition file. A missing or
// non-JSON file is a fatal configuration error.
func LoadMapping(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: mapping file %s: %w", domain.ErrInvalidDefinition, path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: mapping file %s is not valid JSON", domain.ErrInvalidDefinition, path)
	}
	return data, nil
}

// LoadTemplate reads the search template source file.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: template file %s: %w", domain.ErrInvalidDefinition, path, err)
	}
	source := string(data)
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("%w: template file %s is empty", domain.ErrInvalidDefinition, path)
	}
	return source, nil
}
