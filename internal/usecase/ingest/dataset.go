package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/propstack/propsearch/internal/domain"
)

// LoadDataset reads the listings file: a single JSON array with one document
// per element. Document positions in the array become the 1-based line
// numbers reported for failures.
func LoadDataset(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset file %s: %w", domain.ErrInvalidDefinition, path, err)
	}

	var docs []domain.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: dataset file %s: %w", domain.ErrInvalidDefinition, path, err)
	}
	return docs, nil
}
