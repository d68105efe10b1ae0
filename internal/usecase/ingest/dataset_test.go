package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/propstack/propsearch/internal/domain"
)

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid array", func(t *testing.T) {
		path := filepath.Join(dir, "listings.json")
		content := `[
			{"title": "Sunny bungalow", "home_price": 350000},
			{"title": "Canal condo", "home_price": 410000}
		]`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		docs, err := LoadDataset(path)
		if err != nil {
			t.Fatalf("LoadDataset: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("got %d docs, want 2", len(docs))
		}
		if docs[0]["title"] != "Sunny bungalow" {
			t.Errorf("doc 0 title: got %v", docs[0]["title"])
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDataset(filepath.Join(dir, "absent.json"))
		if !errors.Is(err, domain.ErrInvalidDefinition) {
			t.Errorf("expected ErrInvalidDefinition, got %v", err)
		}
	})

	t.Run("not an array", func(t *testing.T) {
		path := filepath.Join(dir, "object.json")
		if err := os.WriteFile(path, []byte(`{"title": "x"}`), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadDataset(path)
		if !errors.Is(err, domain.ErrInvalidDefinition) {
			t.Errorf("expected ErrInvalidDefinition, got %v", err)
		}
	})
}
