package search

import (
	"context"
	"encoding/json"

	"github.com/propstack/propsearch/internal/domain"
)

// TemplateStore is the slice of the index store the search service needs.
type TemplateStore interface {
	GetScript(ctx context.Context, id string) (string, error)
	RenderTemplate(ctx context.Context, id string, params map[string]any) (json.RawMessage, error)
	SearchTemplate(ctx context.Context, index, id string, params map[string]any) (domain.SearchHits, error)
}
