package ingest

import (
	"context"

	"github.com/propstack/propsearch/internal/domain"
)

// Store is the slice of the index store the pipeline needs. BulkInsert must
// be safe for concurrent use; workers issue writes through it in parallel.
type Store interface {
	BulkInsert(ctx context.Context, index string, docs []domain.Document) ([]domain.BulkItem, error)
	Count(ctx context.Context, index string) (int, error)
}
