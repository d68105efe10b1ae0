package provision

import "context"

// Store is the slice of the index store provisioning needs.
type Store interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	DeleteIndex(ctx context.Context, name string) error
	CreateIndex(ctx context.Context, name string, mapping []byte) error
	PutScript(ctx context.Context, id string, body []byte) error
}
