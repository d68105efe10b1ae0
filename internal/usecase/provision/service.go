// Package provision prepares the index and the search template before a bulk
// load.
//
// Provisioning is destructive by design: EnsureIndex drops any existing index
// of the same name, discarding all of its documents, before creating it
// fresh. There is no additive or upsert mode. Any store error here aborts the
// load job; ingesting into an unknown or stale schema is never allowed.
package provision

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const templateLang = "mustache"

// Service provisions the index schema and the stored search template.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates a provisioning service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// EnsureIndex (re)creates the named index with the given mapping. An existing
// index is deleted unconditionally first.
func (s *Service) EnsureIndex(ctx context.Context, name string, mapping []byte) error {
	exists, err := s.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %q: %w", name, err)
	}

	if exists {
		if err := s.store.DeleteIndex(ctx, name); err != nil {
			return fmt.Errorf("delete index %q: %w", name, err)
		}
		s.logger.Info("previous index deleted", zap.String("index", name))
	}

	if err := s.store.CreateIndex(ctx, name, mapping); err != nil {
		return fmt.Errorf("create index %q: %w", name, err)
	}
	s.logger.Info("index created", zap.String("index", name))
	return nil
}

// RegisterTemplate upserts the search template source under the given id,
// replacing any prior content. All subsequent lookups and executions see the
// new source.
func (s *Service) RegisterTemplate(ctx context.Context, id, source string) error {
	body, err := json.Marshal(map[string]any{
		"script": map[string]any{
			"lang":   templateLang,
			"source": source,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal template %q: %w", id, err)
	}

	if err := s.store.PutScript(ctx, id, body); err != nil {
		return fmt.Errorf("register template %q: %w", id, err)
	}
	s.logger.Info("search template registered", zap.String("template_id", id))
	return nil
}
