package es

import (
	"encoding/json"
	"fmt"

	"github.com/propstack/propsearch/internal/domain"
)

// Wire shapes of the store responses propsearch reads. Only the consumed
// fields are declared.

type scriptResponse struct {
	Found  bool `json:"found"`
	Script struct {
		Lang   string `json:"lang"`
		Source string `json:"source"`
	} `json:"script"`
}

type renderResponse struct {
	TemplateOutput json.RawMessage `json:"template_output"`
}

type countResponse struct {
	Count int `json:"count"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

type bulkResponse struct {
	Errors bool                      `json:"errors"`
	Items  []map[string]bulkItemInfo `json:"items"`
}

type bulkItemInfo struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []struct {
			Fields map[string][]any `json:"fields"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseScriptSource(raw []byte) (string, error) {
	var resp scriptResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("parse script response: %w", err)
	}
	if !resp.Found {
		return "", domain.ErrTemplateNotFound
	}
	return resp.Script.Source, nil
}

func parseRenderedTemplate(raw []byte) (json.RawMessage, error) {
	var resp renderResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse render response: %w", err)
	}
	return resp.TemplateOutput, nil
}

func parseCount(raw []byte) (int, error) {
	var resp countResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("parse count response: %w", err)
	}
	return resp.Count, nil
}

func parseAPIError(raw []byte) (typ, reason string) {
	var resp errorResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", ""
	}
	return resp.Error.Type, resp.Error.Reason
}

// parseBulkItems flattens the bulk response into one BulkItem per action,
// preserving input order. The action name key ("index", "create", ...) is
// collapsed away.
func parseBulkItems(raw []byte) ([]domain.BulkItem, error) {
	var resp bulkResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse bulk response: %w", err)
	}

	items := make([]domain.BulkItem, 0, len(resp.Items))
	for _, entry := range resp.Items {
		for _, info := range entry {
			item := domain.BulkItem{
				DocID:  info.ID,
				Status: info.Status,
				OK:     info.Status >= 200 && info.Status < 300,
			}
			if info.Error != nil {
				item.ErrorType = info.Error.Type
				item.ErrorReason = info.Error.Reason
			}
			items = append(items, item)
			break // one action name per entry
		}
	}
	return items, nil
}

func parseSearchHits(raw []byte) (domain.SearchHits, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.SearchHits{}, fmt.Errorf("parse search response: %w", err)
	}

	hits := domain.SearchHits{
		Total:  resp.Hits.Total.Value,
		Fields: make([]domain.HitFields, 0, len(resp.Hits.Hits)),
	}
	for _, h := range resp.Hits.Hits {
		hits.Fields = append(hits.Fields, domain.HitFields(h.Fields))
	}
	return hits, nil
}
