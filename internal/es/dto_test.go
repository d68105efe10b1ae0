package es

import (
	"errors"
	"testing"

	"github.com/propstack/propsearch/internal/domain"
)

func TestParseBulkItems(t *testing.T) {
	raw := []byte(`{
		"took": 30,
		"errors": true,
		"items": [
			{"index": {"_index": "properties", "_id": "a1", "status": 201}},
			{"index": {"_index": "properties", "_id": "a2", "status": 400,
				"error": {"type": "mapper_parsing_exception", "reason": "failed to parse field [location]"}}},
			{"index": {"_index": "properties", "_id": "a3", "status": 201}}
		]
	}`)

	items, err := parseBulkItems(raw)
	if err != nil {
		t.Fatalf("parseBulkItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}

	if !items[0].OK || items[0].DocID != "a1" {
		t.Errorf("item 0: got %+v, want ok with id a1", items[0])
	}
	if items[1].OK {
		t.Errorf("item 1: expected failure, got %+v", items[1])
	}
	if items[1].ErrorType != "mapper_parsing_exception" {
		t.Errorf("item 1 error type: got %q", items[1].ErrorType)
	}
	if items[1].ErrorReason != "failed to parse field [location]" {
		t.Errorf("item 1 error reason: got %q", items[1].ErrorReason)
	}
	if !items[2].OK {
		t.Errorf("item 2: expected success, got %+v", items[2])
	}
}

func TestParseSearchHits(t *testing.T) {
	raw := []byte(`{
		"hits": {
			"total": {"value": 128, "relation": "gte"},
			"hits": [
				{"_id": "p1", "fields": {"title": ["Sunny bungalow"], "home_price": [350000]}},
				{"_id": "p2", "fields": {"title": ["Canal condo"]}}
			]
		}
	}`)

	hits, err := parseSearchHits(raw)
	if err != nil {
		t.Fatalf("parseSearchHits: %v", err)
	}
	if hits.Total != 128 {
		t.Errorf("total: got %d, want 128", hits.Total)
	}
	if len(hits.Fields) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits.Fields))
	}
	if got := hits.Fields[0]["title"][0]; got != "Sunny bungalow" {
		t.Errorf("hit 0 title: got %v", got)
	}
	if _, ok := hits.Fields[1]["home_price"]; ok {
		t.Error("hit 1 should not carry home_price")
	}
}

func TestParseSearchHits_Empty(t *testing.T) {
	raw := []byte(`{"hits": {"total": {"value": 0, "relation": "eq"}, "hits": []}}`)

	hits, err := parseSearchHits(raw)
	if err != nil {
		t.Fatalf("parseSearchHits: %v", err)
	}
	if hits.Total != 0 || len(hits.Fields) != 0 {
		t.Errorf("expected empty result, got %+v", hits)
	}
}

func TestParseScriptSource(t *testing.T) {
	raw := []byte(`{"_id": "properties-search-template", "found": true,
		"script": {"lang": "mustache", "source": "{\"query\": {{query}}}"}}`)

	src, err := parseScriptSource(raw)
	if err != nil {
		t.Fatalf("parseScriptSource: %v", err)
	}
	if src != `{"query": {{query}}}` {
		t.Errorf("source: got %q", src)
	}
}

func TestParseScriptSource_NotFound(t *testing.T) {
	raw := []byte(`{"_id": "missing", "found": false}`)

	_, err := parseScriptSource(raw)
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestParseCount(t *testing.T) {
	n, err := parseCount([]byte(`{"count": 5250, "_shards": {"total": 1}}`))
	if err != nil {
		t.Fatalf("parseCount: %v", err)
	}
	if n != 5250 {
		t.Errorf("count: got %d, want 5250", n)
	}
}

func TestParseAPIError(t *testing.T) {
	typ, reason := parseAPIError([]byte(`{"error": {"type": "resource_already_exists_exception",
		"reason": "index [properties] already exists"}, "status": 400}`))
	if typ != "resource_already_exists_exception" {
		t.Errorf("type: got %q", typ)
	}
	if reason != "index [properties] already exists" {
		t.Errorf("reason: got %q", reason)
	}
}
