package domain

import "time"

// IngestFailure records one document the store rejected during a bulk load.
type IngestFailure struct {
	ErrorType   string `json:"error_type"`
	ErrorReason string `json:"error_reason"`
	DocID       string `json:"doc_id"`
	Line        int    `json:"line_number"`
}

// IngestReport is the aggregate outcome of one bulk load run.
// Succeeded+Failed always equals Attempted for runs that complete;
// IndexedTotal is the store-side count taken after the stream drains and may
// legitimately diverge from Succeeded if another process touched the index.
type IngestReport struct {
	Attempted    int
	Succeeded    int
	Failed       int
	Failures     []IngestFailure
	IndexedTotal int
	Duration     time.Duration
}
