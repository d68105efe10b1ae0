package domain

// Document is one raw listing record bound for the index. Field values are
// whatever the dataset carries (scalars or arrays); identity is assigned by
// the index on write.
type Document map[string]any

// BulkItem is the per-document outcome of one bulk write action.
type BulkItem struct {
	OK          bool
	DocID       string
	Status      int
	ErrorType   string
	ErrorReason string
}
