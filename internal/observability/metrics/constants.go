// Package metrics provides constants used across metric definitions.
package metrics

// Operation label values for note datastore operations.
const (
	// OpNoteList represents listing all notes.
	OpNoteList = "note_list"
	// OpNoteGet represents note retrieval operations.
	OpNoteGet = "note_get"
	// OpNoteCreate represents note creation operations.
	OpNoteCreate = "note_create"
	// OpNoteUpdate represents note update operations.
	OpNoteUpdate = "note_update"
	// OpNoteDelete represents note deletion operations.
	OpNoteDelete = "note_delete"
	// OpPing represents store health probes.
	OpPing = "ping"
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// Histogram bucket configuration constants.
// These define the base values and factors for exponential bucket generation.
const (
	// BucketStart1ms is the starting bucket for 1ms histograms.
	BucketStart1ms = 0.001
	// BucketStart100B is the starting bucket for 100 byte histograms (100B to ~100MB range).
	BucketStart100B = 100.0

	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketFactor10 is the exponential growth factor of 10 for larger ranges.
	BucketFactor10 = 10

	// BucketCount6 defines 6 exponential buckets.
	BucketCount6 = 6
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
	// BucketCount15 defines 15 exponential buckets.
	BucketCount15 = 15
)
