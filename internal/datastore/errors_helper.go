package datastore

import (
	"context"
	"strings"

	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation string, kv ...any) error {
	priority := errors.PriorityMedium
	if isTimeout(err) {
		priority = errors.PriorityHigh
	}

	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Priority(priority).
		Context("operation", operation)

	for i := 0; i < len(kv)-1; i += 2 {
		if key, ok := kv[i].(string); ok {
			builder = builder.Context(key, kv[i+1])
		}
	}

	return builder.Build()
}

// notFound reports a well-formed id with no matching note.
func notFound(id string) error {
	return notes.NotFound(id)
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// normalizeID lower-cases hex ids so lookups match however the client typed them.
func normalizeID(id string) string {
	return strings.ToLower(id)
}
