package datastore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
)

func TestDBErrorCarriesOperationContext(t *testing.T) {
	t.Parallel()

	err := dbError(errors.NewStd("disk I/O error"), "update_note", "backend", conf.BackendSQLite, "note_id", missingID)

	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errors.CategoryDatabase, ee.ErrorCategory())
	assert.Equal(t, "datastore", ee.GetComponent())
	assert.Equal(t, errors.PriorityMedium, ee.GetPriority())
	assert.Equal(t, map[string]any{
		"operation": "update_note",
		"backend":   conf.BackendSQLite,
		"note_id":   missingID,
	}, ee.GetContext())
}

func TestDBErrorRaisesPriorityOnTimeout(t *testing.T) {
	t.Parallel()

	err := dbError(fmt.Errorf("list: %w", context.DeadlineExceeded), "list_notes")

	var ee *errors.EnhancedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, errors.PriorityHigh, ee.GetPriority())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
