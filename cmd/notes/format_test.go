package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	model "github.com/tphakala/simple-notes/internal/notes"
)

func TestFormatListItemShowsUpdatedOnlyWhenChanged(t *testing.T) {
	color.NoColor = true

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	n := &model.Note{ID: "64b7f1c2a9e4d3b2c1a0f9e8", Title: "Groceries", Content: "milk", CreatedAt: created, UpdatedAt: created}

	out := FormatListItem(n)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, n.ID)
	assert.NotContains(t, out, "Updated:")

	n.UpdatedAt = created.Add(time.Hour)
	assert.Contains(t, FormatListItem(n), "Updated:")
}

func TestFormatNoteIncludesContent(t *testing.T) {
	color.NoColor = true

	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	n := &model.Note{ID: "64b7f1c2a9e4d3b2c1a0f9e8", Title: "T", Content: "line one\nline two", CreatedAt: created, UpdatedAt: created}

	out := FormatNote(n)
	assert.True(t, strings.HasPrefix(out, "T\n"))
	assert.Contains(t, out, "line one\nline two\n")
}

func TestConfirm(t *testing.T) {
	var out strings.Builder

	assert.True(t, confirm(strings.NewReader("y\n"), &out, "Delete?"))
	assert.True(t, confirm(strings.NewReader("YES\n"), &out, "Delete?"))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "Delete?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "Delete?"))
	assert.Contains(t, out.String(), "Delete? [y/N] ")
}
