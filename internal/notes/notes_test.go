package notes

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/simple-notes/internal/errors"
)

func ptr(s string) *string { return &s }

func TestValidateNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		title   *string
		content *string
		wantMsg string
	}{
		{"valid", ptr("Groceries"), ptr("milk, eggs"), ""},
		{"missing title", nil, ptr("body"), MsgMissingFields},
		{"missing content", ptr("title"), nil, MsgMissingFields},
		{"both missing", nil, nil, MsgMissingFields},
		{"empty string title", ptr(""), ptr("body"), MsgMissingFields},
		{"whitespace title", ptr("   "), ptr("body"), MsgEmptyFields},
		{"whitespace content", ptr("title"), ptr("\n\t "), MsgEmptyFields},
		{"title at limit", ptr(strings.Repeat("a", 100)), ptr("body"), ""},
		{"title over limit", ptr(strings.Repeat("a", 101)), ptr("body"), MsgTitleTooLong},
		{"content at limit", ptr("t"), ptr(strings.Repeat("b", 5000)), ""},
		{"content over limit", ptr("t"), ptr(strings.Repeat("b", 5001)), MsgContentTooLong},
		{"multibyte title at limit", ptr(strings.Repeat("é", 100)), ptr("body"), ""},
		{"empty beats too long", ptr(" "), ptr(strings.Repeat("b", 5001)), MsgEmptyFields},
		{"title checked before content", ptr(strings.Repeat("a", 101)), ptr(strings.Repeat("b", 5001)), MsgTitleTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateNote(tt.title, tt.content)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestValidateID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		valid bool
	}{
		{"65f1c0ffee0000000000abcd", true},
		{"65F1C0FFEE0000000000ABCD", true},
		{"65f1c0ffee0000000000abc", false},
		{"65f1c0ffee0000000000abcde", false},
		{"65f1c0ffee0000000000abcg", false},
		{"", false},
		{"not-a-valid-object-id!!", false},
	}

	for _, tt := range tests {
		err := ValidateID(tt.id)
		if tt.valid {
			assert.NoError(t, err, tt.id)
			continue
		}
		require.Error(t, err, tt.id)
		assert.Equal(t, MsgInvalidID, err.Error())
		assert.True(t, errors.IsValidation(err))
	}
}

func TestNewNote(t *testing.T) {
	t.Parallel()

	n := New("  Groceries  ", "  milk, eggs  ")

	require.NoError(t, ValidateID(n.ID))
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, "  milk, eggs  ", n.Content, "content is stored as submitted")
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
	assert.Equal(t, time.UTC, n.CreatedAt.Location())
	assert.Equal(t, n.CreatedAt, n.CreatedAt.Truncate(time.Millisecond))
}

func TestNewIDsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 1000 {
		id := NewID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestApplyKeepsCreatedAt(t *testing.T) {
	t.Parallel()

	n := New("a", "b")
	created := n.CreatedAt
	id := n.ID

	n.Apply(" c ", "d")

	assert.Equal(t, id, n.ID)
	assert.Equal(t, created, n.CreatedAt)
	assert.Equal(t, "c", n.Title)
	assert.Equal(t, "d", n.Content)
	assert.False(t, n.UpdatedAt.Before(n.CreatedAt))
}

func TestTouchNeverMovesBackwards(t *testing.T) {
	t.Parallel()

	future := Now().Add(time.Hour)
	n := &Note{CreatedAt: future, UpdatedAt: future}
	n.Touch()

	assert.Equal(t, future, n.UpdatedAt)
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	err := NotFound("65f1c0ffee0000000000abcd")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, MsgNoteNotFound, err.Error())
}

func TestNoteJSONTimestamps(t *testing.T) {
	t.Parallel()

	n := Note{
		ID:        "507f1f77bcf86cd799439011",
		Title:     "Groceries",
		Content:   "milk",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 12, 0, 0, 120_000_000, time.FixedZone("EET", 2*3600)),
	}

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "507f1f77bcf86cd799439011",
		"title": "Groceries",
		"content": "milk",
		"createdAt": "2024-03-01T12:00:00.000Z",
		"updatedAt": "2024-03-01T10:00:00.120Z"
	}`, string(data))

	var decoded Note
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, n.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, n.UpdatedAt.Equal(decoded.UpdatedAt))
}
