// Package notes defines the note entity and its validation rules.
package notes

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field limits, counted in characters.
const (
	TitleMaxLength   = 100
	ContentMaxLength = 5000
)

// Note is a short text note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TimestampLayout is the wire format of note timestamps: RFC 3339 in UTC
// with exactly three fractional digits.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON renders timestamps with TimestampLayout.
func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Content   string `json:"content"`
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt: n.UpdatedAt.UTC().Format(TimestampLayout),
	})
}

// Input carries title and content as submitted. Nil means the field was absent.
type Input struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// NewID returns a fresh 24-hex-character identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// Now returns the current time in UTC truncated to milliseconds, the precision
// every backend stores.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// New builds a note with a fresh id and CreatedAt equal to UpdatedAt.
func New(title, content string) *Note {
	now := Now()
	return &Note{
		ID:        NewID(),
		Title:     NormalizeTitle(title),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply replaces title and content and refreshes UpdatedAt. UpdatedAt never
// moves backwards, even if the clock does.
func (n *Note) Apply(title, content string) {
	n.Title = NormalizeTitle(title)
	n.Content = content
	n.Touch()
}

// Touch refreshes UpdatedAt.
func (n *Note) Touch() {
	now := Now()
	if now.Before(n.UpdatedAt) {
		now = n.UpdatedAt
	}
	n.UpdatedAt = now
}

// NormalizeTitle trims surrounding whitespace; titles are stored trimmed.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
