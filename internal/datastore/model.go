package datastore

import (
	"cmp"
	"slices"
	"time"

	"github.com/tphakala/simple-notes/internal/notes"
)

// NoteRecord is the GORM model for the notes table.
type NoteRecord struct {
	ID        string    `gorm:"primaryKey;size:24"`
	Title     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_notes_created_at,sort:desc;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;index:idx_notes_updated_at,sort:desc;autoUpdateTime:false"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (NoteRecord) TableName() string {
	return "notes"
}

func recordFromNote(n *notes.Note) *NoteRecord {
	return &NoteRecord{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (r *NoteRecord) toNote() *notes.Note {
	return &notes.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// sortNotes orders notes by UpdatedAt descending, then ID descending.
func sortNotes(list []notes.Note) {
	slices.SortFunc(list, func(a, b notes.Note) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
