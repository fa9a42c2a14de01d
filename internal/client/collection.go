package client

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
)

// MsgFillBothFields is reported when Save is called with a blank field.
const MsgFillBothFields = "Please fill in both title and content"

// Store is the subset of Client that Collection needs.
type Store interface {
	List(ctx context.Context) ([]notes.Note, error)
	Create(ctx context.Context, title, content string) (*notes.Note, error)
	Update(ctx context.Context, id, title, content string) (*notes.Note, error)
	Delete(ctx context.Context, id string) error
}

var _ Store = (*Client)(nil)

// Collection keeps a local copy of the server's notes and the note being
// edited, and applies successful writes to the copy without reloading.
type Collection struct {
	store Store

	mu        sync.RWMutex
	notes     []notes.Note
	editingID string
}

// NewCollection creates an empty collection backed by store.
func NewCollection(store Store) *Collection {
	return &Collection{store: store}
}

// Load replaces the local copy with the server's list. On failure the copy
// is left unchanged.
func (c *Collection) Load(ctx context.Context) error {
	list, err := c.store.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.notes = list
	c.mu.Unlock()
	return nil
}

// Save creates a note, or updates the note being edited. Blank fields are
// rejected before any request is sent. After a successful update editing
// ends.
func (c *Collection) Save(ctx context.Context, title, content string) (*notes.Note, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, errors.ValidationError(MsgFillBothFields)
	}

	c.mu.RLock()
	editingID := c.editingID
	c.mu.RUnlock()

	if editingID == "" {
		created, err := c.store.Create(ctx, title, content)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.notes = slices.Insert(c.notes, 0, *created)
		c.mu.Unlock()
		return created, nil
	}

	updated, err := c.store.Update(ctx, editingID, title, content)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(editingID); i >= 0 {
		c.notes[i] = *updated
	}
	if c.editingID == editingID {
		c.editingID = ""
	}
	return updated, nil
}

// Edit marks note as the one the next Save updates.
func (c *Collection) Edit(note notes.Note) {
	c.mu.Lock()
	c.editingID = note.ID
	c.mu.Unlock()
}

// Cancel ends editing without saving.
func (c *Collection) Cancel() {
	c.mu.Lock()
	c.editingID = ""
	c.mu.Unlock()
}

// Remove deletes the note on the server and drops it locally. Removing the
// note being edited also ends editing.
func (c *Collection) Remove(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = slices.DeleteFunc(c.notes, func(n notes.Note) bool { return n.ID == id })
	if c.editingID == id {
		c.editingID = ""
	}
	return nil
}

// Notes returns a copy of the local notes in display order.
func (c *Collection) Notes() []notes.Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.notes)
}

// EditingID returns the id of the note being edited, or "".
func (c *Collection) EditingID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.editingID
}

func (c *Collection) indexLocked(id string) int {
	return slices.IndexFunc(c.notes, func(n notes.Note) bool { return n.ID == id })
}
