package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]notes.Note, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]notes.Note)
	return list, args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, title, content string) (*notes.Note, error) {
	args := m.Called(ctx, title, content)
	note, _ := args.Get(0).(*notes.Note)
	return note, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id, title, content string) (*notes.Note, error) {
	args := m.Called(ctx, id, title, content)
	note, _ := args.Get(0).(*notes.Note)
	return note, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func note(id, title string) notes.Note {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return notes.Note{ID: id, Title: title, Content: title + " body", CreatedAt: ts, UpdatedAt: ts}
}

func ids(list []notes.Note) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.ID
	}
	return out
}

func loadedCollection(t *testing.T) (*Collection, *mockStore) {
	t.Helper()

	store := new(mockStore)
	store.On("List", mock.Anything).Return([]notes.Note{note("b", "B"), note("a", "A")}, nil).Once()
	c := NewCollection(store)
	require.NoError(t, c.Load(t.Context()))
	t.Cleanup(func() { store.AssertExpectations(t) })
	return c, store
}

func TestCollectionLoad(t *testing.T) {
	t.Parallel()
	c, _ := loadedCollection(t)
	assert.Equal(t, []string{"b", "a"}, ids(c.Notes()))
}

func TestCollectionLoadFailureKeepsNotes(t *testing.T) {
	t.Parallel()
	c, store := loadedCollection(t)
	store.On("List", mock.Anything).Return(nil, &APIError{StatusCode: http.StatusInternalServerError}).Once()

	require.Error(t, c.Load(t.Context()))
	assert.Equal(t, []string{"b", "a"}, ids(c.Notes()))
}

func TestCollectionSaveCreatesAndPrepends(t *testing.T) {
	t.Parallel()
	c, store := loadedCollection(t)

	created := note("c", "C")
	store.On("Create", mock.Anything, "C", "C body").Return(&created, nil).Once()

	got, err := c.Save(t.Context(), "C", "C body")
	require.NoError(t, err)
	assert.Equal(t, "c", got.ID)
	assert.Equal(t, []string{"c", "b", "a"}, ids(c.Notes()))
}

func TestCollectionSaveRejectsBlankFields(t *testing.T) {
	t.Parallel()
	c, _ := loadedCollection(t)

	for _, in := range [][2]string{{"", "x"}, {"x", "   "}, {"\t", "\n"}} {
		_, err := c.Save(t.Context(), in[0], in[1])
		require.Error(t, err)
		assert.True(t, errors.IsValidation(err))
		assert.Equal(t, MsgFillBothFields, err.Error())
	}
	assert.Len(t, c.Notes(), 2)
}

func TestCollectionEditUpdatesInPlace(t *testing.T) {
	t.Parallel()
	c, store := loadedCollection(t)

	c.Edit(note("a", "A"))
	assert.Equal(t, "a", c.EditingID())

	updated := note("a", "A2")
	updated.UpdatedAt = updated.UpdatedAt.Add(time.Hour)
	store.On("Update", mock.Anything, "a", "A2", "new").Return(&updated, nil).Once()

	_, err := c.Save(t.Context(), "A2", "new")
	require.NoError(t, err)

	list := c.Notes()
	assert.Equal(t, []string{"b", "a"}, ids(list))
	assert.Equal(t, "A2", list[1].Title)
	assert.Empty(t, c.EditingID())
}

func TestCollectionUpdateFailureKeepsEditing(t *testing.T) {
	t.Parallel()
	c, store := loadedCollection(t)

	c.Edit(note("a", "A"))
	store.On("Update", mock.Anything, "a", "A2", "new").
		Return(nil, &APIError{StatusCode: http.StatusNotFound, Message: notes.MsgNoteNotFound}).Once()

	_, err := c.Save(t.Context(), "A2", "new")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "a", c.EditingID())
	assert.Equal(t, "A", c.Notes()[1].Title)
}

func TestCollectionCancel(t *testing.T) {
	t.Parallel()
	c, store := loadedCollection(t)

	c.Edit(note("b", "B"))
	c.Cancel()
	assert.Empty(t, c.EditingID())

	// Without an editing id Save creates.
	created := note("c", "C")
	store.On("Create", mock.Anything, "C", "body").Return(&created, nil).Once()
	_, err := c.Save(t.Context(), "C", "body")
	require.NoError(t, err)
}

func TestCollectionRemove(t *testing.T) {
	t.Parallel()

	t.Run("removes locally and ends editing", func(t *testing.T) {
		t.Parallel()
		c, store := loadedCollection(t)
		store.On("Delete", mock.Anything, "b").Return(nil).Once()

		c.Edit(note("b", "B"))
		require.NoError(t, c.Remove(t.Context(), "b"))
		assert.Equal(t, []string{"a"}, ids(c.Notes()))
		assert.Empty(t, c.EditingID())
	})

	t.Run("keeps other edit", func(t *testing.T) {
		t.Parallel()
		c, store := loadedCollection(t)
		store.On("Delete", mock.Anything, "b").Return(nil).Once()

		c.Edit(note("a", "A"))
		require.NoError(t, c.Remove(t.Context(), "b"))
		assert.Equal(t, "a", c.EditingID())
	})

	t.Run("failure leaves list", func(t *testing.T) {
		t.Parallel()
		c, store := loadedCollection(t)
		store.On("Delete", mock.Anything, "b").
			Return(&APIError{StatusCode: http.StatusInternalServerError, Message: notes.MsgInternalError}).Once()

		require.Error(t, c.Remove(t.Context(), "b"))
		assert.Len(t, c.Notes(), 2)
	})
}
