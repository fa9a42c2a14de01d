package datastore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/notes"
)

var notesBucket = []byte("notes")

// boltOpenTimeout bounds waiting for the file lock held by another process.
const boltOpenTimeout = time.Second

// boltStore keeps notes as JSON documents in a single bbolt bucket keyed by id.
// bbolt calls do not take a context; the deadline is checked before each
// transaction starts.
type boltStore struct {
	db      *bolt.DB
	timeout opTimeout
}

// OpenBolt opens or creates the bbolt file at path.
func OpenBolt(path string, timeout time.Duration) (Interface, error) {
	if path == "" {
		return nil, errors.Newf("bolt path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, dbError(err, "open", "backend", conf.BackendBolt, "path", path)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, dbError(err, "open", "backend", conf.BackendBolt, "path", path)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(notesBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, dbError(err, "create_bucket", "backend", conf.BackendBolt)
	}

	return &boltStore{db: db, timeout: newOpTimeout(timeout)}, nil
}

func (s *boltStore) view(ctx context.Context, fn func(b *bolt.Bucket) error) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(notesBucket))
	})
}

func (s *boltStore) update(ctx context.Context, fn func(b *bolt.Bucket) error) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(notesBucket))
	})
}

func putNote(b *bolt.Bucket, note *notes.Note) error {
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return b.Put([]byte(note.ID), data)
}

func getNote(b *bolt.Bucket, id string) (*notes.Note, error) {
	data := b.Get([]byte(id))
	if data == nil {
		return nil, notFound(id)
	}
	var note notes.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// classify passes not-found errors through and wraps everything else.
func classify(err error, operation string, kv ...any) error {
	if errors.IsNotFound(err) {
		return err
	}
	return dbError(err, operation, append([]any{"backend", conf.BackendBolt}, kv...)...)
}

func (s *boltStore) List(ctx context.Context) ([]notes.Note, error) {
	result := make([]notes.Note, 0)
	err := s.view(ctx, func(b *bolt.Bucket) error {
		return b.ForEach(func(_, v []byte) error {
			var note notes.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			result = append(result, note)
			return nil
		})
	})
	if err != nil {
		return nil, classify(err, "list_notes")
	}
	sortNotes(result)
	return result, nil
}

func (s *boltStore) Get(ctx context.Context, id string) (*notes.Note, error) {
	var note *notes.Note
	err := s.view(ctx, func(b *bolt.Bucket) error {
		var err error
		note, err = getNote(b, normalizeID(id))
		return err
	})
	if err != nil {
		return nil, classify(err, "get_note", "note_id", id)
	}
	return note, nil
}

func (s *boltStore) Create(ctx context.Context, title, content string) (*notes.Note, error) {
	note := notes.New(title, content)
	if err := s.update(ctx, func(b *bolt.Bucket) error {
		return putNote(b, note)
	}); err != nil {
		return nil, classify(err, "create_note")
	}
	return note, nil
}

func (s *boltStore) Update(ctx context.Context, id, title, content string) (*notes.Note, error) {
	var note *notes.Note
	err := s.update(ctx, func(b *bolt.Bucket) error {
		var err error
		note, err = getNote(b, normalizeID(id))
		if err != nil {
			return err
		}
		note.Apply(title, content)
		return putNote(b, note)
	})
	if err != nil {
		return nil, classify(err, "update_note", "note_id", id)
	}
	return note, nil
}

func (s *boltStore) Delete(ctx context.Context, id string) error {
	err := s.update(ctx, func(b *bolt.Bucket) error {
		key := []byte(normalizeID(id))
		if b.Get(key) == nil {
			return notFound(id)
		}
		return b.Delete(key)
	})
	if err != nil {
		return classify(err, "delete_note", "note_id", id)
	}
	return nil
}

func (s *boltStore) Ping(ctx context.Context) error {
	err := s.view(ctx, func(b *bolt.Bucket) error {
		if b == nil {
			return errors.NewStd("notes bucket is missing")
		}
		return nil
	})
	if err != nil {
		return classify(err, "ping")
	}
	return nil
}

func (s *boltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return dbError(err, "close", "backend", conf.BackendBolt)
	}
	return nil
}
