package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
)

// slowQueryThreshold is reported by the GORM logger adapter as a warning.
const slowQueryThreshold = 200 * time.Millisecond

// gormStore implements Interface on top of a SQL database through GORM.
// The sqlite and mysql backends differ only in how the dialector is built.
type gormStore struct {
	db      *gorm.DB
	timeout opTimeout
	backend string
}

func newGormConfig(log logger.Logger) *gorm.Config {
	return &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(log, slowQueryThreshold),
	}
}

// newGormStore migrates the schema and wraps db.
func newGormStore(db *gorm.DB, backend string, timeout time.Duration) (*gormStore, error) {
	if err := db.AutoMigrate(&NoteRecord{}); err != nil {
		return nil, dbError(err, "auto_migrate", "backend", backend)
	}
	return &gormStore{db: db, timeout: newOpTimeout(timeout), backend: backend}, nil
}

func (s *gormStore) List(ctx context.Context) ([]notes.Note, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var records []NoteRecord
	if err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, dbError(err, "list_notes", "backend", s.backend)
	}

	result := make([]notes.Note, 0, len(records))
	for i := range records {
		result = append(result, *records[i].toNote())
	}
	return result, nil
}

func (s *gormStore) Get(ctx context.Context, id string) (*notes.Note, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var record NoteRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", normalizeID(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, dbError(err, "get_note", "backend", s.backend, "note_id", id)
	}
	return record.toNote(), nil
}

func (s *gormStore) Create(ctx context.Context, title, content string) (*notes.Note, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	note := notes.New(title, content)
	if err := s.db.WithContext(ctx).Create(recordFromNote(note)).Error; err != nil {
		return nil, dbError(err, "create_note", "backend", s.backend)
	}
	return note, nil
}

func (s *gormStore) Update(ctx context.Context, id, title, content string) (*notes.Note, error) {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	var updated *notes.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record NoteRecord
		if err := tx.First(&record, "id = ?", normalizeID(id)).Error; err != nil {
			return err
		}

		note := record.toNote()
		note.Apply(title, content)

		result := tx.Model(&NoteRecord{}).
			Where("id = ?", record.ID).
			Updates(map[string]any{
				"title":      note.Title,
				"content":    note.Content,
				"updated_at": note.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		updated = note
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, dbError(err, "update_note", "backend", s.backend, "note_id", id)
	}
	return updated, nil
}

func (s *gormStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	result := s.db.WithContext(ctx).Where("id = ?", normalizeID(id)).Delete(&NoteRecord{})
	if result.Error != nil {
		return dbError(result.Error, "delete_note", "backend", s.backend, "note_id", id)
	}
	if result.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func (s *gormStore) Ping(ctx context.Context) error {
	ctx, cancel := s.timeout.context(ctx)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "ping", "backend", s.backend)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return dbError(err, "ping", "backend", s.backend)
	}
	return nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, "close", "backend", s.backend)
	}
	if err := sqlDB.Close(); err != nil {
		return dbError(err, "close", "backend", s.backend)
	}
	return nil
}
