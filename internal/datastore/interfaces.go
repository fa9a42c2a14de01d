// Package datastore persists notes in one of several backends: MongoDB,
// SQLite or MySQL through GORM, or an embedded bbolt file.
package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/tphakala/simple-notes/internal/conf"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
)

// Interface is the note store used by the API controllers. All methods are
// safe for concurrent use. Missing notes are reported with an error for which
// errors.IsNotFound returns true; any other failure is a database error.
type Interface interface {
	// List returns every note, most recently updated first.
	List(ctx context.Context) ([]notes.Note, error)
	Get(ctx context.Context, id string) (*notes.Note, error)
	Create(ctx context.Context, title, content string) (*notes.Note, error)
	Update(ctx context.Context, id, title, content string) (*notes.Note, error)
	Delete(ctx context.Context, id string) error
	// Ping checks connectivity to the backing database.
	Ping(ctx context.Context) error
	Close() error
}

// New opens the backend selected by settings.Backend. Connection failures are
// returned as is; callers treat them as fatal.
func New(ctx context.Context, settings *conf.StoreSettings, log logger.Logger) (Interface, error) {
	if settings == nil {
		return nil, errors.Newf("store settings are required").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if log == nil {
		log = logger.Global().Module("datastore")
	}

	var (
		store Interface
		err   error
	)

	switch settings.Backend {
	case conf.BackendMongo:
		store, err = OpenMongo(ctx, settings, log)
	case conf.BackendSQLite:
		store, err = OpenSQLite(settings.SQLite.Path, settings.Timeout, log)
	case conf.BackendMySQL:
		store, err = OpenMySQL(&settings.MySQL, settings.Timeout, log)
	case conf.BackendBolt:
		store, err = OpenBolt(settings.Bolt.Path, settings.Timeout)
	default:
		return nil, errors.Newf("unsupported store backend %q", settings.Backend).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("backend", settings.Backend).
			Build()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", settings.Backend, err)
	}

	log.Info("note store opened", logger.String("backend", settings.Backend))
	return store, nil
}

// opTimeout bounds every store call.
type opTimeout time.Duration

// DefaultTimeout applies when a backend is opened with a zero timeout.
const DefaultTimeout = 5 * time.Second

func newOpTimeout(d time.Duration) opTimeout {
	if d <= 0 {
		d = DefaultTimeout
	}
	return opTimeout(d)
}

func (t opTimeout) context(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(t))
}
