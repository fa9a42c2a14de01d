// Package v1 implements the notes REST endpoints.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/simple-notes/internal/datastore"
	"github.com/tphakala/simple-notes/internal/errors"
	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
	"github.com/tphakala/simple-notes/internal/observability/metrics"
)

// Controller serves the notes endpoints on top of a datastore.
type Controller struct {
	DS      datastore.Interface
	logger  logger.Logger
	metrics *metrics.HTTPMetrics
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithMetrics records validation rejections.
func WithMetrics(m *metrics.HTTPMetrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New creates a controller for ds.
func New(ds datastore.Interface, opts ...Option) *Controller {
	c := &Controller{DS: ds}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Global().Module("api.notes")
	}
	return c
}

// HandleError maps err to an envelope by category. Store failures are logged
// and hidden behind a generic message.
func (c *Controller) HandleError(ctx echo.Context, err error, operation string) error {
	log := c.logger.WithContext(ctx.Request().Context())

	switch errors.CategoryOf(err) {
	case errors.CategoryValidation:
		return c.reject(ctx, err.Error())
	case errors.CategoryNotFound:
		log.Debug("note not found",
			logger.String("operation", operation),
			logger.String("id", ctx.Param("id")))
		return Fail(ctx, http.StatusNotFound, notes.MsgNoteNotFound)
	default:
		log.Error("note operation failed",
			logger.String("operation", operation),
			logger.String("id", ctx.Param("id")),
			logger.Error(err))
		return Fail(ctx, http.StatusInternalServerError, notes.MsgInternalError)
	}
}

// reject answers 400 with message and counts the rejection.
func (c *Controller) reject(ctx echo.Context, message string) error {
	if c.metrics != nil {
		c.metrics.RecordValidationRejection(message)
	}
	return Fail(ctx, http.StatusBadRequest, message)
}
