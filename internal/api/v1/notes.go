package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/simple-notes/internal/logger"
	"github.com/tphakala/simple-notes/internal/notes"
)

// ListNotes handles GET /notes.
func (c *Controller) ListNotes(ctx echo.Context) error {
	list, err := c.DS.List(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "list")
	}
	return RespondList(ctx, list, MsgNotesFetched)
}

// GetNote handles GET /notes/:id.
func (c *Controller) GetNote(ctx echo.Context) error {
	note, err := c.DS.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "get")
	}
	return Respond(ctx, http.StatusOK, note, MsgNoteFetched)
}

// CreateNote handles POST /notes. The body was checked by ValidateNote.
func (c *Controller) CreateNote(ctx echo.Context) error {
	in, ok := inputFrom(ctx)
	if !ok {
		return c.reject(ctx, notes.MsgMissingFields)
	}

	note, err := c.DS.Create(ctx.Request().Context(), *in.Title, *in.Content)
	if err != nil {
		return c.HandleError(ctx, err, "create")
	}

	c.logger.WithContext(ctx.Request().Context()).Info("note created", logger.String("id", note.ID))
	return Respond(ctx, http.StatusCreated, note, MsgNoteCreated)
}

// UpdateNote handles PUT /notes/:id.
func (c *Controller) UpdateNote(ctx echo.Context) error {
	in, ok := inputFrom(ctx)
	if !ok {
		return c.reject(ctx, notes.MsgMissingFields)
	}

	note, err := c.DS.Update(ctx.Request().Context(), ctx.Param("id"), *in.Title, *in.Content)
	if err != nil {
		return c.HandleError(ctx, err, "update")
	}
	return Respond(ctx, http.StatusOK, note, MsgNoteUpdated)
}

// DeleteNote handles DELETE /notes/:id.
func (c *Controller) DeleteNote(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := c.DS.Delete(ctx.Request().Context(), id); err != nil {
		return c.HandleError(ctx, err, "delete")
	}

	c.logger.WithContext(ctx.Request().Context()).Info("note deleted", logger.String("id", id))
	return Respond(ctx, http.StatusOK, nil, MsgNoteDeleted)
}
