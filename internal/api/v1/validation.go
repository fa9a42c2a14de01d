package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/simple-notes/internal/notes"
)

// inputKey is the echo context key holding the parsed notes.Input.
const inputKey = "noteInput"

// errInvalidBody marks a body that is not a JSON object of string fields.
type errInvalidBody struct{}

func (errInvalidBody) Error() string { return notes.MsgInvalidBody }

// decodeInput parses a note body. An empty body is an empty object; null or
// missing fields stay nil; any non-string field is rejected.
func decodeInput(body []byte) (notes.Input, error) {
	var in notes.Input
	if len(bytes.TrimSpace(body)) == 0 {
		return in, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return in, errInvalidBody{}
	}

	var err error
	if in.Title, err = stringField(fields["title"]); err != nil {
		return in, err
	}
	if in.Content, err = stringField(fields["content"]); err != nil {
		return in, err
	}
	return in, nil
}

func stringField(raw json.RawMessage) (*string, error) {
	if raw == nil || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errInvalidBody{}
	}
	return &s, nil
}

// ValidateNote parses and checks a note body before the handler runs. The
// parsed input is stored on the context for the handler.
func (c *Controller) ValidateNote(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		body, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			// Body limit and transport errors carry their own status.
			return err
		}

		// Only JSON bodies are parsed; anything else has no fields.
		if !isJSON(ctx.Request()) {
			body = nil
		}

		in, err := decodeInput(body)
		if err != nil {
			return c.reject(ctx, notes.MsgInvalidBody)
		}
		if err := in.Validate(); err != nil {
			return c.reject(ctx, err.Error())
		}

		ctx.Set(inputKey, in)
		return next(ctx)
	}
}

func isJSON(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

// ValidateID rejects malformed :id parameters before any store access.
func (c *Controller) ValidateID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := notes.ValidateID(ctx.Param("id")); err != nil {
			return c.reject(ctx, err.Error())
		}
		return next(ctx)
	}
}

// inputFrom returns the input stored by ValidateNote.
func inputFrom(ctx echo.Context) (notes.Input, bool) {
	in, ok := ctx.Get(inputKey).(notes.Input)
	return in, ok && in.Title != nil && in.Content != nil
}
