package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/simple-notes/internal/notes"
)

// Response is the envelope every notes endpoint replies with.
type Response struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Count      *int   `json:"count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Success messages.
const (
	MsgNotesFetched = "Notes fetched successfully"
	MsgNoteFetched  = "Note fetched successfully"
	MsgNoteCreated  = "Note created successfully"
	MsgNoteUpdated  = "Note updated successfully"
	MsgNoteDeleted  = "Note deleted successfully"
)

// Timestamp formats the current time the way envelopes carry it.
func Timestamp() string {
	return time.Now().UTC().Format(notes.TimestampLayout)
}

// NewResponse builds a success envelope.
func NewResponse(data any, message string, statusCode int) *Response {
	return &Response{
		Success:    true,
		Data:       data,
		Message:    message,
		StatusCode: statusCode,
		Timestamp:  Timestamp(),
	}
}

// NewErrorResponse builds a failure envelope; error repeats message.
func NewErrorResponse(message string, statusCode int) *Response {
	return &Response{
		Success:    false,
		Data:       nil,
		Message:    message,
		StatusCode: statusCode,
		Timestamp:  Timestamp(),
		Error:      message,
	}
}

// Respond writes a success envelope.
func Respond(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, NewResponse(data, message, statusCode))
}

// RespondList writes a success envelope carrying count.
func RespondList(c echo.Context, list []notes.Note, message string) error {
	if list == nil {
		list = []notes.Note{}
	}
	resp := NewResponse(list, message, http.StatusOK)
	count := len(list)
	resp.Count = &count
	return c.JSON(http.StatusOK, resp)
}

// Fail writes a failure envelope. HEAD requests get the status only.
func Fail(c echo.Context, statusCode int, message string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(statusCode)
	}
	return c.JSON(statusCode, NewErrorResponse(message, statusCode))
}
