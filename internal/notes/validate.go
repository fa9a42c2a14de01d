package notes

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tphakala/simple-notes/internal/errors"
)

// Validation messages returned to clients.
const (
	MsgMissingFields   = "Title and content are required"
	MsgEmptyFields     = "Title and content cannot be empty"
	MsgTitleTooLong    = "Title cannot exceed 100 characters"
	MsgContentTooLong  = "Content cannot exceed 5000 characters"
	MsgInvalidID       = "Invalid note ID format"
	MsgInvalidBody     = "Invalid request body"
	MsgNoteNotFound    = "Note not found"
	MsgInternalError   = "Internal server error"
	MsgRouteNotFound   = "Route not found"
	MsgTooManyRequests = "Too many requests, please try again later"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidateNote checks presence, emptiness and length of title and content.
// Checks run in that order and only the first failure is reported.
func ValidateNote(title, content *string) error {
	if title == nil || content == nil || *title == "" || *content == "" {
		return errors.ValidationError(MsgMissingFields)
	}

	if strings.TrimSpace(*title) == "" || strings.TrimSpace(*content) == "" {
		return errors.ValidationError(MsgEmptyFields)
	}

	if utf8.RuneCountInString(*title) > TitleMaxLength {
		return errors.ValidationError(MsgTitleTooLong)
	}

	if utf8.RuneCountInString(*content) > ContentMaxLength {
		return errors.ValidationError(MsgContentTooLong)
	}

	return nil
}

// Validate runs ValidateNote on the input.
func (in Input) Validate() error {
	return ValidateNote(in.Title, in.Content)
}

// ValidateID checks that id is a 24-character hexadecimal ObjectID.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return errors.ValidationError(MsgInvalidID)
	}
	return nil
}

// NotFound returns the error reported for a well-formed id with no note.
func NotFound(id string) error {
	return errors.New(errors.NewStd(MsgNoteNotFound)).
		Component("notes").
		Category(errors.CategoryNotFound).
		Context("note_id", id).
		Build()
}
