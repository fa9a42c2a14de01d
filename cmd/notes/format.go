package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	model "github.com/tphakala/simple-notes/internal/notes"
)

const dateLayout = "2006-01-02 15:04"

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// FormatListItem renders one line per note plus its dates.
func FormatListItem(note *model.Note) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "  %s  %s\n", cyan(note.ID), bold(note.Title))
	fmt.Fprintf(&sb, "  %s %s\n", faint("Created:"), faint(localTime(note.CreatedAt)))
	if !note.UpdatedAt.Equal(note.CreatedAt) {
		fmt.Fprintf(&sb, "  %s %s\n", faint("Updated:"), faint(localTime(note.UpdatedAt)))
	}
	return sb.String()
}

// FormatNote renders a note with its full content.
func FormatNote(note *model.Note) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", bold(note.Title))
	fmt.Fprintf(&sb, "%s %s\n", faint("ID:"), faint(note.ID))
	fmt.Fprintf(&sb, "%s %s\n", faint("Created:"), faint(localTime(note.CreatedAt)))
	if !note.UpdatedAt.Equal(note.CreatedAt) {
		fmt.Fprintf(&sb, "%s %s\n", faint("Updated:"), faint(localTime(note.UpdatedAt)))
	}
	sb.WriteString(faint(strings.Repeat("-", 50)) + "\n")
	sb.WriteString(note.Content)
	sb.WriteString("\n")
	return sb.String()
}

// Success prefixes msg with a green check mark.
func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func localTime(t time.Time) string {
	return t.Local().Format(dateLayout)
}
