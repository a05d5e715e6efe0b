// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"easytask/internal/service"
)

// reminderLayout is how reminder timestamps are shown.
const reminderLayout = "2006-01-02 15:04"

// FormatTask formats one numbered task line.
// Format: "{N:>4}  [{x| }] {TITLE}  ({priority}/{label})" plus an optional
// reminder suffix.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.IsDone {
		mark = "x"
	}
	line := fmt.Sprintf("%4d  [%s] %s  (%s/%s)", num, mark, normalizeTitle(task.Title), task.Priority, task.Label)
	if task.ReminderTime != nil {
		line += fmt.Sprintf("  remind %s", task.ReminderTime.Local().Format(reminderLayout))
	}
	fmt.Fprintln(w, line)
}

// FormatTaskDetail prints the description indented under the task line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	if task.Description == "" {
		return
	}
	fmt.Fprintf(w, "      %s\n", normalizeTitle(task.Description))
}

// FormatSummary prints the completion summary derived from the list.
func FormatSummary(w io.Writer, done, total int) {
	fmt.Fprintf(w, "%d of %d tasks completed\n", done, total)
}

// FormatProfile prints the cached user profile.
func FormatProfile(w io.Writer, p service.UserProfile) {
	fmt.Fprintln(w, p.Email)
	if p.FullName != "" {
		fmt.Fprintln(w, p.FullName)
	}
	if p.PhoneNumber != "" {
		fmt.Fprintln(w, p.PhoneNumber)
	}
}

// ParseReminder parses a reminder argument. Accepts RFC3339 or a local
// "2006-01-02 15:04" timestamp.
func ParseReminder(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	ts, err := time.ParseInLocation(reminderLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reminder time: %s", s)
	}
	return ts, nil
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
