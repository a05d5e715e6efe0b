package output

import (
	"bytes"
	"testing"
	"time"

	"easytask/internal/service"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name     string
		num      int
		task     service.Task
		expected string
	}{
		{
			name:     "open task",
			num:      1,
			task:     service.Task{Title: "Buy milk", Priority: service.PriorityLow, Label: service.LabelPersonal},
			expected: "   1  [ ] Buy milk  (low/personal)\n",
		},
		{
			name:     "done task",
			num:      12,
			task:     service.Task{Title: "Ship report", Priority: service.PriorityHigh, Label: service.LabelWork, IsDone: true},
			expected: "  12  [x] Ship report  (high/work)\n",
		},
		{
			name:     "empty title",
			num:      1,
			task:     service.Task{Title: "   ", Priority: service.PriorityMedium, Label: service.LabelOther},
			expected: "   1  [ ] (untitled)  (medium/other)\n",
		},
		{
			name:     "newlines flattened",
			num:      1,
			task:     service.Task{Title: "a\nb", Priority: service.PriorityMedium, Label: service.LabelOther},
			expected: "   1  [ ] a b  (medium/other)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.num, tt.task)
			if buf.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, buf.String())
			}
		})
	}
}

func TestFormatTask_Reminder(t *testing.T) {
	remind := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	task := service.Task{
		Title:        "Standup",
		Priority:     service.PriorityMedium,
		Label:        service.LabelWork,
		ReminderTime: &remind,
	}

	var buf bytes.Buffer
	FormatTask(&buf, 1, task)
	expected := "   1  [ ] Standup  (medium/work)  remind 2026-03-14 09:30\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	FormatSummary(&buf, 2, 5)
	if buf.String() != "2 of 5 tasks completed\n" {
		t.Errorf("unexpected summary: %q", buf.String())
	}
}

func TestParseReminder(t *testing.T) {
	if _, err := ParseReminder("2026-03-14T09:30:00Z"); err != nil {
		t.Errorf("RFC3339 should parse, got %v", err)
	}

	ts, err := ParseReminder("2026-03-14 09:30")
	if err != nil {
		t.Fatalf("local layout should parse, got %v", err)
	}
	if ts.Hour() != 9 || ts.Minute() != 30 {
		t.Errorf("unexpected time: %v", ts)
	}

	if _, err := ParseReminder("soonish"); err == nil {
		t.Error("expected error for garbage input")
	}
}
