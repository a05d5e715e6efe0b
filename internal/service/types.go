// Package service defines the backend-agnostic interfaces for auth and task operations.
package service

import "time"

// Priority is the task priority level.
type Priority string

// Priority values accepted by the backend.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriority reports whether p is one of the accepted priority values.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label is the task category label.
type Label string

// Label values accepted by the backend.
const (
	LabelWork     Label = "work"
	LabelPersonal Label = "personal"
	LabelUrgent   Label = "urgent"
	LabelOther    Label = "other"
)

// ValidLabel reports whether l is one of the accepted label values.
func ValidLabel(l Label) bool {
	switch l {
	case LabelWork, LabelPersonal, LabelUrgent, LabelOther:
		return true
	}
	return false
}

// Task represents a single task record. The backend owns the record;
// the client holds a read-through cache of it.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     Priority   `json:"priority"`
	Label        Label      `json:"label"`
	ReminderTime *time.Time `json:"reminder_time,omitempty"`
	IsDone       bool       `json:"is_done"`
	CreatedAt    time.Time  `json:"created_at,omitzero"`
}

// TaskDraft is the client-side input for creating a task.
// Optional fields are omitted from the wire payload when empty.
type TaskDraft struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     Priority   `json:"priority"`
	Label        Label      `json:"label"`
	ReminderTime *time.Time `json:"reminder_time,omitempty"`
}

// UserProfile is the immutable profile snapshot returned at login time.
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Registration carries the inputs for creating an account.
type Registration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// RegisterResult is the backend's answer to a registration request.
// OTP is only set when the backend could not deliver the code by email
// and echoed it in the response instead.
type RegisterResult struct {
	Message string `json:"msg"`
	Note    string `json:"note,omitempty"`
	OTP     string `json:"otp,omitempty"`
}

// LoginResult pairs the issued access token with the profile snapshot.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserProfile `json:"user"`
}
