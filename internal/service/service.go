// Package service defines the backend-agnostic interfaces for auth and task operations.
package service

import "context"

// Auth defines the account and verification operations of the backend.
// The session manager never talks HTTP directly; everything goes through
// this interface.
type Auth interface {
	// Register creates a new account. The account still requires email
	// verification before login succeeds.
	Register(ctx context.Context, reg Registration) (RegisterResult, error)

	// Login exchanges email and password for an access token plus the
	// user's profile snapshot.
	Login(ctx context.Context, email, password string) (LoginResult, error)

	// VerifyEmail confirms ownership of an email address with a one-time
	// code. Returns the backend's confirmation message.
	VerifyEmail(ctx context.Context, email, otp string) (string, error)

	// ResendOTP asks the backend to send a fresh verification code.
	ResendOTP(ctx context.Context, email string) error
}

// Tasks defines the task operations of the backend. All calls require an
// authenticated session; the implementation attaches the bearer token.
type Tasks interface {
	// ListTasks returns the tasks matching the filter, in backend order.
	// Empty filter fields are omitted from the query entirely.
	ListTasks(ctx context.Context, label Label, priority Priority) ([]Task, error)

	// CreateTask creates a task from the draft and returns the stored record.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)

	// SetTaskDone sends a partial update flipping the done flag.
	SetTaskDone(ctx context.Context, id string, done bool) error

	// DeleteTask removes a task by ID.
	DeleteTask(ctx context.Context, id string) error
}
