// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"easytask/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// TestToken is the access token issued by the fakes.
const TestToken = "test-token"

// FakeAuth is an in-memory implementation of service.Auth for testing.
type FakeAuth struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount

	// Codes sent per email, in order. The last one is the valid code.
	codes map[string][]string

	// Error injection for testing
	RegisterErr error
	LoginErr    error
	VerifyErr   error
	ResendErr   error

	// Call counters, for asserting an operation never dispatched.
	RegisterCalls int
	LoginCalls    int
	VerifyCalls   int
	ResendCalls   int
}

type fakeAccount struct {
	password string
	profile  service.UserProfile
	verified bool
}

// NewFakeAuth creates an empty FakeAuth.
func NewFakeAuth() *FakeAuth {
	return &FakeAuth{
		accounts: make(map[string]fakeAccount),
		codes:    make(map[string][]string),
	}
}

// AddVerifiedUser seeds an account that can log in immediately.
func (f *FakeAuth) AddVerifiedUser(email, password, fullName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = fakeAccount{
		password: password,
		profile: service.UserProfile{
			ID:       uuid.NewString(),
			Email:    email,
			FullName: fullName,
		},
		verified: true,
	}
}

// LastCode returns the most recent verification code sent to email.
func (f *FakeAuth) LastCode(email string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sent := f.codes[email]
	if len(sent) == 0 {
		return "", false
	}
	return sent[len(sent)-1], true
}

// CodesSent returns how many codes were sent to email.
func (f *FakeAuth) CodesSent(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.codes[email])
}

// Register implements service.Auth.
func (f *FakeAuth) Register(ctx context.Context, reg service.Registration) (service.RegisterResult, error) {
	f.mu.Lock()
	f.RegisterCalls++
	f.mu.Unlock()
	if f.RegisterErr != nil {
		return service.RegisterResult{}, f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.accounts[reg.Email]; exists {
		return service.RegisterResult{}, errors.New("email already registered")
	}
	f.accounts[reg.Email] = fakeAccount{
		password: reg.Password,
		profile: service.UserProfile{
			ID:          uuid.NewString(),
			Email:       reg.Email,
			FullName:    reg.FullName,
			PhoneNumber: reg.PhoneNumber,
		},
	}
	f.codes[reg.Email] = append(f.codes[reg.Email], "123456")
	return service.RegisterResult{Message: "User registered successfully."}, nil
}

// Login implements service.Auth.
func (f *FakeAuth) Login(ctx context.Context, email, password string) (service.LoginResult, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.mu.Unlock()
	if f.LoginErr != nil {
		return service.LoginResult{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		return service.LoginResult{}, errors.New("incorrect email or password")
	}
	if !acct.verified {
		return service.LoginResult{}, errors.New("email not verified")
	}
	return service.LoginResult{
		AccessToken: TestToken,
		TokenType:   "bearer",
		User:        acct.profile,
	}, nil
}

// VerifyEmail implements service.Auth.
func (f *FakeAuth) VerifyEmail(ctx context.Context, email, otp string) (string, error) {
	f.mu.Lock()
	f.VerifyCalls++
	f.mu.Unlock()
	if f.VerifyErr != nil {
		return "", f.VerifyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	acct, ok := f.accounts[email]
	if !ok {
		return "", ErrNotFound
	}
	code, ok := lastOf(f.codes[email])
	if !ok || code != otp {
		return "", errors.New("Invalid OTP")
	}
	acct.verified = true
	f.accounts[email] = acct
	return "Email verified successfully", nil
}

// ResendOTP implements service.Auth.
func (f *FakeAuth) ResendOTP(ctx context.Context, email string) error {
	f.mu.Lock()
	f.ResendCalls++
	f.mu.Unlock()
	if f.ResendErr != nil {
		return f.ResendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[email]; !ok {
		return ErrNotFound
	}
	f.codes[email] = append(f.codes[email], "654321")
	return nil
}

func lastOf(sent []string) (string, bool) {
	if len(sent) == 0 {
		return "", false
	}
	return sent[len(sent)-1], true
}

// FakeTasks is an in-memory implementation of service.Tasks for testing.
type FakeTasks struct {
	mu    sync.Mutex
	tasks []service.Task

	// Error injection for testing
	ListErr    error
	CreateErr  error
	SetDoneErr error
	DeleteErr  error

	// Call counters, for asserting an operation never dispatched.
	ListCalls    int
	CreateCalls  int
	SetDoneCalls int
	DeleteCalls  int

	// LastSetDone records the value of the most recent SetTaskDone call.
	LastSetDone bool
}

// NewFakeTasks creates an empty FakeTasks.
func NewFakeTasks() *FakeTasks {
	return &FakeTasks{}
}

// AddTask seeds a task and returns its generated ID.
func (f *FakeTasks) AddTask(t service.Task) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = service.PriorityMedium
	}
	if t.Label == "" {
		t.Label = service.LabelOther
	}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// ListTasks implements service.Tasks.
func (f *FakeTasks) ListTasks(ctx context.Context, label service.Label, priority service.Priority) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []service.Task
	for _, t := range f.tasks {
		if label != "" && t.Label != label {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// CreateTask implements service.Tasks.
func (f *FakeTasks) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	f.mu.Lock()
	f.CreateCalls++
	f.mu.Unlock()
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	t := service.Task{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Description:  draft.Description,
		Priority:     draft.Priority,
		Label:        draft.Label,
		ReminderTime: draft.ReminderTime,
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// SetTaskDone implements service.Tasks.
func (f *FakeTasks) SetTaskDone(ctx context.Context, id string, done bool) error {
	f.mu.Lock()
	f.SetDoneCalls++
	f.LastSetDone = done
	f.mu.Unlock()
	if f.SetDoneErr != nil {
		return f.SetDoneErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].IsDone = done
			return nil
		}
	}
	return ErrNotFound
}

// DeleteTask implements service.Tasks.
func (f *FakeTasks) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	f.DeleteCalls++
	f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
