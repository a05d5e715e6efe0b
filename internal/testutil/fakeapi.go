package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"easytask/internal/service"
)

// FakeAPI is an httptest server speaking the backend's HTTP contract:
// JSON bodies, form-encoded login, {"detail": ...} error payloads, and
// bearer-token auth on /api/tasks.
type FakeAPI struct {
	Server *httptest.Server

	mu    sync.Mutex
	tasks []service.Task

	// Requests counts calls per "METHOD path" pattern.
	Requests map[string]int

	// LastAuthHeader records the Authorization header of the most recent
	// /api/tasks request.
	LastAuthHeader string
}

// NewFakeAPI starts a fake backend accepting TestToken as the only valid
// bearer token. Callers must Close it.
func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{Requests: make(map[string]int)}

	r := chi.NewRouter()
	r.Post("/api/auth/register", f.handleRegister)
	r.Post("/api/auth/login", f.handleLogin)
	r.Post("/api/auth/verify-email-otp", f.handleVerify)
	r.Post("/api/auth/resend-email-otp", f.handleResend)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(f.requireToken)
		r.Get("/", f.handleList)
		r.Post("/", f.handleCreate)
		r.Patch("/{id}", f.handlePatch)
		r.Delete("/{id}", f.handleDelete)
	})

	f.Server = httptest.NewServer(r)
	return f
}

// Close shuts the server down.
func (f *FakeAPI) Close() { f.Server.Close() }

// URL returns the base URL of the fake backend.
func (f *FakeAPI) URL() string { return f.Server.URL }

// SeedTask adds a task directly to the backend state, returning its ID.
func (f *FakeAPI) SeedTask(t service.Task) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// TaskCount returns the number of stored tasks.
func (f *FakeAPI) TaskCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

func (f *FakeAPI) count(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests[r.Method+" "+r.URL.Path]++
}

func detail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}

func (f *FakeAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		f.mu.Lock()
		f.LastAuthHeader = auth
		f.mu.Unlock()
		if auth != "Bearer "+TestToken {
			detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	var reg service.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil || reg.Email == "" {
		detail(w, http.StatusUnprocessableEntity, "invalid registration payload")
		return
	}
	if strings.HasPrefix(reg.Email, "taken@") {
		detail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(service.RegisterResult{
		Message: "User registered successfully.",
		OTP:     "123456",
		Note:    "Email delivery is currently unavailable.",
	})
}

func (f *FakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	if err := r.ParseForm(); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid form")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password != "hunter22" {
		detail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	json.NewEncoder(w).Encode(service.LoginResult{
		AccessToken: TestToken,
		TokenType:   "bearer",
		User:        service.UserProfile{ID: uuid.NewString(), Email: email, FullName: "Test User"},
	})
}

func (f *FakeAPI) handleVerify(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	var body struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	if body.OTP != "123456" {
		detail(w, http.StatusUnauthorized, "Invalid OTP")
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified successfully"})
}

func (f *FakeAPI) handleResend(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	json.NewEncoder(w).Encode(map[string]string{"message": "OTP sent"})
}

func (f *FakeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	label := service.Label(r.URL.Query().Get("label"))
	priority := service.Priority(r.URL.Query().Get("priority"))

	f.mu.Lock()
	defer f.mu.Unlock()
	out := []service.Task{}
	for _, t := range f.tasks {
		if label != "" && t.Label != label {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, t)
	}
	json.NewEncoder(w).Encode(out)
}

func (f *FakeAPI) handleCreate(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	var draft service.TaskDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || draft.Title == "" {
		detail(w, http.StatusUnprocessableEntity, "title required")
		return
	}
	t := service.Task{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Description:  draft.Description,
		Priority:     draft.Priority,
		Label:        draft.Label,
		ReminderTime: draft.ReminderTime,
	}
	f.mu.Lock()
	f.tasks = append(f.tasks, t)
	f.mu.Unlock()
	json.NewEncoder(w).Encode(t)
}

func (f *FakeAPI) handlePatch(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	id := chi.URLParam(r, "id")
	var body struct {
		IsDone *bool `json:"is_done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsDone == nil {
		detail(w, http.StatusUnprocessableEntity, "invalid payload")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].IsDone = *body.IsDone
			json.NewEncoder(w).Encode(f.tasks[i])
			return
		}
	}
	detail(w, http.StatusNotFound, "Task not found")
}

func (f *FakeAPI) handleDelete(w http.ResponseWriter, r *http.Request) {
	f.count(r)
	id := chi.URLParam(r, "id")
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	detail(w, http.StatusNotFound, "Task not found")
}
