// Package tasklist maintains the locally cached, server-backed task
// collection under a declarative filter. The cache never predicts server
// state: every successful mutation is followed by a full refetch and the
// backend's answer replaces the list wholesale.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"easytask/internal/api"
	"easytask/internal/service"
)

// Validation errors, caught before any network dispatch.
var (
	ErrTitleRequired = errors.New("title required")
	ErrUnknownTask   = errors.New("task not found")
)

// Fallback messages for transport and unknown failures, per operation.
const (
	fetchFallback  = "Failed to load tasks"
	createFallback = "Failed to create task"
	updateFallback = "Failed to update task"
	deleteFallback = "Failed to delete task"
)

// Filter is the active constraint on the task listing. Zero-value fields
// mean no constraint and are omitted from the backend query.
type Filter struct {
	Label    service.Label
	Priority service.Priority
}

// Synchronizer owns the cached task list and its filter. Safe for
// concurrent use: one logical writer, any number of readers. Readers get
// copies and must not expect the slice to change between refetches.
type Synchronizer struct {
	svc service.Tasks
	log *zap.Logger

	mu      sync.Mutex
	filter  Filter
	tasks   []service.Task
	lastErr error
	gen     uint64 // refetch generation; responses from an older generation are discarded
}

// New creates a Synchronizer with an empty filter and an empty cache.
func New(svc service.Tasks, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{svc: svc, log: log}
}

// Filter returns the active filter.
func (s *Synchronizer) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Tasks returns a copy of the cached list, in backend order.
func (s *Synchronizer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// LastError returns the error flag from the most recent operation, or nil.
// Every operation clears the flag on entry, so one successful call wipes
// the previous failure.
func (s *Synchronizer) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Summary recomputes the completion counts from the cached list on every
// call, so it can never drift from what Tasks returns.
func (s *Synchronizer) Summary() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.IsDone {
			done++
		}
	}
	return done, len(s.tasks)
}

// SetFilter replaces the filter and refetches under it.
func (s *Synchronizer) SetFilter(ctx context.Context, f Filter) error {
	if f.Label != "" && !service.ValidLabel(f.Label) {
		return fmt.Errorf("invalid label: %s", f.Label)
	}
	if f.Priority != "" && !service.ValidPriority(f.Priority) {
		return fmt.Errorf("invalid priority: %s", f.Priority)
	}
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	return s.Refetch(ctx)
}

// Refetch queries the backend under the active filter and replaces the
// cached list with the response. On failure the previous list stays
// untouched and the error flag is set. Responses are tagged with the
// generation of the filter they were issued for; if a newer refetch has
// started by the time a response lands, that response is dropped rather
// than overwriting the list with stale results.
func (s *Synchronizer) Refetch(ctx context.Context) error {
	s.mu.Lock()
	s.lastErr = nil
	s.gen++
	gen := s.gen
	f := s.filter
	s.mu.Unlock()

	tasks, err := s.svc.ListTasks(ctx, f.Label, f.Priority)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.log.Debug("dropping stale task list response",
			zap.Uint64("gen", gen),
			zap.Uint64("current", s.gen),
		)
		return nil
	}
	if err != nil {
		s.lastErr = api.Surface(err, fetchFallback)
		return s.lastErr
	}
	s.tasks = tasks
	return nil
}

// Create sends a draft to the backend. The title must be non-empty;
// priority and label default to medium/other when unset. On success the
// list is reconciled by refetch (the backend owns ordering and derived
// fields). On failure nothing is appended locally and the caller keeps
// the draft to retry.
func (s *Synchronizer) Create(ctx context.Context, draft service.TaskDraft) error {
	s.clearErr()

	if draft.Title == "" {
		return s.fail(ErrTitleRequired)
	}
	if draft.Priority == "" {
		draft.Priority = service.PriorityMedium
	}
	if draft.Label == "" {
		draft.Label = service.LabelOther
	}
	if !service.ValidPriority(draft.Priority) {
		return s.fail(fmt.Errorf("invalid priority: %s", draft.Priority))
	}
	if !service.ValidLabel(draft.Label) {
		return s.fail(fmt.Errorf("invalid label: %s", draft.Label))
	}

	if _, err := s.svc.CreateTask(ctx, draft); err != nil {
		return s.fail(api.Surface(err, createFallback))
	}
	s.reconcile(ctx)
	return nil
}

// Toggle flips the done flag of the task with the given id. The value
// sent is the negation of the last value this client saw, not a
// server-confirmed one; racing toggles can send a stale flip.
func (s *Synchronizer) Toggle(ctx context.Context, id string) error {
	s.clearErr()

	current, ok := s.lastKnownDone(id)
	if !ok {
		return s.fail(ErrUnknownTask)
	}

	if err := s.svc.SetTaskDone(ctx, id, !current); err != nil {
		return s.fail(api.Surface(err, updateFallback))
	}
	s.reconcile(ctx)
	return nil
}

// Remove deletes the task with the given id. Callers are expected to have
// confirmed the deletion; the synchronizer itself never prompts.
func (s *Synchronizer) Remove(ctx context.Context, id string) error {
	s.clearErr()

	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail(api.Surface(err, deleteFallback))
	}
	s.reconcile(ctx)
	return nil
}

func (s *Synchronizer) lastKnownDone(id string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t.IsDone, true
		}
	}
	return false, false
}

func (s *Synchronizer) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *Synchronizer) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

// reconcile refetches after a successful mutation. The mutation itself
// already succeeded, so a reconcile failure is reported through the error
// flag only, not as the mutation's result.
func (s *Synchronizer) reconcile(ctx context.Context) {
	if err := s.Refetch(ctx); err != nil {
		s.log.Debug("reconcile fetch failed", zap.Error(err))
	}
}
