package tasklist_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easytask/internal/service"
	"easytask/internal/tasklist"
	"easytask/internal/testutil"
)

func TestRefetch_ReplacesList(t *testing.T) {
	svc := testutil.NewFakeTasks()
	svc.AddTask(service.Task{Title: "Buy milk"})
	svc.AddTask(service.Task{Title: "Buy eggs"})

	s := tasklist.New(svc, nil)
	require.NoError(t, s.Refetch(context.Background()))

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "Buy eggs", tasks[1].Title)
}

func TestRefetch_FailureKeepsPriorList(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeTasks()
	svc.AddTask(service.Task{Title: "Buy milk"})

	s := tasklist.New(svc, nil)
	require.NoError(t, s.Refetch(ctx))

	svc.ListErr = errors.New("connection refused")
	err := s.Refetch(ctx)
	require.Error(t, err)
	assert.Equal(t, "Failed to load tasks", err.Error())

	assert.Len(t, s.Tasks(), 1, "prior list untouched on failure")
	assert.Error(t, s.LastError())
}

func TestSetFilter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeTasks()
	svc.AddTask(service.Task{Title: "Report", Label: service.LabelWork})
	svc.AddTask(service.Task{Title: "Groceries", Label: service.LabelPersonal})

	s := tasklist.New(svc, nil)
	require.NoError(t, s.SetFilter(ctx, tasklist.Filter{Label: service.LabelWork}))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Report", tasks[0].Title)

	// Clearing the filter yields everything again.
	require.NoError(t, s.SetFilter(ctx, tasklist.Filter{}))
	assert.Len(t, s.Tasks(), 2)
}

func TestSetFilter_RejectsBadValues(t *testing.T) {
	svc := testutil.NewFakeTasks()
	s := tasklist.New(svc, nil)

	err := s.SetFilter(context.Background(), tasklist.Filter{Label: "chores"})
	require.Error(t, err)
	assert.Equal(t, 0, svc.ListCalls)
}

func TestCreate_EmptyTitleNeverDispatches(t *testing.T) {
	svc := testutil.NewFakeTasks()
	s := tasklist.New(svc, nil)

	err := s.Create(context.Background(), service.TaskDraft{})
	assert.ErrorIs(t, err, tasklist.ErrTitleRequired)
	assert.Equal(t, 0, svc.CreateCalls)
}

func TestCreate_DefaultsAndReconcile(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeTasks()
	s := tasklist.New(svc, nil)

	require.NoError(t, s.Create(ctx, service.TaskDraft{Title: "Buy milk"}))

	// Reconciled by refetch, not by local append.
	assert.Equal(t, 1, svc.ListCalls)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, service.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, service.LabelOther, tasks[0].Label)
}

func TestCreate_FailureSetsFlag(t *testing.T) {
	svc := testutil.NewFakeTasks()
	svc.CreateErr = errors.New("boom")
	s := tasklist.New(svc, nil)

	err := s.Create(context.Background(), service.TaskDraft{Title: "Buy milk"})
	require.Error(t, err)
	assert.Equal(t, "Failed to create task", err.Error())
	assert.Error(t, s.LastError())
	assert.Empty(t, s.Tasks())
}

func TestToggle_SendsNegationOfLastKnown(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeTasks()
	id := svc.AddTask(service.Task{Title: "Buy milk"})

	s := tasklist.New(svc, nil)
	require.NoError(t, s.Refetch(ctx))

	require.NoError(t, s.Toggle(ctx, id))
	assert.True(t, svc.LastSetDone, "is_done=false toggles to true")

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsDone, "refetch reflects the flip")

	require.NoError(t, s.Toggle(ctx, id))
	assert.False(t, svc.LastSetDone, "second toggle negates the refreshed value")
}

func TestToggle_UnknownID(t *testing.T) {
	svc := testutil.NewFakeTasks()
	s := tasklist.New(svc, nil)

	err := s.Toggle(context.Background(), "nope")
	assert.ErrorIs(t, err, tasklist.ErrUnknownTask)
	assert.Equal(t, 0, svc.SetDoneCalls)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeTasks()
	svc.AddTask(service.Task{Title: "Done one", IsDone: true})
	svc.AddTask(service.Task{Title: "Open one"})

	s := tasklist.New(svc, nil)
	require.NoError(t, s.Refetch(ctx))

	done, total := s.Summary()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)
}

func TestRemove_FailureThenSuccessClearsFlag(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewFakeTasks()
	id := svc.AddTask(service.Task{Title: "Buy milk"})

	s := tasklist.New(svc, nil)
	require.NoError(t, s.Refetch(ctx))

	svc.DeleteErr = errors.New("boom")
	err := s.Remove(ctx, id)
	require.Error(t, err)
	assert.Equal(t, "Failed to delete task", err.Error())
	assert.Len(t, s.Tasks(), 1, "list length unchanged on failed remove")
	assert.Error(t, s.LastError())

	// The next successful operation clears the flag.
	svc.DeleteErr = nil
	require.NoError(t, s.Remove(ctx, id))
	assert.NoError(t, s.LastError())
	assert.Empty(t, s.Tasks())
}

// gatedTasks serves scripted ListTasks responses, each gated on a channel,
// so tests can force responses to land out of order.
type gatedTasks struct {
	service.Tasks

	mu        sync.Mutex
	calls     int
	entered   []chan struct{}
	gates     []chan struct{}
	responses [][]service.Task
}

func (g *gatedTasks) ListTasks(ctx context.Context, label service.Label, priority service.Priority) ([]service.Task, error) {
	g.mu.Lock()
	n := g.calls
	g.calls++
	g.mu.Unlock()
	close(g.entered[n])
	<-g.gates[n]
	return g.responses[n], nil
}

func TestRefetch_DiscardsStaleResponse(t *testing.T) {
	ctx := context.Background()
	old := []service.Task{{ID: "1", Title: "stale"}}
	fresh := []service.Task{{ID: "2", Title: "current"}}

	g := &gatedTasks{
		entered:   []chan struct{}{make(chan struct{}), make(chan struct{})},
		gates:     []chan struct{}{make(chan struct{}), make(chan struct{})},
		responses: [][]service.Task{old, fresh},
	}
	s := tasklist.New(g, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Refetch(ctx) // first fetch, blocked on gate 0
	}()
	<-g.entered[0]

	// Second fetch starts after the first and completes first.
	close(g.gates[1])
	require.NoError(t, s.Refetch(ctx))
	require.Equal(t, "current", s.Tasks()[0].Title)

	// Now the first response lands, late. It must be dropped.
	close(g.gates[0])
	<-done

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "current", tasks[0].Title, "late stale response must not win")
}
