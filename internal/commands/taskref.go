package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"easytask/internal/service"
)

// ErrTaskRefRequired is returned when no task reference was given.
var ErrTaskRefRequired = errors.New("task reference required")

// resolveTask turns a task reference into a concrete record from the
// current list. A reference is either a 1-based position in the listing
// or a task UUID. The list is refetched first so positions line up with
// what the user just saw.
func resolveTask(ctx context.Context, env *Env, args []string) (service.Task, error) {
	if len(args) == 0 {
		return service.Task{}, ErrTaskRefRequired
	}
	ref := args[0]

	if err := env.Tasks.Refetch(ctx); err != nil {
		return service.Task{}, err
	}
	tasks := env.Tasks.Tasks()

	if num, err := strconv.Atoi(ref); err == nil {
		if num < 1 || num > len(tasks) {
			return service.Task{}, fmt.Errorf("task number out of range: %d", num)
		}
		return tasks[num-1], nil
	}

	if _, err := uuid.Parse(ref); err != nil {
		return service.Task{}, fmt.Errorf("invalid task reference: %s", ref)
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("task not found: %s", ref)
}
