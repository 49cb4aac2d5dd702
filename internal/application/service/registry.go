package service

import (
	"fmt"
	"sync"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"
)

var _ output.TaskRegistry = (*TaskRegistryImpl)(nil)

const defaultPendingMessage = "Task created, waiting to start."

// TaskRegistryImpl keeps every task for the lifetime of the process.
// Stored states are immutable values, so a read under RLock always sees a
// whole record.
type TaskRegistryImpl struct {
	mu    sync.RWMutex
	tasks map[string]entity.Task
}

func NewTaskRegistry() *TaskRegistryImpl {
	return &TaskRegistryImpl{
		tasks: make(map[string]entity.Task),
	}
}

func (r *TaskRegistryImpl) Create(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; ok {
		return fmt.Errorf("%w: %s", entity.ErrDuplicateTaskID, id)
	}
	r.tasks[id] = entity.Task{
		ID:    id,
		State: entity.Pending{Msg: defaultPendingMessage},
	}
	return nil
}

func (r *TaskRegistryImpl) Update(id string, state entity.TaskState) error {
	if state == nil {
		return fmt.Errorf("nil state for task %s", id)
	}
	if s, ok := state.(entity.Succeeded); ok {
		state = entity.NewSucceeded(s.Msg, s.Data)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", entity.ErrTaskNotFound, id)
	}
	if task.Status().Terminal() {
		return fmt.Errorf("%w: %s is %s", entity.ErrTaskFinalized, id, task.Status())
	}
	task.State = state
	r.tasks[id] = task
	return nil
}

func (r *TaskRegistryImpl) Get(id string) (entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return entity.Task{}, fmt.Errorf("%w: %s", entity.ErrTaskNotFound, id)
	}
	if s, ok := task.State.(entity.Succeeded); ok {
		task.State = entity.NewSucceeded(s.Msg, s.Data)
	}
	return task, nil
}

func (r *TaskRegistryImpl) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}
