package output

import "rym2spotify/internal/domain/entity"

type TaskRegistry interface {
	Create(id string) error
	Update(id string, state entity.TaskState) error
	Get(id string) (entity.Task, error)
}
