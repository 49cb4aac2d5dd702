package input

import (
	"context"

	"rym2spotify/internal/domain/entity"
)

type ScrapeService interface {
	Submit(ctx context.Context, job entity.Job) (string, error)
	Status(ctx context.Context, id string) (entity.Task, error)
}
