package scrape

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"rym2spotify/internal/application/port/input"
	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"
)

var _ input.ScrapeService = (*Service)(nil)

// Service accepts jobs and runs each one in its own goroutine.
type Service struct {
	ctx      context.Context
	registry output.TaskRegistry
	runner   *Runner
	logger   output.LoggerPort
	newID    func() string

	wg sync.WaitGroup
}

// NewService binds background runs to ctx, never to the submitting request.
func NewService(ctx context.Context, registry output.TaskRegistry, runner *Runner, logger output.LoggerPort) *Service {
	return &Service{
		ctx:      ctx,
		registry: registry,
		runner:   runner,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

func (s *Service) Submit(ctx context.Context, job entity.Job) (string, error) {
	id := s.newID()
	if err := s.registry.Create(id); err != nil {
		s.logger.Error("Failed to register task", "task_id", id, "error", err)
		return "", err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runner.Run(s.ctx, id, job)
	}()

	s.logger.Info("Task submitted", "task_id", id, "url", job.URL, "scrape_albums", job.ResolveAlbums)
	return id, nil
}

func (s *Service) Status(ctx context.Context, id string) (entity.Task, error) {
	return s.registry.Get(id)
}

// Wait blocks until every submitted run has reached a terminal state.
func (s *Service) Wait() {
	s.wg.Wait()
}
