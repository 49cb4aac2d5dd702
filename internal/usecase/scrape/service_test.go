package scrape

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/application/service"
	"rym2spotify/internal/domain/entity"
	"rym2spotify/internal/infrastructure/logger"
	"rym2spotify/internal/infrastructure/pacing"
)

// gatedFetcher holds Open until the gate is closed.
type gatedFetcher struct {
	*fakeFetcher
	gate chan struct{}
}

func (g *gatedFetcher) Open(ctx context.Context) (output.Session, error) {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.fakeFetcher.Open(ctx)
}

func newTestService(ctx context.Context, fetcher output.Fetcher, extractor output.Extractor) (*Service, *service.TaskRegistryImpl) {
	registry := service.NewTaskRegistry()
	runner := NewRunner(registry, fetcher, extractor, pacing.Factory(0), logger.NewNop(), RunnerConfig{})
	return NewService(ctx, registry, runner, logger.NewNop()), registry
}

func TestService_SubmitReturnsBeforeWorkStarts(t *testing.T) {
	fetcher := &gatedFetcher{
		fakeFetcher: newFakeFetcher(map[string]string{testPage1: "list:1"}),
		gate:        make(chan struct{}),
	}
	extractor := &fakeExtractor{lists: map[string][]entity.Entry{"list:1": {song}}}
	svc, _ := newTestService(context.Background(), fetcher, extractor)

	id, err := svc.Submit(context.Background(), entity.Job{URL: testListURL})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	task, err := svc.Status(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, task.Status().Terminal(), "job must still be running while the session is blocked")

	close(fetcher.gate)
	svc.Wait()

	task, err = svc.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusSuccess, task.Status())
	assert.Equal(t, []string{"artistSong - titleSong"}, task.Data())
}

func TestService_RequestContextDoesNotCancelJob(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{testPage1: "list:1"})
	extractor := &fakeExtractor{lists: map[string][]entity.Entry{"list:1": {song}}}
	svc, _ := newTestService(context.Background(), fetcher, extractor)

	reqCtx, cancel := context.WithCancel(context.Background())
	id, err := svc.Submit(reqCtx, entity.Job{URL: testListURL})
	require.NoError(t, err)
	cancel()

	svc.Wait()
	task, err := svc.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusSuccess, task.Status())
}

func TestService_ConcurrentJobsOwnTheirSessions(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{testPage1: "list:1"})
	extractor := &fakeExtractor{lists: map[string][]entity.Entry{"list:1": {song, albumA}}}
	svc, registry := newTestService(context.Background(), fetcher, extractor)

	const jobs = 10
	ids := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := svc.Submit(context.Background(), entity.Job{URL: testListURL})
			assert.NoError(t, err)
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	svc.Wait()

	assert.Len(t, ids, jobs, "task ids must be unique")
	assert.Equal(t, jobs, registry.Len())

	opened, closed := fetcher.Counts()
	assert.Equal(t, jobs, opened)
	assert.Equal(t, jobs, closed)

	for id := range ids {
		task, err := svc.Status(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.TaskStatusSuccess, task.Status())
		assert.Equal(t, []string{"artistSong - titleSong", "artistA - titleA"}, task.Data())
	}
}

func TestService_DuplicateIDIsRejected(t *testing.T) {
	svc, _ := newTestService(context.Background(), newFakeFetcher(nil), &fakeExtractor{})
	svc.newID = func() string { return "fixed" }

	_, err := svc.Submit(context.Background(), entity.Job{URL: "bad"})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), entity.Job{URL: "bad"})
	assert.ErrorIs(t, err, entity.ErrDuplicateTaskID)
	svc.Wait()
}

func TestService_StatusUnknownID(t *testing.T) {
	svc, _ := newTestService(context.Background(), newFakeFetcher(nil), &fakeExtractor{})

	_, err := svc.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestService_ShutdownEndsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &gatedFetcher{fakeFetcher: newFakeFetcher(nil), gate: make(chan struct{})}
	svc, _ := newTestService(ctx, fetcher, &fakeExtractor{})

	id, err := svc.Submit(context.Background(), entity.Job{URL: testListURL})
	require.NoError(t, err)

	cancel()

	done := make(chan struct{})
	go func() {
		svc.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not finish after shutdown")
	}

	task, err := svc.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusFailure, task.Status())
}
