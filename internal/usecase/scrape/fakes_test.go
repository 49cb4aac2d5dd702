package scrape

import (
	"context"
	"errors"
	"sync"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"
)

var errBoom = errors.New("boom")

// fakeFetcher serves canned HTML keyed by URL; anything else fails.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	panics  map[string]bool
	openErr error
	opened  int
	closed  int
	fetched []string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, panics: map[string]bool{}}
}

func (f *fakeFetcher) Open(ctx context.Context) (output.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return &fakeSession{f: f}, nil
}

func (f *fakeFetcher) Fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...)
}

func (f *fakeFetcher) Counts() (opened, closed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened, f.closed
}

type fakeSession struct {
	f      *fakeFetcher
	closed bool
}

func (s *fakeSession) Fetch(ctx context.Context, url string) (string, error) {
	s.f.mu.Lock()
	s.f.fetched = append(s.f.fetched, url)
	html, ok := s.f.pages[url]
	panics := s.f.panics[url]
	s.f.mu.Unlock()

	if panics {
		panic("driver crashed on " + url)
	}
	if !ok {
		return "", entity.ErrFetch
	}
	return html, nil
}

func (s *fakeSession) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.f.mu.Lock()
	s.f.closed++
	s.f.mu.Unlock()
}

// fakeExtractor maps page HTML to entries and detail HTML to links.
type fakeExtractor struct {
	lists   map[string][]entity.Entry
	details map[string]string
	panics  bool
}

func (x *fakeExtractor) ParseList(html string) []entity.Entry {
	if x.panics {
		panic("parser bug")
	}
	return x.lists[html]
}

func (x *fakeExtractor) ParseDetail(html string) (string, bool) {
	link, ok := x.details[html]
	return link, ok
}

// countingPacer never sleeps. When cancelAt is set, the Nth Wait calls
// cancel and every Wait from then on reports the cancellation.
type countingPacer struct {
	mu       sync.Mutex
	waits    int
	dones    int
	err      error
	cancelAt int
	cancel   context.CancelFunc
}

func (p *countingPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waits++
	if p.cancelAt > 0 && p.waits == p.cancelAt {
		p.cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.err
}

func (p *countingPacer) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dones++
}

func (p *countingPacer) Waits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waits
}

func (p *countingPacer) Dones() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dones
}

// recordingRegistry remembers every state written for later inspection.
type recordingRegistry struct {
	output.TaskRegistry
	mu      sync.Mutex
	history map[string][]entity.TaskState
}

func (r *recordingRegistry) Update(id string, state entity.TaskState) error {
	err := r.TaskRegistry.Update(id, state)
	if err == nil {
		r.mu.Lock()
		r.history[id] = append(r.history[id], state)
		r.mu.Unlock()
	}
	return err
}

func (r *recordingRegistry) History(id string) []entity.TaskState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.TaskState(nil), r.history[id]...)
}
