package scrape

import (
	"context"
	"fmt"
	"slices"
	"time"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"
)

const (
	initMessage      = "Initializing..."
	emptyListMessage = "No items found on the list page. The list may be empty or the anti-bot check was not passed."
)

type RunnerConfig struct {
	// MaxPages limits pagination; zero means no limit.
	MaxPages int
}

// Runner drives one job from submission to a terminal state. It never
// returns an error: every outcome ends up in the task registry.
type Runner struct {
	registry  output.TaskRegistry
	fetcher   output.Fetcher
	extractor output.Extractor
	newPacer  output.PacerFactory
	logger    output.LoggerPort
	maxPages  int
}

func NewRunner(
	registry output.TaskRegistry,
	fetcher output.Fetcher,
	extractor output.Extractor,
	newPacer output.PacerFactory,
	logger output.LoggerPort,
	cfg RunnerConfig,
) *Runner {
	return &Runner{
		registry:  registry,
		fetcher:   fetcher,
		extractor: extractor,
		newPacer:  newPacer,
		logger:    logger,
		maxPages:  cfg.MaxPages,
	}
}

func (r *Runner) Run(ctx context.Context, id string, job entity.Job) {
	log := r.logger.WithFields(map[string]any{"task_id": id, "url": job.URL})
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			log.Error("Runner panicked", "panic", p)
			r.finish(id, entity.Failed{Msg: fmt.Sprintf("internal error: %v", p)}, log, start)
		}
	}()

	state := r.execute(ctx, id, job, log)
	r.finish(id, state, log, start)
}

func (r *Runner) execute(ctx context.Context, id string, job entity.Job, log output.LoggerPort) entity.TaskState {
	r.progress(id, initMessage, log)

	list, err := ParseListURL(job.URL)
	if err != nil {
		log.Warn("Rejected list url", "error", err)
		return entity.Failed{Msg: err.Error()}
	}

	session, err := r.fetcher.Open(ctx)
	if err != nil {
		log.Error("Failed to open browser session", "error", err)
		return entity.Failed{Msg: err.Error()}
	}
	defer session.Close()

	pacer := r.newPacer()

	entries := r.collect(ctx, id, list, session, pacer, log)
	if err := ctx.Err(); err != nil {
		return interrupted(err, log)
	}
	if len(entries) == 0 {
		return entity.NewSucceeded(emptyListMessage, nil)
	}
	log.Info("List collected", "entries", len(entries), "resolve_albums", job.ResolveAlbums)

	items := r.resolve(ctx, id, entries, job.ResolveAlbums, session, pacer, log)
	if err := ctx.Err(); err != nil {
		return interrupted(err, log)
	}
	return entity.NewSucceeded(fmt.Sprintf("Successfully processed %d items.", len(items)), items)
}

// collect walks the list page by page. A failed fetch, an empty page or a
// page identical to the previous one all mean the list is over.
func (r *Runner) collect(
	ctx context.Context,
	id string,
	list ListURL,
	session output.Session,
	pacer output.Pacer,
	log output.LoggerPort,
) []entity.Entry {
	var entries, previous []entity.Entry

	for page := 1; r.maxPages <= 0 || page <= r.maxPages; page++ {
		pageURL := list.Page(page)
		r.progress(id, fmt.Sprintf("Fetching page %d...", page), log)

		if err := pacer.Wait(ctx); err != nil {
			log.Warn("Pacer interrupted pagination", "page", page, "error", err)
			break
		}

		html, err := session.Fetch(ctx, pageURL)
		pacer.Done()
		if err != nil {
			log.Warn("Page fetch failed, treating as end of list", "page", page, "page_url", pageURL, "error", err)
			r.progress(id, fmt.Sprintf("Could not load page %d, stopping pagination.", page), log)
			break
		}

		found := r.extractor.ParseList(html)
		if len(found) == 0 {
			log.Info("No entries on page, end of list", "page", page)
			break
		}
		if slices.Equal(found, previous) {
			log.Warn("Page repeats the previous one, end of list", "page", page)
			break
		}

		entries = append(entries, found...)
		previous = found
		log.Debug("Page parsed", "page", page, "found", len(found), "total", len(entries))
		r.progress(id, fmt.Sprintf("Found %d items on page %d (%d total).", len(found), page, len(entries)), log)
	}

	return entries
}

func (r *Runner) resolve(
	ctx context.Context,
	id string,
	entries []entity.Entry,
	resolveAlbums bool,
	session output.Session,
	pacer output.Pacer,
	log output.LoggerPort,
) []string {
	items := make([]string, 0, len(entries))
	total := len(entries)

	for i, e := range entries {
		if !resolveAlbums || !e.Resolvable() {
			items = append(items, e.Fallback())
			continue
		}

		r.progress(id, fmt.Sprintf("Resolving album %d/%d: %s", i+1, total, e.Title), log)
		items = append(items, r.resolveAlbum(ctx, e, session, pacer, log))
	}

	return items
}

// resolveAlbum returns the album's streaming link or its fallback string.
func (r *Runner) resolveAlbum(
	ctx context.Context,
	e entity.Entry,
	session output.Session,
	pacer output.Pacer,
	log output.LoggerPort,
) (item string) {
	log = log.WithFields(map[string]any{"artist": e.Artist, "title": e.Title})

	defer func() {
		if p := recover(); p != nil {
			log.Error("Album resolution panicked, using fallback", "panic", p)
			item = e.Fallback()
		}
	}()

	if err := pacer.Wait(ctx); err != nil {
		log.Warn("Pacer interrupted album resolution, using fallback", "error", err)
		return e.Fallback()
	}
	defer pacer.Done()

	html, err := session.Fetch(ctx, e.DetailLink)
	if err != nil {
		log.Warn("Album page fetch failed, using fallback", "detail_link", e.DetailLink, "error", err)
		return e.Fallback()
	}

	link, ok := r.extractor.ParseDetail(html)
	if !ok {
		log.Info("No streaming link on album page, using fallback")
		return e.Fallback()
	}

	log.Debug("Album resolved", "link", link)
	return link
}

// interrupted reports a job cut short by shutdown. Whatever was collected
// so far is incomplete and is not published.
func interrupted(err error, log output.LoggerPort) entity.TaskState {
	log.Warn("Job interrupted", "error", err)
	return entity.Failed{Msg: fmt.Sprintf("interrupted: %v", err)}
}

func (r *Runner) progress(id, msg string, log output.LoggerPort) {
	if err := r.registry.Update(id, entity.Processing{Msg: msg}); err != nil {
		log.Warn("Failed to record progress", "message", msg, "error", err)
	}
}

func (r *Runner) finish(id string, state entity.TaskState, log output.LoggerPort, start time.Time) {
	if err := r.registry.Update(id, state); err != nil {
		log.Error("Failed to record final state", "status", state.Status(), "error", err)
		return
	}
	log.Info("Task finished",
		"status", state.Status(),
		"message", state.Message(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
