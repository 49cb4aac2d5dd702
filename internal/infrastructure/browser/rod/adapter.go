package rod

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.Fetcher = (*Fetcher)(nil)
	_ output.Session = (*BrowserAdapter)(nil)
)

const (
	defaultSlowMotion    = 0
	defaultTimeout       = 60 * time.Second
	defaultSettleTime    = 2 * time.Second
	defaultChallengeWait = 30 * time.Second
)

type BrowserConfig struct {
	Headless   bool
	NoSandbox  bool
	Bin        string // empty: let the launcher find or download Chromium
	SlowMotion time.Duration
	Timeout    time.Duration
	SettleTime time.Duration

	// ChallengeWait is how long a detected interstitial gets to clear
	// (manually in a visible browser, or by itself) before the single retry.
	ChallengeWait      time.Duration
	ChallengeSelectors []string
	ChallengeTitles    []string

	// SnapshotDir receives a screenshot of pages that failed to load or
	// stayed on the interstitial. Empty disables snapshots.
	SnapshotDir string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:      false,
		NoSandbox:     false,
		SlowMotion:    defaultSlowMotion,
		Timeout:       defaultTimeout,
		SettleTime:    defaultSettleTime,
		ChallengeWait: defaultChallengeWait,
		ChallengeSelectors: []string{
			"#challenge-form",
			"#challenge-running",
			"#cf-challenge-running",
			"#turnstile-wrapper",
			"iframe[src*='challenges.cloudflare.com']",
		},
		ChallengeTitles: []string{
			"just a moment",
			"attention required",
		},
	}
}

// Fetcher opens one Chrome instance per session.
type Fetcher struct {
	cfg    BrowserConfig
	logger output.LoggerPort
}

func NewFetcher(cfg BrowserConfig, logger output.LoggerPort) *Fetcher {
	return &Fetcher{cfg: cfg, logger: logger}
}

func (f *Fetcher) Open(ctx context.Context) (output.Session, error) {
	return NewBrowserAdapter(ctx, f.cfg, f.logger)
}

type pageState int

const (
	pageReady pageState = iota
	pageChallenge
	pageFailed
)

func (s pageState) String() string {
	switch s {
	case pageReady:
		return "ready"
	case pageChallenge:
		return "challenge"
	default:
		return "failed"
	}
}

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      BrowserConfig
	logger   output.LoggerPort

	mu     sync.Mutex
	closed bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig, logger output.LoggerPort) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-blink-features", "AutomationControlled")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch browser: %v", entity.ErrSessionInit, err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: connect to browser: %v", entity.ErrSessionInit, err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: open page: %v", entity.ErrSessionInit, err)
	}

	logger.Debug("Browser session opened", "headless", cfg.Headless)

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Fetch navigates to rawURL and returns the rendered document. A page that
// shows an interstitial gets one more look after ChallengeWait.
func (b *BrowserAdapter) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrFetch, err)
	}
	if !b.IsReady() {
		return "", fmt.Errorf("%w: session closed", entity.ErrFetch)
	}

	start := time.Now()
	if err := b.navigate(ctx, rawURL); err != nil {
		b.snapshot(ctx, "navigation")
		return "", fmt.Errorf("%w: %s: %v", entity.ErrFetch, rawURL, err)
	}

	state, err := b.classify(ctx)
	if state == pageChallenge {
		b.logger.Warn("Anti-bot challenge detected, waiting for it to clear", "url", rawURL, "wait", b.cfg.ChallengeWait.String())
		if err := sleepCtx(ctx, b.cfg.ChallengeWait); err != nil {
			return "", fmt.Errorf("%w: %s: %v", entity.ErrFetch, rawURL, err)
		}
		b.waitLoad(ctx)
		state, err = b.classify(ctx)
	}

	switch state {
	case pageChallenge:
		b.snapshot(ctx, "challenge")
		return "", fmt.Errorf("%w: %w: %s", entity.ErrFetch, entity.ErrChallenge, rawURL)
	case pageFailed:
		b.snapshot(ctx, "load")
		return "", fmt.Errorf("%w: %s: %v", entity.ErrFetch, rawURL, err)
	}

	p, done := b.scoped(ctx)
	defer done()

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: %s: read html: %v", entity.ErrFetch, rawURL, err)
	}

	b.logger.Debug("Page fetched", "url", rawURL, "bytes", len(html), "duration_ms", time.Since(start).Milliseconds())
	return html, nil
}

func (b *BrowserAdapter) navigate(ctx context.Context, rawURL string) error {
	p, done := b.scoped(ctx)
	defer done()

	if err := p.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	if b.cfg.SettleTime > 0 {
		_ = p.WaitIdle(b.cfg.SettleTime)
	}
	return nil
}

// waitLoad covers interstitials that navigate to the real page once solved.
func (b *BrowserAdapter) waitLoad(ctx context.Context) {
	p, done := b.scoped(ctx)
	defer done()
	_ = p.WaitLoad()
}

// classify is the only place that knows what an interstitial looks like.
func (b *BrowserAdapter) classify(ctx context.Context) (pageState, error) {
	p, done := b.scoped(ctx)
	defer done()

	info, err := p.Info()
	if err != nil {
		return pageFailed, fmt.Errorf("page info: %w", err)
	}
	title := strings.ToLower(info.Title)
	for _, marker := range b.cfg.ChallengeTitles {
		if marker != "" && strings.Contains(title, strings.ToLower(marker)) {
			return pageChallenge, nil
		}
	}

	for _, selector := range b.cfg.ChallengeSelectors {
		has, _, err := p.Has(selector)
		if err != nil {
			return pageFailed, fmt.Errorf("query %s: %w", selector, err)
		}
		if has {
			return pageChallenge, nil
		}
	}

	readyState, err := evalJSON(p, `() => document.readyState`)
	if err != nil {
		return pageFailed, err
	}
	if rs := readyState.Str(); rs != "complete" && rs != "interactive" {
		return pageFailed, fmt.Errorf("document not loaded: %s", rs)
	}

	return pageReady, nil
}

func (b *BrowserAdapter) scoped(ctx context.Context) (*rod.Page, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	p := b.page.Context(ctx).Timeout(b.cfg.Timeout)
	return p, func() { p.CancelTimeout() }
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.page != nil
}

// Close is idempotent. It also removes the temporary Chrome profile.
func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
	if b.logger != nil {
		b.logger.Debug("Browser session closed")
	}
}

func evalJSON(p *rod.Page, js string) (gson.JSON, error) {
	res, err := p.Eval(js)
	if err != nil {
		return gson.JSON{}, fmt.Errorf("eval: %w", err)
	}
	return res.Value, nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty url")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", rawURL)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
