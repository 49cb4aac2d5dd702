package output

import "context"

// Fetcher opens browser sessions. Each job opens exactly one.
type Fetcher interface {
	Open(ctx context.Context) (Session, error)
}

// Session returns fully rendered HTML for a URL. It is not safe for
// concurrent use. Fetch may block for the whole interstitial window.
type Session interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close()
}
