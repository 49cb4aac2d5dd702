package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"rym2spotify/internal/domain/entity"
)

var listPathRe = regexp.MustCompile(`^/list/([^/]+)/([^/]+)(?:/(\d+))?/?$`)

var listHosts = map[string]bool{
	"rateyourmusic.com":     true,
	"www.rateyourmusic.com": true,
}

// ListURL is a validated list address without its page segment.
type ListURL struct {
	Base string
}

// ParseListURL accepts /list/{user}/{slug}/ with or without a trailing page number.
func ParseListURL(raw string) (ListURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ListURL{}, fmt.Errorf("%w: empty url", entity.ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ListURL{}, fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ListURL{}, fmt.Errorf("%w: unsupported scheme %q", entity.ErrInvalidURL, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if !listHosts[host] {
		return ListURL{}, fmt.Errorf("%w: %s is not a rateyourmusic.com address", entity.ErrInvalidURL, u.Host)
	}

	m := listPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return ListURL{}, fmt.Errorf("%w: %s is not a list page (expected /list/<user>/<list>/[<page>/])", entity.ErrInvalidURL, u.Path)
	}

	return ListURL{
		Base: fmt.Sprintf("%s://%s/list/%s/%s", u.Scheme, host, m[1], m[2]),
	}, nil
}

func (l ListURL) Page(n int) string {
	return fmt.Sprintf("%s/%d/", l.Base, n)
}
