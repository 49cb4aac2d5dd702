package rod

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// dumpConfig controls how a page is reduced before it is written next to a
// snapshot.
type dumpConfig struct {
	dropTags  []string
	dropAttrs []string
	maxSize   int
}

var defaultDump = dumpConfig{
	dropTags: []string{
		"script", "style", "noscript", "svg", "iframe", "link", "meta",
	},
	dropAttrs: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority",
	},
	maxSize: 256_000,
}

// cleanHTML strips scripts, styles and noisy attributes so the dump shows what
// the extractor sees. The title is kept: it is what challenge detection reads.
func cleanHTML(raw string, cfg dumpConfig) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return truncate(raw, cfg.maxSize)
	}

	prune(doc, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return truncate(raw, cfg.maxSize)
	}
	return truncate(sb.String(), cfg.maxSize)
}

func prune(n *html.Node, cfg dumpConfig) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && oneOf(c.Data, cfg.dropTags):
			n.RemoveChild(c)
		default:
			if c.Type == html.ElementNode {
				c.Attr = keepAttrs(c.Attr, cfg)
			}
			prune(c, cfg)
		}
		c = next
	}
}

func keepAttrs(attrs []html.Attribute, cfg dumpConfig) []html.Attribute {
	var kept []html.Attribute
	for _, a := range attrs {
		if oneOf(a.Key, cfg.dropAttrs) ||
			strings.HasPrefix(a.Key, "data-") ||
			strings.HasPrefix(a.Key, "aria-") ||
			strings.HasPrefix(a.Key, "on") {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + "\n<!-- truncated -->"
}

func oneOf(s string, candidates []string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
