package rym

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"rym2spotify/internal/application/port/output"
	"rym2spotify/internal/domain/entity"
)

var _ output.Extractor = (*Extractor)(nil)

const DefaultBaseURL = "https://rateyourmusic.com"

// Extractor reads rateyourmusic.com list and release pages.
type Extractor struct {
	base *url.URL
}

func NewExtractor(baseURL string) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{base: base}, nil
}

// ParseList returns the list rows in display order. Rows that are neither an
// album nor a song are skipped; unparseable input yields no entries.
func (x *Extractor) ParseList(rawHTML string) []entity.Entry {
	doc := parseDocument(rawHTML)
	if doc == nil {
		return nil
	}

	var entries []entity.Entry
	doc.Find("table#user_list tbody tr td.main_entry").Each(func(_ int, cell *goquery.Selection) {
		if e, ok := x.albumEntry(cell); ok {
			entries = append(entries, e)
			return
		}
		if e, ok := songEntry(cell); ok {
			entries = append(entries, e)
		}
	})
	return entries
}

// ParseDetail returns the Spotify link of a release page.
func (x *Extractor) ParseDetail(rawHTML string) (string, bool) {
	doc := parseDocument(rawHTML)
	if doc == nil {
		return "", false
	}

	var link string
	doc.Find("a.spotify_link").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return true
		}
		link = href
		return false
	})
	return link, link != ""
}

func (x *Extractor) albumEntry(cell *goquery.Selection) (entity.Entry, bool) {
	artist := cell.Find("h2 a.list_artist").First()
	album := cell.Find("h3 a.list_album").First()
	if artist.Length() == 0 || album.Length() == 0 {
		return entity.Entry{}, false
	}

	e := entity.Entry{
		Kind:   entity.EntryKindAlbum,
		Artist: text(artist),
		Title:  text(album),
	}
	if href, ok := album.Attr("href"); ok {
		e.DetailLink = x.absolute(href)
	}
	return e, true
}

func songEntry(cell *goquery.Selection) (entity.Entry, bool) {
	song := cell.Find("h2.list_song a").First()
	artist := cell.Find("h3.list_song_artists a").First()
	if song.Length() == 0 || artist.Length() == 0 {
		return entity.Entry{}, false
	}

	return entity.Entry{
		Kind:   entity.EntryKindSong,
		Artist: text(artist),
		Title:  text(song),
	}, true
}

func (x *Extractor) absolute(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return x.base.ResolveReference(ref).String()
}

func parseDocument(rawHTML string) *goquery.Document {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}
	return goquery.NewDocumentFromNode(root)
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
