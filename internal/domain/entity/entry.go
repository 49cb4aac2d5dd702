package entity

type EntryKind string

const (
	EntryKindAlbum EntryKind = "album"
	EntryKindSong  EntryKind = "song"
)

func (k EntryKind) String() string {
	return string(k)
}

// Entry is one row of a list page, in display order.
type Entry struct {
	Kind       EntryKind
	Artist     string
	Title      string
	DetailLink string // albums only
}

// Fallback is the "artist - title" form used when no link is resolved.
func (e Entry) Fallback() string {
	return e.Artist + " - " + e.Title
}

func (e Entry) Resolvable() bool {
	return e.Kind == EntryKindAlbum && e.DetailLink != ""
}

// Job holds the parameters of one submitted scrape.
type Job struct {
	URL           string
	ResolveAlbums bool
}
