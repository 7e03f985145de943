package content

import (
	"fmt"
	"strings"
	"time"
)

// LocalPrefix marks article ids that exist only in the local store and
// must never reach the remote content API.
const LocalPrefix = "local-"

type ArticleID string

// Local reports whether the article id denotes a locally authored,
// not-yet-synced article.
func (id ArticleID) Local() bool {
	return strings.HasPrefix(string(id), LocalPrefix)
}

func (id ArticleID) String() string {
	return string(id)
}

// Article is a single short article. DateCreated is kept in its wire
// form, since the remote API is not consistent about date formats.
type Article struct {
	ID          ArticleID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Content     string    `json:"content"`
	DateCreated string    `json:"dateCreated,omitempty"`
	Tags        []string  `json:"tags,omitempty"`

	Local bool `json:"local,omitempty"`
}

func (a Article) String() string {
	return fmt.Sprintf("%s: %s by %s", a.ID, a.Title, a.Author)
}

// Comment belongs to exactly one article. Local marks comments that
// were saved only to the local store, either because the article is
// local-only, or because the remote write failed.
type Comment struct {
	ID          string    `json:"id,omitempty"`
	ArticleID   ArticleID `json:"articleId,omitempty"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	DateCreated string    `json:"dateCreated,omitempty"`
	Likes       int       `json:"likes,omitempty"`

	Local bool `json:"local,omitempty"`
}

// PageResult is the unit returned by one acquisition attempt, a
// contiguous slice of a conceptually larger ordered collection.
type PageResult struct {
	Articles []Article `json:"articles"`
	Meta     PageMeta  `json:"meta"`
}

type PageMeta struct {
	TotalCount int `json:"totalCount"`
	Offset     int `json:"offset"`
}

// Paging holds the navigation hints derived from a page result.
type Paging struct {
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
	PrevOffset int  `json:"prevOffset"`
	NextOffset int  `json:"nextOffset"`
}

// PagingFor computes the navigation hints for a page. When the total
// count is unknown, a full page is treated as evidence that a next
// page may exist.
func PagingFor(offset, pageSize, total int, totalKnown bool, got int) Paging {
	p := Paging{HasPrev: offset > 0}

	if totalKnown {
		p.HasNext = offset+pageSize < total
	} else {
		p.HasNext = got == pageSize
	}

	if p.HasPrev {
		p.PrevOffset = offset - pageSize
		if p.PrevOffset < 0 {
			p.PrevOffset = 0
		}
	}
	if p.HasNext {
		p.NextOffset = offset + pageSize
	}

	return p
}

// Provenance tags which source satisfied a data request.
type Provenance string

const (
	ProvenanceCache    Provenance = "cache"
	ProvenanceRemote   Provenance = "remote"
	ProvenanceFallback Provenance = "fallback"
	ProvenanceLocal    Provenance = "local"
	ProvenanceEmpty    Provenance = "empty"
)

// Opinion is a visitor feedback record.
type Opinion struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Rating      int    `json:"rating"`
	Stars       string `json:"stars"`
	Text        string `json:"text"`
	DateCreated string `json:"dateCreated"`
}

// RatingStars derives the star string for a 1..5 rating.
func RatingStars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating)
}

// User is the signed-in visitor, kept in the local store.
type User struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// Settings are the cosmetic UI preferences. They are persisted for
// schema completeness, rendering them is up to the frontend.
type Settings struct {
	Theme   string `json:"theme,omitempty"`
	Palette string `json:"palette,omitempty"`
}

// NowStamp returns the creation timestamp format used for locally
// authored entities.
func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
