package entities

import "time"

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityGroup   Visibility = "GROUP"
	VisibilityPublic  Visibility = "PUBLIC"
)

func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(s) {
	case VisibilityPrivate, VisibilityGroup, VisibilityPublic:
		return Visibility(s), true
	}
	return "", false
}

type Document struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Summary       string     `json:"summary"`
	FileName      string     `json:"fileName"`
	FilePath      string     `json:"-"`
	FileType      string     `json:"fileType"`
	FileSize      int64      `json:"fileSize"`
	Tags          []string   `json:"tags"`
	Visibility    Visibility `json:"visibility"`
	OwnerID       string     `json:"ownerId"`
	OwnerName     string     `json:"ownerName"`
	ViewCount     int        `json:"viewCount"`
	AverageRating float64    `json:"averageRating"`
	TotalRatings  int        `json:"totalRatings"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Readable reports whether the given user may see the document.
// PUBLIC is open to anyone, GROUP to any authenticated user,
// PRIVATE to the owner and admins. A nil user is anonymous.
func (d *Document) Readable(u *User) bool {
	switch d.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityGroup:
		return u != nil
	default:
		return u != nil && (d.OwnerID == u.ID || u.IsAdmin())
	}
}

// DocumentFilter describes a catalog search. OwnerID set means an
// owner-scoped listing, which bypasses the visibility gating below.
type DocumentFilter struct {
	Query      string
	Tags       []string
	Visibility Visibility
	OwnerID    string
	// Requesting user, nil when anonymous. Gates which visibility
	// tiers appear in general search results.
	Requester *User
	Page      int
	Size      int
}

// DocumentPage mirrors the pagination envelope the web client consumes.
type DocumentPage struct {
	Content       []*Document `json:"content"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Size          int         `json:"size"`
	Number        int         `json:"number"`
	Last          bool        `json:"last"`
}
