package client

import "time"

// Wire types mirroring the Knowledge Hub REST contract. Kept separate
// from the server's internal entities so the package stays importable
// on its own.

type User struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	FullName         string     `json:"fullName"`
	Email            string     `json:"email"`
	Roles            []string   `json:"roles"`
	Enabled          bool       `json:"enabled"`
	AccountNonLocked bool       `json:"accountNonLocked"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
	DocumentCount    int        `json:"documentCount,omitempty"`
}

type Document struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Summary       string    `json:"summary"`
	FileName      string    `json:"fileName"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	Tags          []string  `json:"tags"`
	Visibility    string    `json:"visibility"`
	OwnerID       string    `json:"ownerId"`
	OwnerName     string    `json:"ownerName"`
	ViewCount     int       `json:"viewCount"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type DocumentPage struct {
	Content       []Document `json:"content"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	Size          int        `json:"size"`
	Number        int        `json:"number"`
	Last          bool       `json:"last"`
}

type Comment struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CommentPage struct {
	Content       []Comment `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
	Last          bool      `json:"last"`
}

type Rating struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RateResult struct {
	ID                    string    `json:"id"`
	Score                 int       `json:"score"`
	UserID                string    `json:"userId"`
	DocumentID            string    `json:"documentId"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
	DocumentAverageRating float64   `json:"documentAverageRating"`
	DocumentTotalRatings  int       `json:"documentTotalRatings"`
}

type UserRating struct {
	HasRating bool       `json:"hasRating"`
	Score     int        `json:"score,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type DocumentRatings struct {
	Ratings       []Rating `json:"ratings"`
	AverageRating float64  `json:"averageRating"`
	TotalRatings  int      `json:"totalRatings"`
}

type Dashboard struct {
	NewestDocuments  []Document `json:"newestDocuments"`
	PopularDocuments []Document `json:"popularDocuments"`
	UserDocuments    []Document `json:"userDocuments"`
}

type AIStatus struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type loginResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

type ValidateResult struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}
