package entities

import "time"

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
	Content       []*Comment `json:"content"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
	Size          int        `json:"size"`
	Number        int        `json:"number"`
	Last          bool       `json:"last"`
}
