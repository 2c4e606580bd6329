package dto

import "knowledgehub-server/internal/domain/entities"

type UpdateDocumentRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Visibility  *string  `json:"visibility"`
}

type DashboardResponse struct {
	NewestDocuments  []*entities.Document `json:"newestDocuments"`
	PopularDocuments []*entities.Document `json:"popularDocuments"`
	UserDocuments    []*entities.Document `json:"userDocuments"`
}

type AIStatusResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}
