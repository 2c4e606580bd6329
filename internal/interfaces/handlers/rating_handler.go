package handlers

import (
	"net/http"

	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/internal/interfaces/dto"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingSvc *services.RatingService
	docSvc    *services.DocumentService
}

func NewRatingHandler(ratingSvc *services.RatingService, docSvc *services.DocumentService) *RatingHandler {
	return &RatingHandler{
		ratingSvc: ratingSvc,
		docSvc:    docSvc,
	}
}

// AddOrUpdate is the upsert endpoint: re-rating silently replaces the
// caller's previous score.
func (h *RatingHandler) AddOrUpdate(c *gin.Context) {
	var req dto.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "rating score must be between 1 and 5")
		return
	}

	doc, err := h.docSvc.Find(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	rating, stats, err := h.ratingSvc.AddOrUpdate(c.Request.Context(), doc, currentUser(c), req.Score)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RateResponse{
		ID:                    rating.ID,
		Score:                 rating.Score,
		UserID:                rating.UserID,
		DocumentID:            rating.DocumentID,
		CreatedAt:             rating.CreatedAt,
		UpdatedAt:             rating.UpdatedAt,
		DocumentAverageRating: stats.AverageRating,
		DocumentTotalRatings:  stats.TotalRatings,
	})
}

func (h *RatingHandler) UserRating(c *gin.Context) {
	doc, err := h.docSvc.Find(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	rating, err := h.ratingSvc.UserRating(c.Request.Context(), doc, currentUser(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if rating == nil {
		c.JSON(http.StatusOK, dto.UserRatingResponse{HasRating: false})
		return
	}

	c.JSON(http.StatusOK, dto.UserRatingResponse{
		HasRating: true,
		Score:     rating.Score,
		CreatedAt: &rating.CreatedAt,
		UpdatedAt: &rating.UpdatedAt,
	})
}

func (h *RatingHandler) ListByDocument(c *gin.Context) {
	doc, err := h.docSvc.Find(c.Request.Context(), c.Param("documentId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ratings, stats, err := h.ratingSvc.ListByDocument(c.Request.Context(), doc)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DocumentRatingsResponse{
		Ratings:       ratings,
		AverageRating: stats.AverageRating,
		TotalRatings:  stats.TotalRatings,
	})
}

func (h *RatingHandler) Delete(c *gin.Context) {
	if _, err := h.ratingSvc.Delete(c.Request.Context(), c.Param("ratingId"), currentUser(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Rating deleted successfully"})
}
