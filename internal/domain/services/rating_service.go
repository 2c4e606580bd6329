package services

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/pkg/errors"

	"github.com/google/uuid"
)

type RatingService struct {
	ratingRepo repositories.RatingRepository
	docRepo    repositories.DocumentRepository
	cache      CacheService
}

func NewRatingService(ratingRepo repositories.RatingRepository, docRepo repositories.DocumentRepository, cache CacheService) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		docRepo:    docRepo,
		cache:      cache,
	}
}

// AddOrUpdate upserts the caller's rating for a document and recomputes
// the document aggregate. Returns the stored rating and the fresh stats.
func (s *RatingService) AddOrUpdate(ctx context.Context, doc *entities.Document, user *entities.User, score int) (*entities.Rating, entities.RatingSummary, error) {
	if score < 1 || score > 5 {
		return nil, entities.RatingSummary{}, errors.NewBadRequestError("rating score must be between 1 and 5")
	}

	now := time.Now()
	rating := &entities.Rating{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		UserID:     user.ID,
		UserName:   user.FullName,
		Score:      score,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	stored, err := s.ratingRepo.Upsert(ctx, rating)
	if err != nil {
		return nil, entities.RatingSummary{}, errors.NewInternalError("failed to save rating")
	}

	stats, err := s.recompute(ctx, doc.ID)
	if err != nil {
		return nil, entities.RatingSummary{}, err
	}

	return stored, stats, nil
}

// UserRating returns (nil, nil) when the user has not rated the
// document yet.
func (s *RatingService) UserRating(ctx context.Context, doc *entities.Document, user *entities.User) (*entities.Rating, error) {
	rating, err := s.ratingRepo.GetByUserAndDocument(ctx, user.ID, doc.ID)
	if err != nil {
		var notFound *errors.NotFoundError
		if stderrors.As(err, &notFound) {
			return nil, nil
		}
		return nil, errors.NewInternalError("failed to load rating")
	}
	return rating, nil
}

func (s *RatingService) ListByDocument(ctx context.Context, doc *entities.Document) ([]*entities.Rating, entities.RatingSummary, error) {
	ratings, err := s.ratingRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, entities.RatingSummary{}, errors.NewInternalError("failed to list ratings")
	}

	return ratings, summarizeRatings(ratings), nil
}

func (s *RatingService) Delete(ctx context.Context, ratingID string, actor *entities.User) (entities.RatingSummary, error) {
	rating, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return entities.RatingSummary{}, errors.NewNotFoundError("rating not found")
	}

	if rating.UserID != actor.ID {
		return entities.RatingSummary{}, errors.NewForbiddenError("not authorized to delete this rating")
	}

	if err := s.ratingRepo.Delete(ctx, ratingID); err != nil {
		return entities.RatingSummary{}, errors.NewInternalError("failed to delete rating")
	}

	return s.recompute(ctx, rating.DocumentID)
}

// recompute rebuilds the document aggregate from all stored ratings,
// writes it back, and drops stale cache entries.
func (s *RatingService) recompute(ctx context.Context, docID string) (entities.RatingSummary, error) {
	ratings, err := s.ratingRepo.ListByDocument(ctx, docID)
	if err != nil {
		return entities.RatingSummary{}, errors.NewInternalError("failed to list ratings")
	}

	stats := summarizeRatings(ratings)

	if err := s.docRepo.UpdateRatingStats(ctx, docID, stats); err != nil {
		return entities.RatingSummary{}, errors.NewInternalError("failed to update document rating")
	}

	s.cache.InvalidateDocument(ctx, docID)
	s.cache.InvalidatePrefix(ctx, "docs:page:")

	return stats, nil
}

func summarizeRatings(ratings []*entities.Rating) entities.RatingSummary {
	if len(ratings) == 0 {
		return entities.RatingSummary{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	average := float64(sum) / float64(len(ratings))

	return entities.RatingSummary{
		// One decimal, the precision the catalog cards display.
		AverageRating: math.Round(average*10) / 10,
		TotalRatings:  len(ratings),
	}
}
