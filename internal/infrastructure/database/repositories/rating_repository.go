package repositories

import (
	"context"
	stderrors "errors"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ratingColumns = `r.id, r.document_id, r.user_id, u.full_name, r.score, r.created_at, r.updated_at`

type ratingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) repositories.RatingRepository {
	return &ratingRepository{pool: pool}
}

// Upsert relies on the unique (user_id, document_id) index: a second
// submission replaces the score and keeps the original row identity.
func (r *ratingRepository) Upsert(ctx context.Context, rating *entities.Rating) (*entities.Rating, error) {
	query := `INSERT INTO ratings (id, document_id, user_id, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, document_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		RETURNING id, document_id, user_id, score, created_at, updated_at`

	var stored entities.Rating
	err := r.pool.QueryRow(ctx, query,
		rating.ID, rating.DocumentID, rating.UserID,
		rating.Score, rating.CreatedAt, rating.UpdatedAt,
	).Scan(
		&stored.ID, &stored.DocumentID, &stored.UserID,
		&stored.Score, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	stored.UserName = rating.UserName
	return &stored, nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id string) (*entities.Rating, error) {
	query := `SELECT ` + ratingColumns + `
		FROM ratings r JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	rating, err := scanRating(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("rating not found")
		}
		return nil, err
	}
	return rating, nil
}

func (r *ratingRepository) GetByUserAndDocument(ctx context.Context, userID, documentID string) (*entities.Rating, error) {
	query := `SELECT ` + ratingColumns + `
		FROM ratings r JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1 AND r.document_id = $2`

	row := r.pool.QueryRow(ctx, query, userID, documentID)
	rating, err := scanRating(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("rating not found")
		}
		return nil, err
	}
	return rating, nil
}

func (r *ratingRepository) ListByDocument(ctx context.Context, documentID string) ([]*entities.Rating, error) {
	query := `SELECT ` + ratingColumns + `
		FROM ratings r JOIN users u ON u.id = r.user_id
		WHERE r.document_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []*entities.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}

func (r *ratingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	return err
}

func scanRating(row pgx.Row) (*entities.Rating, error) {
	var rating entities.Rating
	err := row.Scan(
		&rating.ID, &rating.DocumentID, &rating.UserID, &rating.UserName,
		&rating.Score, &rating.CreatedAt, &rating.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}
