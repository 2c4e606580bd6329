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

const commentColumns = `c.id, c.document_id, c.author_id, u.full_name, c.content, c.created_at, c.updated_at`

type commentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) repositories.CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	query := `INSERT INTO comments (id, document_id, author_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.DocumentID, comment.AuthorID,
		comment.Content, comment.CreatedAt, comment.UpdatedAt,
	)
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	comment, err := scanComment(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("comment not found")
		}
		return nil, err
	}
	return comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *entities.Comment) error {
	query := `UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, comment.Content, comment.UpdatedAt, comment.ID)
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func (r *commentRepository) ListByDocument(ctx context.Context, documentID string, page, size int) (*entities.CommentPage, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM comments WHERE document_id = $1`, documentID,
	).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + commentColumns + `
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.document_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, documentID, size, page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*entities.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &entities.CommentPage{
		Content:       comments,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		Last:          page >= totalPages-1,
	}, nil
}

func scanComment(row pgx.Row) (*entities.Comment, error) {
	var comment entities.Comment
	err := row.Scan(
		&comment.ID, &comment.DocumentID, &comment.AuthorID, &comment.AuthorName,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
