package repositories

import (
	"context"
	stderrors "errors"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const documentColumns = `d.id, d.title, d.description, d.summary, d.file_name, d.file_path,
	d.file_type, d.file_size, d.tags, d.visibility, d.owner_id, u.full_name,
	d.view_count, d.average_rating, d.total_ratings, d.created_at, d.updated_at`

type documentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) repositories.DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, doc *entities.Document) error {
	query := `INSERT INTO documents
		(id, title, description, summary, file_name, file_path, file_type, file_size,
		 tags, visibility, owner_id, view_count, average_rating, total_ratings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.pool.Exec(ctx, query,
		doc.ID, doc.Title, doc.Description, doc.Summary, doc.FileName, doc.FilePath,
		doc.FileType, doc.FileSize, doc.Tags, string(doc.Visibility), doc.OwnerID,
		doc.ViewCount, doc.AverageRating, doc.TotalRatings, doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents d JOIN users u ON u.id = d.owner_id
		WHERE d.id = $1`

	row := r.pool.QueryRow(ctx, query, id)
	doc, err := scanDocument(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewNotFoundError("document not found")
		}
		return nil, err
	}
	return doc, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *entities.Document) error {
	query := `UPDATE documents SET title = $1, description = $2, summary = $3,
		tags = $4, visibility = $5, updated_at = $6
		WHERE id = $7`

	_, err := r.pool.Exec(ctx, query,
		doc.Title, doc.Description, doc.Summary,
		doc.Tags, string(doc.Visibility), doc.UpdatedAt, doc.ID,
	)
	return err
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

// Search builds the catalog query. An owner-scoped listing bypasses
// visibility gating entirely; the general search is gated by the
// requester's identity and role.
func (r *documentRepository) Search(ctx context.Context, filter *entities.DocumentFilter) (*entities.DocumentPage, error) {
	where := sq.And{}

	if filter.OwnerID != "" {
		where = append(where, sq.Eq{"d.owner_id": filter.OwnerID})
	} else {
		where = append(where, visibilityGate(filter.Requester))
		if filter.Visibility != "" {
			where = append(where, sq.Eq{"d.visibility": string(filter.Visibility)})
		}
	}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		where = append(where, sq.Or{
			sq.ILike{"d.title": pattern},
			sq.ILike{"d.description": pattern},
		})
	}

	if len(filter.Tags) > 0 {
		// Overlap: a document matches when it carries any of the
		// requested tags.
		where = append(where, sq.Expr("d.tags && ?", filter.Tags))
	}

	return r.queryPage(ctx, where, "d.created_at DESC", filter.Page, filter.Size)
}

func (r *documentRepository) Recent(ctx context.Context, page, size int) (*entities.DocumentPage, error) {
	return r.queryPage(ctx, sq.And{}, "d.created_at DESC", page, size)
}

func (r *documentRepository) Popular(ctx context.Context, minRating float64, minViews, page, size int) (*entities.DocumentPage, error) {
	where := sq.And{sq.Or{
		sq.GtOrEq{"d.average_rating": minRating},
		sq.GtOrEq{"d.view_count": minViews},
	}}
	return r.queryPage(ctx, where, "d.average_rating DESC, d.view_count DESC", page, size)
}

func (r *documentRepository) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE documents SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

func (r *documentRepository) UpdateRatingStats(ctx context.Context, id string, stats entities.RatingSummary) error {
	query := `UPDATE documents SET average_rating = $1, total_ratings = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, stats.AverageRating, stats.TotalRatings, id)
	return err
}

func (r *documentRepository) queryPage(ctx context.Context, where sq.And, orderBy string, page, size int) (*entities.DocumentPage, error) {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	from := "documents d JOIN users u ON u.id = d.owner_id"

	countQuery, countArgs, err := builder.Select("count(*)").From(from).Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	query, args, err := builder.Select(documentColumns).
		From(from).
		Where(where).
		OrderBy(orderBy).
		Limit(uint64(size)).
		Offset(uint64(page * size)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*entities.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildPage(docs, total, page, size), nil
}

// visibilityGate encodes the read tiers: PUBLIC for anyone, GROUP for
// authenticated users, PRIVATE for the owner; admins see everything.
func visibilityGate(requester *entities.User) sq.Sqlizer {
	if requester == nil {
		return sq.Eq{"d.visibility": string(entities.VisibilityPublic)}
	}
	if requester.IsAdmin() {
		return sq.Expr("TRUE")
	}
	return sq.Or{
		sq.Eq{"d.visibility": string(entities.VisibilityPublic)},
		sq.Eq{"d.visibility": string(entities.VisibilityGroup)},
		sq.And{
			sq.Eq{"d.visibility": string(entities.VisibilityPrivate)},
			sq.Eq{"d.owner_id": requester.ID},
		},
	}
}

func buildPage(docs []*entities.Document, total int64, page, size int) *entities.DocumentPage {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &entities.DocumentPage{
		Content:       docs,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		Last:          page >= totalPages-1,
	}
}

func scanDocument(row pgx.Row) (*entities.Document, error) {
	var doc entities.Document
	var visibility string
	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Description, &doc.Summary, &doc.FileName, &doc.FilePath,
		&doc.FileType, &doc.FileSize, &doc.Tags, &visibility, &doc.OwnerID, &doc.OwnerName,
		&doc.ViewCount, &doc.AverageRating, &doc.TotalRatings, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Visibility = entities.Visibility(visibility)
	return &doc, nil
}
