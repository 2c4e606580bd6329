package app_test

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/pkg/errors"
)

// In-memory repository implementations backing the end-to-end tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User
	docs  *memDocRepo
}

func (r *memUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (r *memUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (r *memUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NewNotFoundError("user not found")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, filter *entities.UserFilter) ([]*entities.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.User
	needle := strings.ToLower(filter.Search)
	for _, user := range r.users {
		if needle != "" &&
			!strings.Contains(strings.ToLower(user.Username), needle) &&
			!strings.Contains(strings.ToLower(user.FullName), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			continue
		}
		copied := *user
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := int64(len(matched))
	start := min(filter.Page*filter.Size, len(matched))
	end := min(start+filter.Size, len(matched))
	return matched[start:end], total, nil
}

func (r *memUserRepo) CountDocuments(ctx context.Context, userID string) (int, error) {
	return r.docs.countByOwner(userID), nil
}

type memDocRepo struct {
	mu   sync.Mutex
	docs map[string]*entities.Document
}

func (r *memDocRepo) countByOwner(ownerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			count++
		}
	}
	return count
}

func (r *memDocRepo) Create(ctx context.Context, doc *entities.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *memDocRepo) GetByID(ctx context.Context, id string) (*entities.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		copied := *doc
		return &copied, nil
	}
	return nil, errors.NewNotFoundError("document not found")
}

func (r *memDocRepo) Update(ctx context.Context, doc *entities.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return errors.NewNotFoundError("document not found")
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *memDocRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *memDocRepo) Search(ctx context.Context, filter *entities.DocumentFilter) (*entities.DocumentPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.Document
	for _, doc := range r.docs {
		if filter.OwnerID != "" {
			if doc.OwnerID != filter.OwnerID {
				continue
			}
		} else {
			if !doc.Readable(filter.Requester) {
				continue
			}
			if filter.Visibility != "" && doc.Visibility != filter.Visibility {
				continue
			}
		}
		if filter.Query != "" {
			needle := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(doc.Title), needle) &&
				!strings.Contains(strings.ToLower(doc.Description), needle) {
				continue
			}
		}
		if len(filter.Tags) > 0 && !overlaps(doc.Tags, filter.Tags) {
			continue
		}
		copied := *doc
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return pageOf(matched, filter.Page, filter.Size), nil
}

func overlaps(a, b []string) bool {
	for _, tag := range b {
		if slices.Contains(a, tag) {
			return true
		}
	}
	return false
}

func pageOf(docs []*entities.Document, page, size int) *entities.DocumentPage {
	total := int64(len(docs))
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	start := min(page*size, len(docs))
	end := min(start+size, len(docs))

	return &entities.DocumentPage{
		Content:       docs[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		Last:          page >= totalPages-1,
	}
}

func (r *memDocRepo) Recent(ctx context.Context, page, size int) (*entities.DocumentPage, error) {
	return r.Search(ctx, &entities.DocumentFilter{
		Requester: &entities.User{ID: "", Roles: []string{entities.RoleAdmin}},
		Page:      page,
		Size:      size,
	})
}

func (r *memDocRepo) Popular(ctx context.Context, minRating float64, minViews, page, size int) (*entities.DocumentPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.Document
	for _, doc := range r.docs {
		if doc.AverageRating >= minRating || doc.ViewCount >= minViews {
			copied := *doc
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].AverageRating != matched[j].AverageRating {
			return matched[i].AverageRating > matched[j].AverageRating
		}
		return matched[i].ViewCount > matched[j].ViewCount
	})
	return pageOf(matched, page, size), nil
}

func (r *memDocRepo) IncrementViewCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		doc.ViewCount++
	}
	return nil
}

func (r *memDocRepo) UpdateRatingStats(ctx context.Context, id string, stats entities.RatingSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc, ok := r.docs[id]; ok {
		doc.AverageRating = stats.AverageRating
		doc.TotalRatings = stats.TotalRatings
	}
	return nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*entities.Comment
}

func (r *memCommentRepo) Create(ctx context.Context, comment *entities.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *memCommentRepo) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment, ok := r.comments[id]; ok {
		copied := *comment
		return &copied, nil
	}
	return nil, errors.NewNotFoundError("comment not found")
}

func (r *memCommentRepo) Update(ctx context.Context, comment *entities.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *memCommentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

func (r *memCommentRepo) ListByDocument(ctx context.Context, documentID string, page, size int) (*entities.CommentPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entities.Comment
	for _, comment := range r.comments {
		if comment.DocumentID == documentID {
			copied := *comment
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	start := min(page*size, len(matched))
	end := min(start+size, len(matched))

	return &entities.CommentPage{
		Content:       matched[start:end],
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		Last:          page >= totalPages-1,
	}, nil
}

type memRatingRepo struct {
	mu      sync.Mutex
	ratings map[string]*entities.Rating // keyed by user:document
}

func (r *memRatingRepo) Upsert(ctx context.Context, rating *entities.Rating) (*entities.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rating.UserID + ":" + rating.DocumentID
	if existing, ok := r.ratings[key]; ok {
		existing.Score = rating.Score
		existing.UpdatedAt = rating.UpdatedAt
		copied := *existing
		return &copied, nil
	}
	copied := *rating
	r.ratings[key] = &copied
	result := copied
	return &result, nil
}

func (r *memRatingRepo) GetByID(ctx context.Context, id string) (*entities.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rating := range r.ratings {
		if rating.ID == id {
			copied := *rating
			return &copied, nil
		}
	}
	return nil, errors.NewNotFoundError("rating not found")
}

func (r *memRatingRepo) GetByUserAndDocument(ctx context.Context, userID, documentID string) (*entities.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rating, ok := r.ratings[userID+":"+documentID]; ok {
		copied := *rating
		return &copied, nil
	}
	return nil, errors.NewNotFoundError("rating not found")
}

func (r *memRatingRepo) ListByDocument(ctx context.Context, documentID string) ([]*entities.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Rating
	for _, rating := range r.ratings {
		if rating.DocumentID == documentID {
			copied := *rating
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memRatingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, rating := range r.ratings {
		if rating.ID == id {
			delete(r.ratings, key)
			return nil
		}
	}
	return errors.NewNotFoundError("rating not found")
}
