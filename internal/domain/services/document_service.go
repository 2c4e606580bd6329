package services

import (
	"context"
	"os"
	"time"
	"unicode/utf8"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/pkg/errors"
	"knowledgehub-server/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Dashboard thresholds for the "popular" shelf.
const (
	popularMinRating = 3.0
	popularMinViews  = 10
)

type DocumentService struct {
	docRepo repositories.DocumentRepository
	cache   CacheService
	ai      AIClient
}

func NewDocumentService(docRepo repositories.DocumentRepository, cache CacheService, ai AIClient) *DocumentService {
	return &DocumentService{
		docRepo: docRepo,
		cache:   cache,
		ai:      ai,
	}
}

type UploadParams struct {
	Title       string
	Description string
	Tags        []string
	Visibility  entities.Visibility
	FileName    string
	FilePath    string
	FileType    string
	FileSize    int64
	UseAI       bool
}

func (s *DocumentService) Upload(ctx context.Context, owner *entities.User, p UploadParams) (*entities.Document, error) {
	if p.Title == "" {
		return nil, errors.NewBadRequestError("title is required")
	}

	description := p.Description
	tags := p.Tags

	// AI enrichment fills missing metadata only; any failure falls
	// back to whatever the user typed.
	if p.UseAI && s.ai != nil && s.ai.Available(ctx) {
		result, err := s.processFile(ctx, p.FileName, p.FilePath)
		if err != nil && description != "" {
			logger.Warn("ai file processing failed, retrying with text", zap.Error(err))
			result, err = s.ai.ProcessText(ctx, description, p.Title)
		}
		if err == nil {
			if description == "" {
				description = result.Summary
			}
			if len(tags) == 0 {
				tags = result.Tags
			}
		} else {
			logger.Warn("ai processing failed, using manual input", zap.Error(err))
		}
	}

	if description == "" {
		description = "Uploaded by " + owner.FullName
	}
	if tags == nil {
		tags = []string{}
	}

	doc := &entities.Document{
		ID:          uuid.NewString(),
		Title:       p.Title,
		Description: description,
		Summary:     summarize(description),
		FileName:    p.FileName,
		FilePath:    p.FilePath,
		FileType:    p.FileType,
		FileSize:    p.FileSize,
		Tags:        tags,
		Visibility:  p.Visibility,
		OwnerID:     owner.ID,
		OwnerName:   owner.FullName,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, errors.NewInternalError("failed to create document")
	}

	s.cache.InvalidatePrefix(ctx, "docs:page:")

	return doc, nil
}

func (s *DocumentService) processFile(ctx context.Context, fileName, filePath string) (*AIResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return s.ai.ProcessFile(ctx, fileName, f)
}

// Get is the view-counted detail fetch. It hits the database so the
// returned viewCount is current, and drops the cached copy.
func (s *DocumentService) Get(ctx context.Context, docID string, requester *entities.User) (*entities.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, errors.NewNotFoundError("document not found")
	}

	if !doc.Readable(requester) {
		return nil, errors.NewForbiddenError("access denied")
	}

	if err := s.docRepo.IncrementViewCount(ctx, docID); err == nil {
		doc.ViewCount++
	}
	s.cache.InvalidateDocument(ctx, docID)

	return doc, nil
}

// Find is the cache-aside fetch used where viewing semantics do not
// apply (downloads, comment and rating lookups).
func (s *DocumentService) Find(ctx context.Context, docID string) (*entities.Document, error) {
	if doc, err := s.cache.GetDocument(ctx, docID); err == nil {
		return doc, nil
	}

	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, errors.NewNotFoundError("document not found")
	}

	s.cache.SetDocument(ctx, doc)

	return doc, nil
}

func (s *DocumentService) Search(ctx context.Context, filter *entities.DocumentFilter) (*entities.DocumentPage, error) {
	if filter.Size <= 0 {
		filter.Size = 10
	}
	if filter.Page < 0 {
		filter.Page = 0
	}

	cacheKey := s.cache.SearchCacheKey(filter)
	if page, err := s.cache.GetDocumentPage(ctx, cacheKey); err == nil {
		return page, nil
	}

	page, err := s.docRepo.Search(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError("failed to search documents")
	}

	s.cache.SetDocumentPage(ctx, cacheKey, page)

	return page, nil
}

// UserDocuments is the owner-scoped listing behind "my documents".
func (s *DocumentService) UserDocuments(ctx context.Context, owner *entities.User, page, size int) (*entities.DocumentPage, error) {
	return s.Search(ctx, &entities.DocumentFilter{
		OwnerID:   owner.ID,
		Requester: owner,
		Page:      page,
		Size:      size,
	})
}

func (s *DocumentService) Recent(ctx context.Context, page, size int) (*entities.DocumentPage, error) {
	if size <= 0 {
		size = 5
	}
	result, err := s.docRepo.Recent(ctx, page, size)
	if err != nil {
		return nil, errors.NewInternalError("failed to get recent documents")
	}
	return result, nil
}

func (s *DocumentService) Popular(ctx context.Context, page, size int) (*entities.DocumentPage, error) {
	if size <= 0 {
		size = 5
	}
	result, err := s.docRepo.Popular(ctx, popularMinRating, popularMinViews, page, size)
	if err != nil {
		return nil, errors.NewInternalError("failed to get popular documents")
	}
	return result, nil
}

// Dashboard aggregates the three landing-page shelves.
type Dashboard struct {
	NewestDocuments  []*entities.Document
	PopularDocuments []*entities.Document
	UserDocuments    []*entities.Document
}

func (s *DocumentService) Dashboard(ctx context.Context, user *entities.User) (*Dashboard, error) {
	recent, err := s.Recent(ctx, 0, 5)
	if err != nil {
		return nil, err
	}
	popular, err := s.Popular(ctx, 0, 5)
	if err != nil {
		return nil, err
	}
	own, err := s.UserDocuments(ctx, user, 0, 5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		NewestDocuments:  recent.Content,
		PopularDocuments: popular.Content,
		UserDocuments:    own.Content,
	}, nil
}

type DocumentUpdate struct {
	Title       *string
	Description *string
	Tags        []string
	Visibility  *entities.Visibility
}

func (s *DocumentService) Update(ctx context.Context, docID string, upd DocumentUpdate, actor *entities.User) (*entities.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return nil, errors.NewNotFoundError("document not found")
	}

	if doc.OwnerID != actor.ID {
		return nil, errors.NewForbiddenError("not authorized to update this document")
	}

	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Description != nil {
		doc.Description = *upd.Description
		doc.Summary = summarize(*upd.Description)
	}
	if upd.Tags != nil {
		doc.Tags = upd.Tags
	}
	if upd.Visibility != nil {
		doc.Visibility = *upd.Visibility
	}
	doc.UpdatedAt = time.Now()

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, errors.NewInternalError("failed to update document")
	}

	s.cache.InvalidateDocument(ctx, docID)
	s.cache.InvalidatePrefix(ctx, "docs:page:")

	return doc, nil
}

func (s *DocumentService) Delete(ctx context.Context, docID string, actor *entities.User) error {
	doc, err := s.docRepo.GetByID(ctx, docID)
	if err != nil {
		return errors.NewNotFoundError("document not found")
	}

	if doc.OwnerID != actor.ID {
		return errors.NewForbiddenError("not authorized to delete this document")
	}

	if err := s.docRepo.Delete(ctx, docID); err != nil {
		return errors.NewInternalError("failed to delete document")
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove document file",
				zap.String("path", doc.FilePath), zap.Error(err))
		}
	}

	s.cache.InvalidateDocument(ctx, docID)
	s.cache.InvalidatePrefix(ctx, "docs:page:")

	return nil
}

func summarize(description string) string {
	const maxLen = 500
	if len(description) <= maxLen {
		return description
	}

	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(description[cut]) {
		cut--
	}
	return description[:cut] + "..."
}
