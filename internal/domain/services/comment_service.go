package services

import (
	"context"
	"strings"
	"time"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/repositories"
	"knowledgehub-server/pkg/errors"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repositories.CommentRepository
}

func NewCommentService(commentRepo repositories.CommentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo}
}

func (s *CommentService) Add(ctx context.Context, doc *entities.Document, author *entities.User, content string) (*entities.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewBadRequestError("comment content cannot be empty")
	}

	now := time.Now()
	comment := &entities.Comment{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		AuthorID:   author.ID,
		AuthorName: author.FullName,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, errors.NewInternalError("failed to create comment")
	}

	return comment, nil
}

func (s *CommentService) ListByDocument(ctx context.Context, doc *entities.Document, page, size int) (*entities.CommentPage, error) {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	result, err := s.commentRepo.ListByDocument(ctx, doc.ID, page, size)
	if err != nil {
		return nil, errors.NewInternalError("failed to list comments")
	}
	return result, nil
}

func (s *CommentService) Update(ctx context.Context, commentID, content string, actor *entities.User) (*entities.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewBadRequestError("comment content cannot be empty")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, errors.NewNotFoundError("comment not found")
	}

	if comment.AuthorID != actor.ID {
		return nil, errors.NewForbiddenError("not authorized to update this comment")
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, errors.NewInternalError("failed to update comment")
	}

	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID string, actor *entities.User) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return errors.NewNotFoundError("comment not found")
	}

	if comment.AuthorID != actor.ID {
		return errors.NewForbiddenError("not authorized to delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return errors.NewInternalError("failed to delete comment")
	}

	return nil
}
