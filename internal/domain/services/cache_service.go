package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"knowledgehub-server/internal/domain/entities"
)

type CacheService interface {
	GetDocument(ctx context.Context, docID string) (*entities.Document, error)
	SetDocument(ctx context.Context, doc *entities.Document) error
	GetDocumentPage(ctx context.Context, key string) (*entities.DocumentPage, error)
	SetDocumentPage(ctx context.Context, key string, page *entities.DocumentPage) error
	InvalidateDocument(ctx context.Context, docID string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
	SearchCacheKey(filter *entities.DocumentFilter) string
}

type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, duration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

type redisCacheService struct {
	client        RedisClient
	cacheDuration time.Duration
}

func NewRedisCacheService(client RedisClient, cacheDuration time.Duration) *redisCacheService {
	return &redisCacheService{
		client:        client,
		cacheDuration: cacheDuration,
	}
}

func (s *redisCacheService) GetDocument(ctx context.Context, docID string) (*entities.Document, error) {
	key := fmt.Sprintf("doc:%s", docID)
	data, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var doc entities.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (s *redisCacheService) SetDocument(ctx context.Context, doc *entities.Document) error {
	key := fmt.Sprintf("doc:%s", doc.ID)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.cacheDuration)
}

func (s *redisCacheService) GetDocumentPage(ctx context.Context, key string) (*entities.DocumentPage, error) {
	data, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var page entities.DocumentPage
	if err := json.Unmarshal([]byte(data), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (s *redisCacheService) SetDocumentPage(ctx context.Context, key string, page *entities.DocumentPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.cacheDuration)
}

func (s *redisCacheService) InvalidateDocument(ctx context.Context, docID string) error {
	key := fmt.Sprintf("doc:%s", docID)
	return s.client.Del(ctx, key)
}

func (s *redisCacheService) InvalidatePrefix(ctx context.Context, prefix string) error {
	pattern := fmt.Sprintf("%s*", prefix)
	keys, err := s.client.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return s.client.Del(ctx, keys...)
	}

	return nil
}

// SearchCacheKey includes the requester id because visibility gating
// makes search results user-specific.
func (s *redisCacheService) SearchCacheKey(filter *entities.DocumentFilter) string {
	requester := ""
	if filter.Requester != nil {
		requester = filter.Requester.ID
	}

	return fmt.Sprintf(
		"docs:page:owner=%s:user=%s:q=%s:tags=%s:vis=%s:page=%d:size=%d",
		filter.OwnerID,
		requester,
		filter.Query,
		strings.Join(filter.Tags, ","),
		filter.Visibility,
		filter.Page,
		filter.Size,
	)
}
