package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDefaultsDescription(t *testing.T) {
	svc := NewDocumentService(newFakeDocumentRepo(), nopCache{}, nil)
	owner := &entities.User{ID: "u1", FullName: "Alice Smith"}

	doc, err := svc.Upload(context.Background(), owner, UploadParams{
		Title:      "Handbook",
		Visibility: entities.VisibilityPrivate,
		FileName:   "handbook.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "Uploaded by Alice Smith", doc.Description)
	assert.Equal(t, doc.Description, doc.Summary)
	assert.NotNil(t, doc.Tags)
	assert.Empty(t, doc.Tags)
	assert.Equal(t, "u1", doc.OwnerID)
}

func TestUploadTruncatesLongSummary(t *testing.T) {
	svc := NewDocumentService(newFakeDocumentRepo(), nopCache{}, nil)
	owner := &entities.User{ID: "u1", FullName: "Alice"}

	long := strings.Repeat("x", 600)
	doc, err := svc.Upload(context.Background(), owner, UploadParams{
		Title:       "Long",
		Description: long,
	})
	require.NoError(t, err)

	assert.Len(t, doc.Summary, 503)
	assert.True(t, strings.HasSuffix(doc.Summary, "..."))
	assert.Equal(t, long, doc.Description, "description itself stays untruncated")
}

func TestSummarizeCutsOnRuneBoundary(t *testing.T) {
	// Three-byte runes put byte 500 inside the 167th character, so the
	// cut has to back up to byte 498.
	long := strings.Repeat("文", 200)
	got := summarize(long)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("文", 166)+"...", got)
}

func TestUploadFallsBackToTextEnrichment(t *testing.T) {
	aiClient := &fakeAIClient{textResult: &AIResult{
		Summary: "generated summary",
		Tags:    []string{"policy", "hr"},
	}}
	svc := NewDocumentService(newFakeDocumentRepo(), nopCache{}, aiClient)
	owner := &entities.User{ID: "u1", FullName: "Alice"}

	doc, err := svc.Upload(context.Background(), owner, UploadParams{
		Title:       "Handbook",
		Description: "manual description",
		FileName:    "handbook.pdf",
		FilePath:    "/nonexistent/handbook.pdf",
		UseAI:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, aiClient.textCalls)
	assert.Equal(t, "manual description", aiClient.lastContent)
	assert.Equal(t, "Handbook", aiClient.lastTitle)
	assert.Equal(t, "manual description", doc.Description, "typed description wins over generated summary")
	assert.Equal(t, []string{"policy", "hr"}, doc.Tags, "missing tags filled from text enrichment")
}

func TestUploadKeepsManualInputWhenEnrichmentFails(t *testing.T) {
	aiClient := &fakeAIClient{}
	svc := NewDocumentService(newFakeDocumentRepo(), nopCache{}, aiClient)
	owner := &entities.User{ID: "u1", FullName: "Alice"}

	doc, err := svc.Upload(context.Background(), owner, UploadParams{
		Title:       "Handbook",
		Description: "manual description",
		Tags:        []string{"manual"},
		FilePath:    "/nonexistent/handbook.pdf",
		UseAI:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, "manual description", doc.Description)
	assert.Equal(t, []string{"manual"}, doc.Tags)
}

func TestUploadRequiresTitle(t *testing.T) {
	svc := NewDocumentService(newFakeDocumentRepo(), nopCache{}, nil)

	_, err := svc.Upload(context.Background(), &entities.User{ID: "u1"}, UploadParams{})
	var badReq *errors.BadRequestError
	assert.ErrorAs(t, err, &badReq)
}

func TestGetIncrementsViewCountAndGatesAccess(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := NewDocumentService(repo, nopCache{}, nil)
	owner := &entities.User{ID: "owner", FullName: "Alice"}

	doc, err := svc.Upload(context.Background(), owner, UploadParams{
		Title:      "Secret",
		Visibility: entities.VisibilityPrivate,
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), doc.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, err = svc.Get(context.Background(), doc.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)

	_, err = svc.Get(context.Background(), doc.ID, &entities.User{ID: "stranger"})
	var forbidden *errors.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	_, err = svc.Get(context.Background(), doc.ID, nil)
	require.ErrorAs(t, err, &forbidden)

	admin := &entities.User{ID: "root", Roles: []string{entities.RoleAdmin}}
	_, err = svc.Get(context.Background(), doc.ID, admin)
	assert.NoError(t, err)
}

func TestUpdateIsOwnerOnly(t *testing.T) {
	repo := newFakeDocumentRepo()
	svc := NewDocumentService(repo, nopCache{}, nil)
	owner := &entities.User{ID: "owner", FullName: "Alice"}

	doc, err := svc.Upload(context.Background(), owner, UploadParams{Title: "Draft"})
	require.NoError(t, err)

	title := "Final"
	_, err = svc.Update(context.Background(), doc.ID, DocumentUpdate{Title: &title}, &entities.User{ID: "stranger"})
	var forbidden *errors.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	updated, err := svc.Update(context.Background(), doc.ID, DocumentUpdate{Title: &title}, owner)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
}

func TestSearchServesFromCacheWhenPresent(t *testing.T) {
	repo := newFakeDocumentRepo()
	cached := &entities.DocumentPage{
		Content:       []*entities.Document{{ID: "cached"}},
		TotalElements: 1,
		Last:          true,
	}
	svc := NewDocumentService(repo, stubPageCache{page: cached}, nil)

	page, err := svc.Search(context.Background(), &entities.DocumentFilter{Query: "x"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "cached", page.Content[0].ID)
}

// stubPageCache hits on every page read.
type stubPageCache struct {
	nopCache
	page *entities.DocumentPage
}

func (s stubPageCache) GetDocumentPage(ctx context.Context, key string) (*entities.DocumentPage, error) {
	return s.page, nil
}
