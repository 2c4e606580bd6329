package app_test

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"knowledgehub-server/internal/app"
	"knowledgehub-server/internal/auth"
	"knowledgehub-server/internal/config"
	"knowledgehub-server/internal/domain/entities"
	"knowledgehub-server/internal/domain/services"
	"knowledgehub-server/pkg/client"
	"knowledgehub-server/pkg/errors"
	"knowledgehub-server/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.InitLogger("dev"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newTestServer assembles the full router over in-memory storage.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	userRepo := &memUserRepo{users: make(map[string]*entities.User)}
	docRepo := &memDocRepo{docs: make(map[string]*entities.Document)}
	userRepo.docs = docRepo
	commentRepo := &memCommentRepo{comments: make(map[string]*entities.Comment)}
	ratingRepo := &memRatingRepo{ratings: make(map[string]*entities.Rating)}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	cache := memCache{}

	svcs := app.Services{
		Auth:     services.NewAuthService(userRepo, tokens),
		Users:    services.NewUserService(userRepo),
		Docs:     services.NewDocumentService(docRepo, cache, nil),
		Comments: services.NewCommentService(commentRepo),
		Ratings:  services.NewRatingService(ratingRepo, docRepo, cache),
	}

	router := app.NewRouter(svcs, config.StorageConfig{Path: t.TempDir()})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	repoRegistryMu.Lock()
	repoRegistry[srv.URL] = userRepo
	repoRegistryMu.Unlock()

	return srv
}

func registerClient(t *testing.T, srv *httptest.Server, username string) *client.Client {
	t.Helper()

	c := client.New(srv.URL)
	_, err := c.Register(context.Background(), client.Registration{
		Username: username,
		Password: "secret",
		FullName: strings.ToUpper(username[:1]) + username[1:],
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return c
}

func uploadDocument(t *testing.T, c *client.Client, title, visibility string) *client.Document {
	t.Helper()

	doc, err := c.UploadDocument(context.Background(), client.Upload{
		Title:      title,
		Visibility: visibility,
		FileName:   "notes.pdf",
		File:       strings.NewReader("file body"),
	})
	require.NoError(t, err)
	return doc
}

func TestScopedSearchIsolatesOwners(t *testing.T) {
	srv := newTestServer(t)

	alice := registerClient(t, srv, "alice")
	doc := uploadDocument(t, alice, "Alice private notes", "PRIVATE")

	page, err := alice.SearchDocuments(context.Background(), client.SearchFilter{ScopeToOwnUploads: true}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, doc.ID, page.Content[0].ID)

	bob := registerClient(t, srv, "bob")

	ownPage, err := bob.SearchDocuments(context.Background(), client.SearchFilter{ScopeToOwnUploads: true}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, ownPage.Content, "bob's scoped search must not include alice's uploads")

	general, err := bob.SearchDocuments(context.Background(), client.SearchFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, general.Content, "alice's PRIVATE document is invisible to bob")
}

func TestVisibilityTiersInGeneralSearch(t *testing.T) {
	srv := newTestServer(t)

	alice := registerClient(t, srv, "alice")
	uploadDocument(t, alice, "Public handbook", "PUBLIC")
	uploadDocument(t, alice, "Team notes", "GROUP")
	uploadDocument(t, alice, "Diary", "PRIVATE")

	bob := registerClient(t, srv, "bob")
	page, err := bob.SearchDocuments(context.Background(), client.SearchFilter{}, 0, 10)
	require.NoError(t, err)
	titles := titlesOf(page.Content)
	assert.ElementsMatch(t, []string{"Public handbook", "Team notes"}, titles)

	anonymous := client.New(srv.URL)
	page, err = anonymous.SearchDocuments(context.Background(), client.SearchFilter{}, 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Public handbook"}, titlesOf(page.Content))

	page, err = alice.SearchDocuments(context.Background(), client.SearchFilter{}, 0, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Public handbook", "Team notes", "Diary"}, titlesOf(page.Content))
}

func titlesOf(docs []client.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Title)
	}
	return out
}

func TestDashboardRequiresAuthentication(t *testing.T) {
	srv := newTestServer(t)

	alice := registerClient(t, srv, "alice")
	uploadDocument(t, alice, "Mine", "PRIVATE")

	anonymous := client.New(srv.URL)
	_, err := anonymous.HomeDashboard(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	dash, err := alice.HomeDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dash.UserDocuments, 1)
	assert.Equal(t, "Mine", dash.UserDocuments[0].Title)
}

func TestRatingUpsertEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	alice := registerClient(t, srv, "alice")
	doc := uploadDocument(t, alice, "Rate me", "PUBLIC")

	bob := registerClient(t, srv, "bob")

	ratings, err := bob.RateDocument(context.Background(), doc.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3.0, ratings.AverageRating)
	assert.Equal(t, 1, ratings.TotalRatings)

	// Re-rating replaces, never duplicates.
	ratings, err = bob.RateDocument(context.Background(), doc.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5.0, ratings.AverageRating)
	assert.Equal(t, 1, ratings.TotalRatings)

	mine, err := bob.MyRating(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, mine.HasRating)
	assert.Equal(t, 5, mine.Score)

	none, err := alice.MyRating(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.False(t, none.HasRating)
}

func TestCommentThreadRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	alice := registerClient(t, srv, "alice")
	doc := uploadDocument(t, alice, "Discussion", "PUBLIC")

	bob := registerClient(t, srv, "bob")
	page, err := bob.AddComment(context.Background(), doc.ID, "great doc")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "great doc", page.Content[0].Content)
	assert.Equal(t, "Bob", page.Content[0].AuthorName)

	// Alice cannot edit bob's comment.
	_, err = alice.UpdateComment(context.Background(), page.Content[0].ID, doc.ID, "hijacked")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)

	page, err = bob.UpdateComment(context.Background(), page.Content[0].ID, doc.ID, "edited")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "edited", page.Content[0].Content)
}

func TestExpiredTokenRunsSingleLogoutTransition(t *testing.T) {
	srv := newTestServer(t)

	store := client.NewMemorySessionStore()
	require.NoError(t, store.Save(client.Session{
		User:            &client.User{ID: "ghost", Username: "ghost"},
		Token:           "not-a-real-token",
		IsAuthenticated: true,
	}))

	notifier := &countingNotifier{}
	c := client.New(srv.URL, client.WithSessionStore(store), client.WithNotifier(notifier))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.MyDocuments(context.Background(), 0, 10)
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, notifier.expired(), "one logout transition despite concurrent 401s")
	assert.False(t, c.Session().IsAuthenticated)
}

type countingNotifier struct {
	mu     sync.Mutex
	events []client.Event
}

func (n *countingNotifier) Notify(e client.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *countingNotifier) expired() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.Kind == client.EventSessionExpired {
			c++
		}
	}
	return c
}

func TestAdminUserLifecycle(t *testing.T) {
	srv := newTestServer(t)

	admin := registerClient(t, srv, "root")
	promoteToAdmin(t, srv, "root")
	// Refresh the session so the token's user carries the new role.
	_, err := admin.Login(context.Background(), client.Credentials{Username: "root", Password: "secret"})
	require.NoError(t, err)

	registerClient(t, srv, "alice")

	users, err := admin.ListUsers(context.Background(), "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users.TotalElements)

	found, err := admin.ListUsers(context.Background(), "ali", 0, 10)
	require.NoError(t, err)
	require.Len(t, found.Content, 1)
	alice := found.Content[0]

	blocked, err := admin.SetUserBlocked(context.Background(), alice.ID, true)
	require.NoError(t, err)
	assert.False(t, blocked.Enabled)

	// A blocked account cannot log in.
	c := client.New(srv.URL)
	_, err = c.Login(context.Background(), client.Credentials{Username: "alice", Password: "secret"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)

	unblocked, err := admin.SetUserBlocked(context.Background(), alice.ID, false)
	require.NoError(t, err)
	assert.True(t, unblocked.Enabled)

	_, err = c.Login(context.Background(), client.Credentials{Username: "alice", Password: "secret"})
	assert.NoError(t, err)
}

func TestAdminEndpointsRejectRegularUsers(t *testing.T) {
	srv := newTestServer(t)

	alice := registerClient(t, srv, "alice")
	_, err := alice.ListUsers(context.Background(), "", 0, 10)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.Status)
	assert.True(t, alice.Session().IsAuthenticated, "403 must not end the session")
}

// promoteToAdmin flips the stored role directly; there is no public
// endpoint for creating the first admin.
func promoteToAdmin(t *testing.T, srv *httptest.Server, username string) {
	t.Helper()
	repo := serverUserRepo(srv)
	user, err := repo.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	user.Roles = []string{entities.RoleAdmin, "USER"}
	require.NoError(t, repo.Update(context.Background(), user))
}

var (
	repoRegistry   = map[string]*memUserRepo{}
	repoRegistryMu sync.Mutex
)

func serverUserRepo(srv *httptest.Server) *memUserRepo {
	repoRegistryMu.Lock()
	defer repoRegistryMu.Unlock()
	return repoRegistry[srv.URL]
}

// memCache always misses; every read goes to the repositories.
type memCache struct{}

func (memCache) GetDocument(ctx context.Context, docID string) (*entities.Document, error) {
	return nil, errors.NewNotFoundError("cache miss")
}
func (memCache) SetDocument(ctx context.Context, doc *entities.Document) error { return nil }
func (memCache) GetDocumentPage(ctx context.Context, key string) (*entities.DocumentPage, error) {
	return nil, errors.NewNotFoundError("cache miss")
}
func (memCache) SetDocumentPage(ctx context.Context, key string, page *entities.DocumentPage) error {
	return nil
}
func (memCache) InvalidateDocument(ctx context.Context, docID string) error     { return nil }
func (memCache) InvalidatePrefix(ctx context.Context, prefix string) error      { return nil }
func (memCache) SearchCacheKey(filter *entities.DocumentFilter) string          { return "" }
