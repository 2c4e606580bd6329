package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// SearchFilter describes one catalog query. ScopeToOwnUploads selects
// the owner-scoped listing endpoint instead of adding a predicate to
// the general search.
type SearchFilter struct {
	Query             string
	Tags              []string
	Visibility        string
	ScopeToOwnUploads bool
}

func (f SearchFilter) equal(other SearchFilter) bool {
	return f.Query == other.Query &&
		f.Visibility == other.Visibility &&
		f.ScopeToOwnUploads == other.ScopeToOwnUploads &&
		slices.Equal(f.Tags, other.Tags)
}

// NormalizeTags splits comma-separated tokens, trims whitespace and
// drops empties, preserving input order.
func NormalizeTags(raw []string) []string {
	var tags []string
	for _, value := range raw {
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// SearchDocuments runs either the general search or the owner-scoped
// listing, depending on the filter's scope flag.
func (c *Client) SearchDocuments(ctx context.Context, filter SearchFilter, page, size int) (*DocumentPage, error) {
	if filter.ScopeToOwnUploads {
		return c.MyDocuments(ctx, page, size)
	}

	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	for _, tag := range NormalizeTags(filter.Tags) {
		query.Add("tags", tag)
	}
	if filter.Visibility != "" {
		query.Set("visibility", filter.Visibility)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result DocumentPage
	if err := c.get(ctx, "/api/documents/search", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) MyDocuments(ctx context.Context, page, size int) (*DocumentPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result DocumentPage
	if err := c.get(ctx, "/api/documents/my-documents", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) RecentDocuments(ctx context.Context, page, size int) (*DocumentPage, error) {
	return c.listDocuments(ctx, "/api/documents/recent", page, size)
}

func (c *Client) PopularDocuments(ctx context.Context, page, size int) (*DocumentPage, error) {
	return c.listDocuments(ctx, "/api/documents/popular", page, size)
}

func (c *Client) listDocuments(ctx context.Context, path string, page, size int) (*DocumentPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result DocumentPage
	if err := c.get(ctx, path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.get(ctx, "/api/documents/"+id, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upload describes a multipart document upload. UseAI asks the backend
// to fill a missing description and tags via the AI service.
type Upload struct {
	Title       string
	Description string
	Tags        []string
	Visibility  string
	FileName    string
	File        io.Reader
	UseAI       bool
}

func (c *Client) UploadDocument(ctx context.Context, upload Upload) (*Document, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"title":       upload.Title,
		"description": upload.Description,
		"visibility":  upload.Visibility,
		"useAI":       strconv.FormatBool(upload.UseAI),
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	for _, tag := range NormalizeTags(upload.Tags) {
		if err := writer.WriteField("tags", tag); err != nil {
			return nil, err
		}
	}

	part, err := writer.CreateFormFile("file", upload.FileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, upload.File); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var doc Document
	if err := c.do(ctx, http.MethodPost, "/api/documents/upload", nil,
		strings.NewReader(body.String()), writer.FormDataContentType(), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type DocumentUpdate struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Visibility  *string  `json:"visibility,omitempty"`
}

func (c *Client) UpdateDocument(ctx context.Context, id string, update DocumentUpdate) (*Document, error) {
	var doc Document
	if err := c.putJSON(ctx, "/api/documents/"+id, update, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/documents/"+id, nil)
}

// DownloadDocument streams the document body. The caller owns closing
// the returned reader.
func (c *Client) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/documents/%s/download", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			c.expireSession()
		}
		return nil, &APIError{Status: resp.StatusCode, Message: "download failed"}
	}
	return resp.Body, nil
}

func (c *Client) HomeDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	if err := c.get(ctx, "/api/home/dashboard", nil, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *Client) AIServiceStatus(ctx context.Context) (*AIStatus, error) {
	var status AIStatus
	if err := c.get(ctx, "/api/documents/ai/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
