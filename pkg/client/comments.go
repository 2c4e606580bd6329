package client

import (
	"context"
	"net/url"
	"strconv"
)

type commentRequest struct {
	Content string `json:"content"`
}

// Comments fetches the authoritative comment list for a document.
func (c *Client) Comments(ctx context.Context, documentID string, page, size int) (*CommentPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result CommentPage
	if err := c.get(ctx, "/api/comments/"+documentID, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment posts a comment, then re-fetches the thread so the caller
// sees server-authoritative state. A failed mutation skips the
// re-fetch, leaving prior state intact.
func (c *Client) AddComment(ctx context.Context, documentID, content string) (*CommentPage, error) {
	if err := c.postJSON(ctx, "/api/comments/"+documentID, commentRequest{Content: content}, nil); err != nil {
		c.notifier.Notify(Event{Kind: EventError, Message: "Failed to add comment"})
		return nil, err
	}
	return c.Comments(ctx, documentID, 0, defaultPageSize)
}

func (c *Client) UpdateComment(ctx context.Context, commentID, documentID, content string) (*CommentPage, error) {
	if err := c.putJSON(ctx, "/api/comments/"+commentID, commentRequest{Content: content}, nil); err != nil {
		c.notifier.Notify(Event{Kind: EventError, Message: "Failed to update comment"})
		return nil, err
	}
	return c.Comments(ctx, documentID, 0, defaultPageSize)
}

func (c *Client) DeleteComment(ctx context.Context, commentID, documentID string) (*CommentPage, error) {
	if err := c.delete(ctx, "/api/comments/"+commentID, nil); err != nil {
		c.notifier.Notify(Event{Kind: EventError, Message: "Failed to delete comment"})
		return nil, err
	}
	return c.Comments(ctx, documentID, 0, defaultPageSize)
}

const defaultPageSize = 10
