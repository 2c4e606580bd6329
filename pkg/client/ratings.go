package client

import "context"

type rateRequest struct {
	Score int `json:"score"`
}

// RateDocument submits the caller's score for a document. The backend
// upserts: re-rating replaces the previous score. On success the
// recomputed document aggregate is re-fetched so the caller settles on
// server-authoritative numbers.
func (c *Client) RateDocument(ctx context.Context, documentID string, score int) (*DocumentRatings, error) {
	var result RateResult
	if err := c.postJSON(ctx, "/api/ratings/"+documentID, rateRequest{Score: score}, &result); err != nil {
		c.notifier.Notify(Event{Kind: EventError, Message: "Failed to submit rating"})
		return nil, err
	}
	return c.DocumentRatings(ctx, documentID)
}

// MyRating returns the caller's rating for a document, with HasRating
// false when none exists.
func (c *Client) MyRating(ctx context.Context, documentID string) (*UserRating, error) {
	var result UserRating
	if err := c.get(ctx, "/api/ratings/"+documentID+"/user", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DocumentRatings(ctx context.Context, documentID string) (*DocumentRatings, error) {
	var result DocumentRatings
	if err := c.get(ctx, "/api/ratings/"+documentID+"/all", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteRating removes the caller's rating and re-fetches the document
// aggregate. A failed delete skips the re-fetch.
func (c *Client) DeleteRating(ctx context.Context, ratingID, documentID string) (*DocumentRatings, error) {
	if err := c.delete(ctx, "/api/ratings/"+ratingID, nil); err != nil {
		c.notifier.Notify(Event{Kind: EventError, Message: "Failed to delete rating"})
		return nil, err
	}
	return c.DocumentRatings(ctx, documentID)
}
