package services

import (
	"context"
	"io"
)

// AIResult is the enrichment payload returned by the summarization
// microservice.
type AIResult struct {
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Language string   `json:"language"`
	Message  string   `json:"message"`
}

// AIClient talks to the external AI service. Implementations must be
// safe to call when the service is down; callers treat any error as
// "enrichment unavailable" and continue with manual metadata.
type AIClient interface {
	Available(ctx context.Context) bool
	ProcessText(ctx context.Context, content, title string) (*AIResult, error)
	ProcessFile(ctx context.Context, fileName string, file io.Reader) (*AIResult, error)
}
