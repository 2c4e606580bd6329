package client

import "context"

// DocumentPager reconciles paginated search results into a stable view
// list. Search replaces the list; LoadMore appends the next page. A
// filter change always resets to page zero with replace semantics, so
// stale results never survive under new filters.
type DocumentPager struct {
	client *Client
	size   int

	filter SearchFilter
	page   int
	last   bool
	total  int64
	items  []Document
	loaded bool
}

func NewDocumentPager(c *Client, size int) *DocumentPager {
	return &DocumentPager{client: c, size: size}
}

// SetFilter installs a new filter set. A change discards the current
// results and resets pagination; setting an identical filter is a
// no-op.
func (p *DocumentPager) SetFilter(filter SearchFilter) {
	if p.filter.equal(filter) {
		return
	}
	p.filter = filter
	p.page = 0
	p.last = false
	p.items = nil
	p.loaded = false
}

// Search fetches the current page and replaces the visible list.
func (p *DocumentPager) Search(ctx context.Context) error {
	result, err := p.client.SearchDocuments(ctx, p.filter, p.page, p.size)
	if err != nil {
		return err
	}

	p.items = result.Content
	p.last = result.Last
	p.total = result.TotalElements
	p.loaded = true
	return nil
}

// LoadMore fetches the next page and appends its content, preserving
// prior order. After the server reports the last page it is a no-op.
func (p *DocumentPager) LoadMore(ctx context.Context) error {
	if !p.loaded {
		return p.Search(ctx)
	}
	if p.last {
		return nil
	}

	result, err := p.client.SearchDocuments(ctx, p.filter, p.page+1, p.size)
	if err != nil {
		return err
	}

	p.page++
	p.items = append(p.items, result.Content...)
	p.last = result.Last
	p.total = result.TotalElements
	return nil
}

func (p *DocumentPager) Documents() []Document {
	return p.items
}

func (p *DocumentPager) HasMore() bool {
	return p.loaded && !p.last
}

func (p *DocumentPager) Page() int {
	return p.page
}

func (p *DocumentPager) TotalElements() int64 {
	return p.total
}

// EmptyState distinguishes the three zero-result situations the UI
// words differently.
type EmptyState int

const (
	EmptyStateNone EmptyState = iota
	// No documents exist yet and no filters are active.
	EmptyStateNoDocuments
	// Active filters matched nothing.
	EmptyStateNoMatches
	// The owner-scoped listing is empty.
	EmptyStateNoOwnUploads
)

func (p *DocumentPager) EmptyState() EmptyState {
	if !p.loaded || len(p.items) > 0 {
		return EmptyStateNone
	}
	if p.filter.ScopeToOwnUploads {
		return EmptyStateNoOwnUploads
	}
	if p.filter.Query != "" || len(p.filter.Tags) > 0 || p.filter.Visibility != "" {
		return EmptyStateNoMatches
	}
	return EmptyStateNoDocuments
}
