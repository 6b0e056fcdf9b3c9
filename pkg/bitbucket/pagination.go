package bitbucket

import "context"

// Page is one response of a paginated listing endpoint: a bounded batch of
// values plus an indicator of whether further items exist.
type Page[T any] struct {
	Values  []T    `json:"values"`
	Page    int    `json:"page,omitempty"`
	PageLen int    `json:"pagelen,omitempty"`
	Size    int    `json:"size,omitempty"`
	Next    string `json:"next,omitempty"`
}

// HasNext reports whether the server advertised a further page.
func (p *Page[T]) HasNext() bool {
	return p.Next != ""
}

// PageResolver fetches successive pages of a listing. Implementations
// differ only in how the next-page cursor is derived: some endpoints take
// an incremented page-number query parameter, others return an absolute
// "next" URL.
type PageResolver[T any] interface {
	// First fetches the initial page.
	First(ctx context.Context) (*Page[T], error)
	// Next fetches the page after current. It is only called when
	// current.HasNext() is true.
	Next(ctx context.Context, current *Page[T]) (*Page[T], error)
}

// NumberedPageResolver pages through an endpoint by re-requesting it with
// an incremented page number. Fetch is called with 1 for the first page.
type NumberedPageResolver[T any] struct {
	Fetch func(ctx context.Context, page int) (*Page[T], error)

	page int
}

// First implements PageResolver.
func (r *NumberedPageResolver[T]) First(ctx context.Context) (*Page[T], error) {
	r.page = 1

	return r.Fetch(ctx, r.page)
}

// Next implements PageResolver.
func (r *NumberedPageResolver[T]) Next(ctx context.Context, _ *Page[T]) (*Page[T], error) {
	r.page++

	return r.Fetch(ctx, r.page)
}

// LinkedPageResolver pages through an endpoint by following the absolute
// next URL each page carries.
type LinkedPageResolver[T any] struct {
	Fetch  func(ctx context.Context) (*Page[T], error)
	Follow func(ctx context.Context, url string) (*Page[T], error)
}

// First implements PageResolver.
func (r *LinkedPageResolver[T]) First(ctx context.Context) (*Page[T], error) {
	return r.Fetch(ctx)
}

// Next implements PageResolver.
func (r *LinkedPageResolver[T]) Next(ctx context.Context, current *Page[T]) (*Page[T], error) {
	return r.Follow(ctx, current.Next)
}

// CollectAll fetches every page of a listing and returns the concatenation
// of all values in fetch order. It stops exactly at the first page without
// a next indicator and checks cancellation between pages, never mid-page.
func CollectAll[T any](ctx context.Context, resolver PageResolver[T]) ([]T, error) {
	page, err := resolver.First(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(page.Values))
	items = append(items, page.Values...)

	for page.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err = resolver.Next(ctx, page)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Values...)
	}

	return items, nil
}
