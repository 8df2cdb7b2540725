package dto

// PageSize is the fixed number of items per listing page.
const PageSize = 10

// Page is the envelope of every paginated listing.
type Page[T any] struct {
	Count      int64 `json:"count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	Results    []T   `json:"results"`
}

// NewPage builds a page envelope; results is never serialised as null.
func NewPage[T any](results []T, total int64, page int) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Count:      total,
		Page:       page,
		PageSize:   PageSize,
		TotalPages: TotalPages(total),
		Results:    results,
	}
}

func TotalPages(total int64) int {
	pages := total / PageSize
	if total%PageSize != 0 {
		pages++
	}
	return int(pages)
}

// Map converts each element with fn
func Map[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
