package domain

import "math"

// Page is an offset window expressed the way clients send it: from (first row) and size.
// Rows are fetched by page index from/size, so callers should keep from a multiple of size.
type Page struct {
	From int
	Size int
}

// FullPage covers every row.
var FullPage = Page{From: 0, Size: math.MaxInt32}

// NewPage validates from and size.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, NewValidationError("from must not be negative")
	}
	if size <= 0 {
		return Page{}, NewValidationError("size must be positive")
	}
	return Page{From: from, Size: size}, nil
}

// Offset returns the first row of the page the window falls into.
func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

// Limit returns the maximum number of rows.
func (p Page) Limit() int {
	return p.Size
}
