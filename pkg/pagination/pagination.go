package pagination

import (
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
)

const (
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 10
	// MaxSize caps how many rows any listing query can request.
	MaxSize = 100
)

// Page holds zero-based offset pagination inputs from controllers.
type Page struct {
	From int
	Size int
}

// Default is the page applied when the caller supplies nothing.
func Default() Page {
	return Page{From: 0, Size: DefaultSize}
}

// New validates the raw from/size pair from the query string.
func New(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "from must be non-negative").
			WithDetails(map[string]any{"from": from})
	}
	if size <= 0 {
		return Page{}, pkgerrors.New(pkgerrors.CodeValidation, "size must be positive").
			WithDetails(map[string]any{"size": size})
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Page{From: from, Size: size}, nil
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	if p.From < 0 {
		return 0
	}
	return p.From
}

// Limit returns the SQL limit for the page.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultSize
	}
	if p.Size > MaxSize {
		return MaxSize
	}
	return p.Size
}
