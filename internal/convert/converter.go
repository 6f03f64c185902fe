// Package convert abstracts the external document conversion service that
// turns PDF/DOCX files into extracted page text.
package convert

import (
	"context"
	"errors"
)

// ErrUnavailable indicates no converter is configured. Callers fall back
// to mock chunking.
var ErrUnavailable = errors.New("document converter unavailable")

// IsUnavailable reports whether err means no converter is configured, as
// opposed to a conversion failure from a live backend.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Page is one page of extracted text.
type Page struct {
	Text   string
	Number int
}

// Result is the converted form of a document.
type Result struct {
	Pages []Page
}

// Converter turns a document file into a sequence of text pages.
type Converter interface {
	Convert(ctx context.Context, filePath string) (*Result, error)
	Available() bool
}

// Unavailable is the converter used when no conversion backend is
// configured. Every Convert call fails with ErrUnavailable.
type Unavailable struct{}

// Convert always fails.
func (Unavailable) Convert(_ context.Context, _ string) (*Result, error) {
	return nil, ErrUnavailable
}

// Available reports false.
func (Unavailable) Available() bool { return false }
