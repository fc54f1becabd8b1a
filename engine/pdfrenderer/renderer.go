package pdfrenderer

import (
	"fmt"
	"image"
	"strings"
)

// Document is an opened PDF that renders one page at a time
type Document interface {
	// PageCount returns the number of pages
	PageCount() int
	// RenderPage rasterizes the zero based page index at dpi
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// Renderer opens PDF documents for rasterization
type Renderer interface {
	// Open parses the PDF held in data
	Open(data []byte) (Document, error)

	// Close cleans up any resources used by the renderer
	Close() error
}

// NewRenderer creates the named renderer. "pdfium" (the default) is pure Go,
// "fitz" needs CGo and MuPDF.
func NewRenderer(kind string) (Renderer, error) {
	switch strings.ToLower(kind) {
	case "", "pdfium":
		return NewPDFiumRenderer()
	case "fitz", "mupdf":
		return NewFitzRenderer()
	}
	return nil, fmt.Errorf("unknown renderer %q", kind)
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("page %d of %d: %w", index+1, count, ErrPageRange)
	}
	return nil
}
