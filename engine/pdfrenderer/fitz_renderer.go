package pdfrenderer

import (
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer implements PDF rendering using go-fitz (requires CGo and MuPDF)
type FitzRenderer struct {
}

// NewFitzRenderer creates a new Fitz-based PDF renderer
func NewFitzRenderer() (*FitzRenderer, error) {
	return &FitzRenderer{}, nil
}

// Open parses a PDF held in memory
func (r *FitzRenderer) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}
	return &fitzDocument{doc: doc, pages: doc.NumPage()}, nil
}

// Close is a no-op, every document owns its MuPDF context
func (r *FitzRenderer) Close() error {
	return nil
}

// fitzDocument serializes access since a MuPDF context is not safe for
// concurrent use
type fitzDocument struct {
	mu    sync.Mutex
	doc   *fitz.Document
	pages int
}

func (d *fitzDocument) PageCount() int {
	return d.pages
}

func (d *fitzDocument) RenderPage(index int, dpi int) (image.Image, error) {
	if err := checkIndex(index, d.pages); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil, fmt.Errorf("document closed")
	}
	img, err := d.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", index+1, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
