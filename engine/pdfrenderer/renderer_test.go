package pdfrenderer

import (
	"errors"
	"testing"

	"github.com/drummonds/docstudio/internal/pdftest"
)

func TestNewRendererUnknown(t *testing.T) {
	if _, err := NewRenderer("ghostscript"); err == nil {
		t.Error("Expected error for unknown renderer")
	}
}

func TestPDFiumRenderer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PDFium WebAssembly test in short mode")
	}
	r, err := NewRenderer("pdfium")
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Close()

	doc, err := r.Open(pdftest.Build(pdftest.Mark, ""))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("Expected 2 pages, got %d", doc.PageCount())
	}
	img, err := doc.RenderPage(0, 72)
	if err != nil {
		t.Fatalf("Failed to render page: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Errorf("Expected 200x200 raster at 72 dpi, got %v", b)
	}
	if _, err := doc.RenderPage(2, 72); !errors.Is(err, ErrPageRange) {
		t.Errorf("Expected ErrPageRange, got %v", err)
	}

	if _, err := r.Open([]byte("not a pdf")); err == nil {
		t.Error("Expected error opening garbage")
	}
}
