package engine

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/drummonds/docstudio/internal/pdftest"
	"github.com/drummonds/docstudio/viewer"
)

func TestIsBlank(t *testing.T) {
	white := imaging.New(50, 50, color.White)
	marked := imaging.Paste(white, imaging.New(1, 1, color.Black), image.Pt(49, 49))
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	paletted := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.White, color.Black})
	paletted.SetColorIndex(3, 3, 1)

	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"uniform nrgba", white, true},
		{"one dark pixel", marked, false},
		{"zero area", image.NewRGBA(image.Rect(0, 0, 0, 10)), true},
		{"uniform gray", gray, true},
		{"sub image", marked.SubImage(image.Rect(0, 0, 40, 40)), true},
		{"paletted with mark", paletted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBlank(tt.img); got != tt.want {
				t.Errorf("isBlank = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderPage(t *testing.T) {
	e, renderer := newTestEngine(t)
	renderer.blank[1] = true

	src, err := e.openSource(FormatPDF, pdftest.Build(pdftest.Mark, ""))
	if err != nil {
		t.Fatalf("Failed to open source: %v", err)
	}
	defer src.Close()

	page, err := e.renderPage(src, 0)
	if err != nil || page == nil {
		t.Fatalf("Expected a page, got %v (%v)", page, err)
	}
	img, err := imaging.Decode(bytes.NewReader(page.Data))
	if err != nil {
		t.Fatalf("Rendered page is not an image: %v", err)
	}
	if img.Bounds().Dx() != e.Config.RenderWidth {
		t.Errorf("Expected width %d, got %d", e.Config.RenderWidth, img.Bounds().Dx())
	}
	if page.ContentType != "image/png" || page.Index != 0 {
		t.Errorf("Unexpected page %+v", page)
	}

	if page, err := e.renderPage(src, 1); err != nil || page != nil {
		t.Errorf("Expected blank page to be nil, got %v (%v)", page, err)
	}
	if _, err := e.renderPage(src, 2); !errors.Is(err, viewer.ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange, got %v", err)
	}
}

func TestRenderImage(t *testing.T) {
	e, _ := newTestEngine(t)

	src, err := e.openSource(FormatJPEG, pdftest.JPEG(60, 40))
	if err != nil {
		t.Fatalf("Failed to open jpeg: %v", err)
	}
	if src.PageCount() != 1 {
		t.Errorf("Expected 1 page, got %d", src.PageCount())
	}
	page, err := e.renderPage(src, 0)
	if err != nil || page == nil {
		t.Fatalf("Expected a page, got %v (%v)", page, err)
	}
	// narrower than the render width, so not scaled up
	img, _ := imaging.Decode(bytes.NewReader(page.Data))
	if img.Bounds().Dx() != 60 {
		t.Errorf("Expected width 60, got %d", img.Bounds().Dx())
	}

	blank, _ := e.openSource(FormatPNG, pdftest.PNG(20, 20, color.White))
	if page, err := e.renderPage(blank, 0); err != nil || page != nil {
		t.Errorf("Expected blank image to be nil, got %v (%v)", page, err)
	}

	if _, err := e.openSource(FormatPNG, []byte("\x89PNG\r\n\x1a\nbroken")); err == nil {
		t.Error("Expected decode error")
	}
	if _, err := e.openSource(Format{Kind: "doc"}, nil); !errors.Is(err, viewer.ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}
