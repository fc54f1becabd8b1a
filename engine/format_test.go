package engine

import (
	"errors"
	"image/color"
	"testing"

	"github.com/drummonds/docstudio/internal/pdftest"
	"github.com/drummonds/docstudio/viewer"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
		err  error
	}{
		{"pdf", pdftest.Build(pdftest.Mark), FormatPDF, nil},
		{"pdf after junk", append([]byte("junk\n"), pdftest.Build("")...), FormatPDF, nil},
		{"png", pdftest.PNG(4, 4, color.White), FormatPNG, nil},
		{"jpeg", pdftest.JPEG(8, 8), FormatJPEG, nil},
		{"text", []byte("hello"), Format{}, viewer.ErrUnknownFormat},
		{"empty", nil, Format{}, viewer.ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.data)
			if !errors.Is(err, tt.err) {
				t.Fatalf("DetectFormat error = %v, want %v", err, tt.err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCountPages(t *testing.T) {
	count, err := countPages(FormatPDF, pdftest.Build(pdftest.Mark, "", pdftest.Mark))
	if err != nil || count != 3 {
		t.Errorf("Expected 3 pages, got %d (%v)", count, err)
	}
	if count, _ := countPages(FormatPNG, nil); count != 1 {
		t.Errorf("Expected images to have 1 page, got %d", count)
	}
	if _, err := countPages(FormatPDF, []byte("%PDF-1.4 broken")); err == nil {
		t.Error("Expected error for a broken PDF")
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 200},
		{viewer.ErrNoActiveDocument, 409},
		{viewer.ErrNothingStaged, 409},
		{&viewer.EngineError{Op: "render", Err: viewer.ErrPageOutOfRange}, 416},
		{viewer.ErrUnknownFormat, 415},
		{viewer.ErrWorkspaceNotFound, 410},
		{viewer.ErrDocumentNotFound, 404},
		{errors.New("disk on fire"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
