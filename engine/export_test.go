package engine

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/drummonds/docstudio/internal/pdftest"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

func TestExportPDF(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   []byte
		pages  int
	}{
		{"pdf", FormatPDF, pdftest.Build(pdftest.Mark, "", pdftest.Mark), 3},
		{"png", FormatPNG, pdftest.PNG(30, 20, color.Black), 1},
		{"jpeg", FormatJPEG, pdftest.JPEG(30, 20), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := exportPDF(tt.format, "input"+tt.format.Ext, tt.data)
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Fatalf("Export is not a PDF: %q", out[:min(len(out), 16)])
			}
			count, err := api.PageCount(bytes.NewReader(out), pdfConfig())
			if err != nil || count != tt.pages {
				t.Errorf("Expected %d pages, got %d (%v)", tt.pages, count, err)
			}
		})
	}

	if _, err := exportPDF(Format{Kind: "doc"}, "x.doc", nil); err == nil {
		t.Error("Expected error for an unsupported format")
	}
}
