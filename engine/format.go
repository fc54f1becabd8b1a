package engine

import (
	"bytes"
	"fmt"

	"github.com/drummonds/docstudio/viewer"
)

// Format describes a document type the engine can open
type Format struct {
	Kind        string
	ContentType string
	Ext         string
}

var (
	FormatPDF  = Format{Kind: "pdf", ContentType: "application/pdf", Ext: ".pdf"}
	FormatPNG  = Format{Kind: "png", ContentType: "image/png", Ext: ".png"}
	FormatJPEG = Format{Kind: "jpeg", ContentType: "image/jpeg", Ext: ".jpg"}
)

// Formats lists what the engine accepts, in the order offered to users
var Formats = []Format{FormatPDF, FormatPNG, FormatJPEG}

var (
	magicPDF  = []byte("%PDF-")
	magicPNG  = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
)

// DetectFormat sniffs the leading bytes of data
func DetectFormat(data []byte) (Format, error) {
	// some producers put junk before the header, acrobat tolerates 1024 bytes of it
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	switch {
	case bytes.Contains(head, magicPDF):
		return FormatPDF, nil
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG, nil
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPEG, nil
	}
	return Format{}, fmt.Errorf("detect format: %w", viewer.ErrUnknownFormat)
}

// IsImage reports whether the format is a single page raster
func (f Format) IsImage() bool {
	return f.Kind == FormatPNG.Kind || f.Kind == FormatJPEG.Kind
}

func formatKinds() []string {
	kinds := make([]string, 0, len(Formats))
	for _, f := range Formats {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}
