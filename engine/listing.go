package engine

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// countPages reads the page tree without rasterizing anything
func countPages(format Format, data []byte) (count int, err error) {
	if format.IsImage() {
		return 1, nil
	}
	if format.Kind != FormatPDF.Kind {
		return 0, nil
	}
	// the reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			count, err = 0, fmt.Errorf("read pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return reader.NumPage(), nil
}
