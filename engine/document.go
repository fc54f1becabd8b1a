package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/drummonds/docstudio/engine/pdfrenderer"
	"github.com/drummonds/docstudio/viewer"
)

// source is an opened document that rasterizes page by page
type source interface {
	PageCount() int
	Raster(index int) (image.Image, error)
	Close() error
}

type pdfSource struct {
	doc pdfrenderer.Document
	dpi int
}

func (s *pdfSource) PageCount() int { return s.doc.PageCount() }

func (s *pdfSource) Raster(index int) (image.Image, error) {
	return s.doc.RenderPage(index, s.dpi)
}

func (s *pdfSource) Close() error { return s.doc.Close() }

// imageSource is a single page document
type imageSource struct {
	img image.Image
}

func (s *imageSource) PageCount() int { return 1 }

func (s *imageSource) Raster(index int) (image.Image, error) {
	if index != 0 {
		return nil, pdfrenderer.ErrPageRange
	}
	return s.img, nil
}

func (s *imageSource) Close() error { return nil }

// openSource decodes data according to format
func (e *Engine) openSource(format Format, data []byte) (source, error) {
	switch {
	case format.Kind == FormatPDF.Kind:
		doc, err := e.Renderer.Open(data)
		if err != nil {
			return nil, fmt.Errorf("open pdf: %w", err)
		}
		return &pdfSource{doc: doc, dpi: e.Config.RenderDPI}, nil
	case format.IsImage():
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", format.Kind, err)
		}
		return &imageSource{img: img}, nil
	}
	return nil, viewer.ErrUnknownFormat
}

// renderPage rasterizes one page and encodes it for the browser. A blank
// raster gives a nil page.
func (e *Engine) renderPage(src source, index int) (*viewer.Page, error) {
	if index < 0 || index >= src.PageCount() {
		return nil, fmt.Errorf("page %d of %d: %w", index, src.PageCount(), viewer.ErrPageOutOfRange)
	}
	img, err := src.Raster(index)
	if err != nil {
		if errors.Is(err, pdfrenderer.ErrPageRange) {
			return nil, fmt.Errorf("page %d: %w", index, viewer.ErrPageOutOfRange)
		}
		return nil, fmt.Errorf("render page %d: %w", index, err)
	}
	if isBlank(img) {
		Logger.Debug("Page is blank", "index", index)
		return nil, nil
	}
	if width := e.Config.RenderWidth; width > 0 && img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode page %d: %w", index, err)
	}
	return &viewer.Page{Index: index, ContentType: FormatPNG.ContentType, Data: buf.Bytes()}, nil
}

// previewSize bounds the first page thumbnail shown in listings
const previewSize = 160

// preview renders a small PNG of the first page. Documents that cannot be
// rendered, or whose first page is blank, have none.
func (e *Engine) preview(name string, format Format, data []byte) []byte {
	src, err := e.openSource(format, data)
	if err != nil {
		Logger.Warn("Unable to open document for preview", "name", name, "error", err)
		return nil
	}
	defer src.Close()
	if src.PageCount() == 0 {
		return nil
	}
	img, err := src.Raster(0)
	if err != nil {
		Logger.Warn("Unable to render preview", "name", name, "error", err)
		return nil
	}
	if isBlank(img) {
		return nil
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, previewSize, previewSize, imaging.Box), imaging.PNG); err != nil {
		Logger.Warn("Unable to encode preview", "name", name, "error", err)
		return nil
	}
	return buf.Bytes()
}

// isBlank reports whether img has no area or a single colour
func isBlank(img image.Image) bool {
	b := img.Bounds()
	if b.Empty() {
		return true
	}
	switch m := img.(type) {
	case *image.RGBA:
		return uniform(m.Pix, m.Stride, b.Dx()*4, b.Dy(), 4)
	case *image.NRGBA:
		return uniform(m.Pix, m.Stride, b.Dx()*4, b.Dy(), 4)
	case *image.Gray:
		return uniform(m.Pix, m.Stride, b.Dx(), b.Dy(), 1)
	}
	first := color.RGBAModel.Convert(img.At(b.Min.X, b.Min.Y))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) != first {
				return false
			}
		}
	}
	return true
}

// uniform compares every pixel of a packed buffer against the first one
func uniform(pix []byte, stride, rowLen, rows, size int) bool {
	first := pix[:size]
	for y := 0; y < rows; y++ {
		row := pix[y*stride : y*stride+rowLen]
		for x := 0; x < rowLen; x += size {
			if !bytes.Equal(row[x:x+size], first) {
				return false
			}
		}
	}
	return true
}
