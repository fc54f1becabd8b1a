// Package pdftest builds small, well formed PDF and image files for tests and
// startup self checks.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Mark is a page content stream that fills a black square
const Mark = "0 0 0 rg 20 20 160 160 re f"

// Build returns a PDF with one 200x200pt page per content stream. An empty
// stream gives a blank page.
func Build(pages ...string) []byte {
	var buf bytes.Buffer
	offsets := []int{0}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))

	for i, content := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Contents %d 0 R /Resources << >> >>", 4+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xref)
	return buf.Bytes()
}

// PNG returns a w x h PNG filled with c
func PNG(w, h int, c color.Color) []byte {
	return encode(imaging.New(w, h, c), imaging.PNG)
}

// JPEG returns a w x h JPEG with a dark square on white
func JPEG(w, h int) []byte {
	img := imaging.New(w, h, color.White)
	square := imaging.New(w/2, h/2, color.Black)
	return encode(imaging.Paste(img, square, image.Pt(w/4, h/4)), imaging.JPEG)
}

func encode(img image.Image, format imaging.Format) []byte {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
