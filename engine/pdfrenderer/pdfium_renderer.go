package pdfrenderer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// PDFiumRenderer implements PDF rendering using go-pdfium with WebAssembly (pure Go, no CGo)
type PDFiumRenderer struct {
	// one instance serves every document, calls into it are serialized
	mu       sync.Mutex
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPDFiumRenderer creates a new PDFium-based PDF renderer using WebAssembly
func NewPDFiumRenderer() (*PDFiumRenderer, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1, // Minimum idle workers
		MaxIdle:  1, // Maximum idle workers
		MaxTotal: 1, // Total worker limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &PDFiumRenderer{
		pool:     pool,
		instance: instance,
	}, nil
}

// Open parses a PDF held in memory
func (r *PDFiumRenderer) Open(data []byte) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.instance == nil {
		return nil, fmt.Errorf("renderer closed")
	}

	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}

	pageCountResp, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		return nil, fmt.Errorf("unable to get page count: %w", err)
	}

	return &pdfiumDocument{renderer: r, doc: doc.Document, pages: pageCountResp.PageCount}, nil
}

// Close cleans up resources used by the PDFium renderer
func (r *PDFiumRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.instance != nil {
		r.instance.Close()
		r.instance = nil
	}
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
	return nil
}

type pdfiumDocument struct {
	renderer *PDFiumRenderer
	doc      references.FPDF_DOCUMENT
	pages    int
	closed   bool
}

func (d *pdfiumDocument) PageCount() int {
	return d.pages
}

func (d *pdfiumDocument) RenderPage(index int, dpi int) (image.Image, error) {
	if err := checkIndex(index, d.pages); err != nil {
		return nil, err
	}
	r := d.renderer
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.closed || r.instance == nil {
		return nil, fmt.Errorf("document closed")
	}

	pageRender, err := r.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI: dpi,
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: d.doc,
				Index:    index,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", index+1, err)
	}
	// the raster lives in WebAssembly memory until Cleanup
	img := imaging.Clone(pageRender.Result.Image)
	pageRender.Cleanup()
	return img, nil
}

func (d *pdfiumDocument) Close() error {
	r := d.renderer
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.closed || r.instance == nil {
		return nil
	}
	d.closed = true
	_, err := r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: d.doc})
	return err
}
