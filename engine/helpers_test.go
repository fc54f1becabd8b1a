package engine

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/engine/pdfrenderer"
)

// fakeRenderer reads the page count from the PDF and draws a square on every
// page that is not listed as blank
type fakeRenderer struct {
	blank map[int]bool
	fail  map[int]error
}

func (r *fakeRenderer) Open(data []byte) (pdfrenderer.Document, error) {
	count, err := countPages(FormatPDF, data)
	if err != nil {
		return nil, err
	}
	return &fakeDocument{renderer: r, pages: count}, nil
}

func (r *fakeRenderer) Close() error { return nil }

type fakeDocument struct {
	renderer *fakeRenderer
	pages    int
}

func (d *fakeDocument) PageCount() int { return d.pages }

func (d *fakeDocument) RenderPage(index, dpi int) (image.Image, error) {
	if index < 0 || index >= d.pages {
		return nil, pdfrenderer.ErrPageRange
	}
	if err := d.renderer.fail[index]; err != nil {
		return nil, err
	}
	img := imaging.New(400, 400, color.White)
	if d.renderer.blank[index] {
		return img, nil
	}
	return imaging.Paste(img, imaging.New(200, 200, color.Black), image.Pt(100, 100)), nil
}

func (d *fakeDocument) Close() error { return nil }

func setupLoggers() {
	if Logger == nil {
		Logger = slog.New(slog.DiscardHandler)
	}
	if database.Logger == nil {
		database.Logger = slog.New(slog.DiscardHandler)
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeRenderer) {
	t.Helper()
	setupLoggers()
	db, err := database.NewRepository(config.ServerConfig{DatabaseType: "sqlite", DatabaseDbname: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to set up sqlite repository: %v", err)
	}
	storage, err := OpenStorage(context.Background(), "mem://")
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	renderer := &fakeRenderer{blank: map[int]bool{}, fail: map[int]error{}}
	serverConfig := config.ServerConfig{
		StorageURL:   "mem://",
		Renderer:     "fake",
		RenderDPI:    72,
		RenderWidth:  100,
		WorkspaceTTL: 60,
	}
	e := New(serverConfig, db, storage, renderer)
	t.Cleanup(func() {
		e.Close()
		db.Close()
	})
	return e, renderer
}

func newTestWorkspace(t *testing.T) (*Workspace, *fakeRenderer) {
	t.Helper()
	e, renderer := newTestEngine(t)
	w, err := e.InitWorkspace("")
	if err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}
	return w, renderer
}
