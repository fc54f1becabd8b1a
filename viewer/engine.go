// Package viewer holds the document session controller: it maps routes to
// documents opened through an Engine, drives the page-by-page render pass and
// keeps pagination and progress consistent for a ViewSink.
package viewer

import (
	"context"
	"log/slog"
)

// Logger is global since we will need it everywhere
var Logger = slog.New(slog.DiscardHandler)

// Page is a rendered page artifact
type Page struct {
	Index       int
	ContentType string
	Data        []byte
}

// Entry is one item of a listing shown for routes without an active document
type Entry struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Route     string `json:"route"`
	PageCount int    `json:"pageCount"`
	Openable  bool   `json:"openable"`
	// Preview is a small PNG of the first page, when one could be made
	Preview []byte `json:"preview,omitempty"`
}

// OpenResult describes the outcome of resolving a route
type OpenResult struct {
	Active    bool    `json:"active"`
	Document  string  `json:"document,omitempty"`
	PageCount int     `json:"pageCount"`
	Name      string  `json:"name"`
	Title     string  `json:"title"`
	Listing   []Entry `json:"listing"`
	// Formats is true when the document can be exported in more than one format
	Formats bool `json:"formats"`
}

// File is a user selected file handed over to the engine for staging
type File struct {
	Name string
	Data []byte
}

// Engine is the external document engine. Every method may block, so the
// controller only calls them from Scheduler.Async.
type Engine interface {
	Init(ctx context.Context) error
	Open(ctx context.Context, route string) (OpenResult, error)
	OnDocumentChanged(ctx context.Context) (OpenResult, error)
	Stage(ctx context.Context, files []File) error
	// Render returns a nil page (and nil error) when the page is empty.
	// document is the OpenResult.Document the page belongs to; once another
	// open replaced it the engine answers ErrStaleDocument.
	Render(ctx context.Context, document string, index int) (*Page, error)
	AddToCollection(ctx context.Context) (int, error)
	ExportToPdf(ctx context.Context, document string) ([]byte, error)
}
