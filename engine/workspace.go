package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/viewer"
	"github.com/oklog/ulid/v2"
)

var _ viewer.Engine = (*Workspace)(nil)

// newestListed is how many collection documents the home listing shows
const newestListed = 10

// stagedFile is one upload of the current selection
type stagedFile struct {
	name    string
	key     string
	format  Format
	known   bool
	size    int
	pages   int
	preview []byte
}

func (f stagedFile) entry() viewer.Entry {
	kind := "unknown"
	if f.known {
		kind = f.format.Kind
	}
	return viewer.Entry{
		Name:      f.name,
		Kind:      kind,
		Route:     viewer.StagedFileRoute(f.name),
		PageCount: f.pages,
		Openable:  f.known,
		Preview:   f.preview,
	}
}

// activeDocument is the document opened by the last route
type activeDocument struct {
	token  string
	name   string
	format Format
	data   []byte
	src    source
}

// Workspace is the engine state of one browser: the staged selection and
// the active document. It implements viewer.Engine in process.
type Workspace struct {
	ID     string
	engine *Engine

	mu       sync.Mutex
	staged   []stagedFile
	active   *activeDocument
	route    string
	lastUsed time.Time
}

func newWorkspace(id string, engine *Engine) *Workspace {
	return &Workspace{ID: id, engine: engine, lastUsed: engine.now()}
}

// touch must be called with mu held
func (w *Workspace) touch() {
	w.lastUsed = w.engine.now()
}

// idleSince returns when the workspace was last used
func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

// Init marks the workspace as in use
func (w *Workspace) Init(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	return nil
}

// Stage replaces the staged selection with files. The previous selection
// stays in place until every file of the new one is stored.
func (w *Workspace) Stage(ctx context.Context, files []viewer.File) error {
	if len(files) == 0 {
		return viewer.ErrNothingStaged
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()

	batch := ulid.Make().String()
	names := stagedNames(files)
	staged := make([]stagedFile, 0, len(files))
	for i, file := range files {
		name := names[i]
		sf := stagedFile{name: name, key: stagedKey(w.ID, batch, name), size: len(file.Data)}
		contentType := "application/octet-stream"
		if format, err := DetectFormat(file.Data); err == nil {
			sf.format, sf.known = format, true
			contentType = format.ContentType
			pages, err := countPages(format, file.Data)
			if err != nil {
				Logger.Warn("Unable to count pages of staged file", "name", name, "error", err)
			}
			sf.pages = pages
			sf.preview = w.engine.preview(name, format, file.Data)
		}
		if err := w.engine.Storage.Put(ctx, sf.key, file.Data, contentType); err != nil {
			w.dropStaged(ctx, staged)
			return fmt.Errorf("stage %s: %w", name, err)
		}
		staged = append(staged, sf)
	}

	previous := w.staged
	w.staged = staged
	w.dropStaged(ctx, previous)
	Logger.Info("Staged files", "workspace", w.ID, "count", len(w.staged))
	return nil
}

// dropStaged removes the stored uploads of files
func (w *Workspace) dropStaged(ctx context.Context, files []stagedFile) {
	for _, file := range files {
		if err := w.engine.Storage.Delete(ctx, file.key); err != nil {
			Logger.Warn("Unable to delete staged file", "key", file.key, "error", err)
		}
	}
}

// stagedNames gives every file a distinct base name. A repeated name gets a
// counter prefix that no other file of the selection uses.
func stagedNames(files []viewer.File) []string {
	names := make([]string, len(files))
	uploaded := map[string]bool{}
	for i, file := range files {
		names[i] = cleanName(file.Name)
		if names[i] == "" {
			names[i] = "file-" + strconv.Itoa(i+1)
		}
		uploaded[names[i]] = true
	}

	taken := map[string]bool{}
	for i, name := range names {
		if taken[name] {
			for n := 2; ; n++ {
				candidate := fmt.Sprintf("%d-%s", n, name)
				if !taken[candidate] && !uploaded[candidate] {
					name = candidate
					break
				}
			}
		}
		taken[name] = true
		names[i] = name
	}
	return names
}

// Open resolves route to an active document or a listing
func (w *Workspace) Open(ctx context.Context, route string) (viewer.OpenResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open(ctx, route)
}

// OnDocumentChanged reopens the current route after the staged selection changed
func (w *Workspace) OnDocumentChanged(ctx context.Context) (viewer.OpenResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	route := w.route
	if route == "" {
		route = viewer.StagedRoute
	}
	return w.open(ctx, route)
}

func (w *Workspace) open(ctx context.Context, route string) (viewer.OpenResult, error) {
	w.touch()
	w.closeActive()
	w.route = route
	Logger.Debug("Opening route", "workspace", w.ID, "route", route)

	if viewer.IsHome(route) {
		return w.homeListing()
	}
	if viewer.IsStaged(route) {
		return w.openStaged(ctx)
	}
	if route == viewer.CollectionRoute {
		return w.collectionListing()
	}
	if name, ok := viewer.ParseStagedFile(route); ok {
		for _, file := range w.staged {
			if file.name == name {
				return w.openStagedFile(ctx, file)
			}
		}
		return viewer.OpenResult{}, fmt.Errorf("staged file %q: %w", name, viewer.ErrDocumentNotFound)
	}
	if id, ok := viewer.ParseDocument(route); ok {
		return w.openCollectionDocument(ctx, id)
	}
	return viewer.OpenResult{Title: "Not found"}, nil
}

func (w *Workspace) openStaged(ctx context.Context) (viewer.OpenResult, error) {
	var openable []stagedFile
	for _, file := range w.staged {
		if file.known {
			openable = append(openable, file)
		}
	}
	if len(openable) == 1 {
		return w.openStagedFile(ctx, openable[0])
	}
	return viewer.OpenResult{Title: "Staged files", Listing: w.stagedEntries()}, nil
}

func (w *Workspace) openStagedFile(ctx context.Context, file stagedFile) (viewer.OpenResult, error) {
	if !file.known {
		return viewer.OpenResult{}, fmt.Errorf("open %s: %w", file.name, viewer.ErrUnknownFormat)
	}
	data, err := w.engine.Storage.Get(ctx, file.key)
	if err != nil {
		return viewer.OpenResult{}, err
	}
	return w.activate(file.name, file.format, data)
}

func (w *Workspace) openCollectionDocument(ctx context.Context, id string) (viewer.OpenResult, error) {
	document, status, err := database.FetchDocument(id, w.engine.DB)
	if err != nil {
		if status == http.StatusNotFound || status == http.StatusBadRequest {
			return viewer.OpenResult{}, fmt.Errorf("collection document %q: %w", id, viewer.ErrDocumentNotFound)
		}
		return viewer.OpenResult{}, err
	}
	data, err := w.engine.Storage.Get(ctx, document.BlobKey)
	if err != nil {
		return viewer.OpenResult{}, err
	}
	format, err := DetectFormat(data)
	if err != nil {
		return viewer.OpenResult{}, fmt.Errorf("open %s: %w", document.Name, err)
	}
	return w.activate(document.Name, format, data)
}

// activate makes data the active document
func (w *Workspace) activate(name string, format Format, data []byte) (viewer.OpenResult, error) {
	src, err := w.engine.openSource(format, data)
	if err != nil {
		return viewer.OpenResult{}, fmt.Errorf("open %s: %w", name, err)
	}
	w.active = &activeDocument{token: ulid.Make().String(), name: name, format: format, data: data, src: src}
	Logger.Info("Opened document", "workspace", w.ID, "name", name, "pages", src.PageCount())
	return viewer.OpenResult{
		Active:    true,
		Document:  w.active.token,
		PageCount: src.PageCount(),
		Name:      name,
		Title:     name,
		Formats:   format.IsImage(),
	}, nil
}

func (w *Workspace) closeActive() {
	if w.active == nil {
		return
	}
	if err := w.active.src.Close(); err != nil {
		Logger.Warn("Unable to close document", "name", w.active.name, "error", err)
	}
	w.active = nil
}

func (w *Workspace) stagedEntries() []viewer.Entry {
	entries := make([]viewer.Entry, 0, len(w.staged))
	for _, file := range w.staged {
		entries = append(entries, file.entry())
	}
	return entries
}

func (w *Workspace) homeListing() (viewer.OpenResult, error) {
	entries := w.stagedEntries()
	newest, err := database.FetchNewestDocuments(newestListed, w.engine.DB)
	if err != nil {
		return viewer.OpenResult{}, err
	}
	entries = append(entries, documentEntries(newest)...)
	return viewer.OpenResult{Title: "Home", Listing: entries}, nil
}

func (w *Workspace) collectionListing() (viewer.OpenResult, error) {
	documents, err := w.engine.DB.GetAllDocuments()
	if err != nil {
		return viewer.OpenResult{}, err
	}
	return viewer.OpenResult{Title: "Collection", Listing: documentEntries(documents)}, nil
}

func documentEntries(documents []database.Document) []viewer.Entry {
	entries := make([]viewer.Entry, 0, len(documents))
	for _, document := range documents {
		kind := "unknown"
		for _, format := range Formats {
			if format.ContentType == document.ContentType {
				kind = format.Kind
			}
		}
		entries = append(entries, viewer.Entry{
			Name:      document.Name,
			Kind:      kind,
			Route:     viewer.DocumentRoute(document.ULID.String()),
			PageCount: document.PageCount,
			Openable:  kind != "unknown",
			Preview:   document.Preview,
		})
	}
	return entries
}

// current returns the active document when document still names it. Must
// be called with mu held.
func (w *Workspace) current(document string) (*activeDocument, error) {
	if w.active == nil {
		return nil, viewer.ErrNoActiveDocument
	}
	if document != w.active.token {
		return nil, fmt.Errorf("document %q: %w", document, viewer.ErrStaleDocument)
	}
	return w.active, nil
}

// Render rasterizes one page of the active document. Blank pages give nil.
func (w *Workspace) Render(ctx context.Context, document string, index int) (*viewer.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	active, err := w.current(document)
	if err != nil {
		return nil, err
	}
	return w.engine.renderPage(active.src, index)
}

// AddToCollection copies every openable staged file into the collection
func (w *Workspace) AddToCollection(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	if len(w.staged) == 0 {
		return 0, viewer.ErrNothingStaged
	}

	added := 0
	for _, file := range w.staged {
		if !file.known {
			Logger.Info("Skipping file of unknown format", "name", file.name)
			continue
		}
		data, err := w.engine.Storage.Get(ctx, file.key)
		if err != nil {
			return added, err
		}
		newDoc := database.NewDocument{
			Name:        file.name,
			ContentType: file.format.ContentType,
			PageCount:   file.pages,
			Workspace:   w.ID,
			Data:        data,
			Preview:     file.preview,
		}
		ext := file.format.Ext
		document, err := database.AddNewDocument(newDoc, func(id ulid.ULID) string { return collectionKey(id, ext) }, w.engine.DB)
		if err != nil {
			return added, fmt.Errorf("add %s: %w", file.name, err)
		}
		if err := w.engine.Storage.Put(ctx, document.BlobKey, data, file.format.ContentType); err != nil {
			if delErr := database.DeleteDocument(document.ULID.String(), w.engine.DB); delErr != nil {
				err = errors.Join(err, delErr)
			}
			return added, err
		}
		added++
	}
	Logger.Info("Added files to the collection", "workspace", w.ID, "count", added)
	return added, nil
}

// ExportToPdf returns the active document as a PDF
func (w *Workspace) ExportToPdf(ctx context.Context, document string) ([]byte, error) {
	_, pdf, err := w.export(document)
	return pdf, err
}

// export returns the export file name along with the PDF
func (w *Workspace) export(document string) (string, []byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch()
	active, err := w.current(document)
	if err != nil {
		return "", nil, err
	}
	pdf, err := exportPDF(active.format, active.name, active.data)
	if err != nil {
		return "", nil, err
	}
	return viewer.ExportName(active.name), pdf, nil
}

// close drops the active document and the staged uploads
func (w *Workspace) close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeActive()
	w.staged = nil
	_, err := w.engine.Storage.DeletePrefix(ctx, workspacePrefix(w.ID))
	return err
}
