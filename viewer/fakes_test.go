package viewer

import (
	"context"
	"fmt"
	"sync"
)

type fakeDoc struct {
	name  string
	pages int
	empty map[int]bool
	fail  map[int]error
}

// fakeEngine holds one open document, like the real engine does, and
// rejects renders for a document another open replaced
type fakeEngine struct {
	mu sync.Mutex

	docs    map[string]fakeDoc
	listing []Entry
	openErr map[string]error
	initErr error

	stageErr  error
	collectN  int
	exportErr error

	current      string
	token        string
	opens        int
	staged       []File
	changedCalls int
	renderCalls  []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{docs: map[string]fakeDoc{}, openErr: map[string]error{}}
}

func (f *fakeEngine) Init(ctx context.Context) error {
	return f.initErr
}

func (f *fakeEngine) Open(ctx context.Context, route string) (OpenResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.openErr[route]; err != nil {
		return OpenResult{}, err
	}
	return f.open(route), nil
}

func (f *fakeEngine) open(route string) OpenResult {
	doc, ok := f.docs[route]
	if !ok {
		f.current, f.token = "", ""
		return OpenResult{Title: "Listing " + route, Listing: f.listing}
	}
	f.opens++
	f.current, f.token = route, fmt.Sprintf("%s@%d", route, f.opens)
	return OpenResult{Active: true, Document: f.token, PageCount: doc.pages, Name: doc.name, Formats: true}
}

func (f *fakeEngine) OnDocumentChanged(ctx context.Context) (OpenResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changedCalls++
	return f.open(StagedRoute), nil
}

func (f *fakeEngine) Stage(ctx context.Context, files []File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stageErr != nil {
		return f.stageErr
	}
	f.staged = files
	f.docs[StagedRoute] = fakeDoc{name: files[0].Name, pages: len(files)}
	return nil
}

func (f *fakeEngine) Render(ctx context.Context, document string, index int) (*Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderCalls = append(f.renderCalls, fmt.Sprintf("%s:%d", f.current, index))
	doc, ok := f.docs[f.current]
	if !ok {
		return nil, ErrNoActiveDocument
	}
	if document != f.token {
		return nil, ErrStaleDocument
	}
	if index < 0 || index >= doc.pages {
		return nil, ErrPageOutOfRange
	}
	if err := doc.fail[index]; err != nil {
		return nil, err
	}
	if doc.empty[index] {
		return nil, nil
	}
	return &Page{Index: index, ContentType: "image/png", Data: []byte(fmt.Sprintf("%s:%d", f.current, index))}, nil
}

func (f *fakeEngine) AddToCollection(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.staged) == 0 {
		return 0, ErrNothingStaged
	}
	f.collectN += len(f.staged)
	return len(f.staged), nil
}

func (f *fakeEngine) ExportToPdf(ctx context.Context, document string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	if f.current == "" {
		return nil, ErrNoActiveDocument
	}
	if document != f.token {
		return nil, ErrStaleDocument
	}
	return []byte("%PDF-1.7 " + f.current), nil
}

type progressEvent struct {
	percent  int
	visible  bool
	recorded int
}

type recordingSink struct {
	shown      []string
	displayed  int
	cleared    int
	progress   []progressEvent
	pagination Pagination
	title      string
	listing    []Entry
	listings   int
	formats    bool
	notices    []Notice
	exportName string
	export     []byte

	// recorded reports how many results exist when progress is published
	recorded func() int
}

func newRecordingSink() *recordingSink {
	return &recordingSink{displayed: -1}
}

func (s *recordingSink) ShowPage(index, total int, page *Page) {
	s.displayed = index
	s.shown = append(s.shown, string(page.Data))
}

func (s *recordingSink) ClearPage() {
	s.cleared++
	s.displayed = -1
}

func (s *recordingSink) SetProgress(percent int, visible bool) {
	n := 0
	if s.recorded != nil {
		n = s.recorded()
	}
	s.progress = append(s.progress, progressEvent{percent: percent, visible: visible, recorded: n})
}

func (s *recordingSink) SetPagination(p Pagination) {
	s.pagination = p
}

func (s *recordingSink) ShowListing(title string, entries []Entry) {
	s.listings++
	s.title = title
	s.listing = entries
}

func (s *recordingSink) ShowFormatChooser(show bool) {
	s.formats = show
}

func (s *recordingSink) Notify(n Notice) {
	s.notices = append(s.notices, n)
}

func (s *recordingSink) PresentExport(name string, pdf []byte) {
	s.exportName = name
	s.export = pdf
}

// hashNavigator mimics a browser: setting the route schedules a route change
// event, unless the route is already current.
type hashNavigator struct {
	loop   *Loop
	c      *Controller
	routes []string
}

func (n *hashNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
	if n.c.Route() == route {
		return
	}
	n.loop.Dispatch(func() { n.c.HandleRoute(route) })
}

type harness struct {
	loop   *Loop
	engine *fakeEngine
	sink   *recordingSink
	nav    *hashNavigator
	c      *Controller
}

func newHarness(policy RenderFailurePolicy) *harness {
	h := &harness{
		loop:   NewLoop(),
		engine: newFakeEngine(),
		sink:   newRecordingSink(),
	}
	h.nav = &hashNavigator{loop: h.loop}
	c, err := New(Options{
		Engine:    h.engine,
		Sink:      h.sink,
		Scheduler: h.loop,
		Navigator: h.nav,
		Policy:    policy,
	})
	if err != nil {
		panic(err)
	}
	h.c = c
	h.nav.c = c
	h.sink.recorded = c.tracker.Len
	return h
}
