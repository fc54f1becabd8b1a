package viewer

// Level is the severity of a Notice
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a user visible message
type Notice struct {
	Level   Level
	Message string
	Err     error
}

// Pagination is the state of the previous/next controls
type Pagination struct {
	Visible      bool
	Current      int
	Rendered     int
	Total        int
	PrevDisabled bool
	NextDisabled bool
}

// ViewSink is everything the controller needs from a display surface
type ViewSink interface {
	// ShowPage materializes a page in the primary view
	ShowPage(index, total int, page *Page)
	ClearPage()
	SetProgress(percent int, visible bool)
	SetPagination(p Pagination)
	ShowListing(title string, entries []Entry)
	ShowFormatChooser(show bool)
	Notify(n Notice)
	PresentExport(name string, pdf []byte)
}

// Navigator changes the navigable location. The host reports the resulting
// route change back through Controller.HandleRoute.
type Navigator interface {
	Navigate(route string)
}

// Scheduler runs controller tasks on a single logical thread.
type Scheduler interface {
	// Dispatch queues fn on the UI thread
	Dispatch(fn func())
	// Async runs fn off the UI thread; fn reports back with Dispatch
	Async(fn func())
}
