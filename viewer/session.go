package viewer

// Session is the document that is active for the current route. A new
// Session value replaces the old one on every open.
type Session struct {
	ID        uint64
	Route     string
	Document  string
	Name      string
	PageCount int
	Active    bool
}

// Result is the outcome of rendering one page index
type Result struct {
	Page  *Page
	Empty bool
	Err   error
}

// Displayable reports whether the result carries an artifact to show
func (r Result) Displayable() bool {
	return r.Page != nil && !r.Empty && r.Err == nil
}

// Snapshot is a copy of the controller state
type Snapshot struct {
	Session    Session
	Results    []Result
	Current    int
	Displayed  int
	Progress   int
	Rendering  bool
	Pagination Pagination
}
