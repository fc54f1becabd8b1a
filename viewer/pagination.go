package viewer

// Tracker holds the results produced so far for the current session and the
// index the user is looking at. Previous is disabled on the first page; next
// is disabled once current reaches the last result produced so far, which
// during a pass may be well before the last page of the document.
type Tracker struct {
	sink      ViewSink
	results   []Result
	current   int
	displayed int
	total     int
	visible   bool
}

// NewTracker creates an empty, hidden tracker
func NewTracker(sink ViewSink) *Tracker {
	return &Tracker{sink: sink, displayed: -1}
}

// Clear removes the controls and forgets all results
func (t *Tracker) Clear() {
	t.results = nil
	t.current = 0
	t.displayed = -1
	t.total = 0
	t.visible = false
	t.sink.SetPagination(t.Pagination())
}

// Setup shows the controls for a document of total pages with no results yet
func (t *Tracker) Setup(total int) {
	t.results = make([]Result, 0, total)
	t.current = 0
	t.displayed = -1
	t.total = total
	t.visible = true
	t.sink.SetPagination(t.Pagination())
}

// Append records the next result in index order
func (t *Tracker) Append(r Result) {
	t.results = append(t.results, r)
	t.sink.SetPagination(t.Pagination())
}

// Len is the number of results produced so far
func (t *Tracker) Len() int {
	return len(t.results)
}

// Results returns a copy of the results produced so far
func (t *Tracker) Results() []Result {
	out := make([]Result, len(t.results))
	copy(out, t.results)
	return out
}

// Current is the selected index
func (t *Tracker) Current() int {
	return t.current
}

// Displayed is the index shown in the primary view, or -1
func (t *Tracker) Displayed() int {
	return t.displayed
}

// Pagination derives the control state
func (t *Tracker) Pagination() Pagination {
	return Pagination{
		Visible:      t.visible,
		Current:      t.current,
		Rendered:     len(t.results),
		Total:        t.total,
		PrevDisabled: t.current == 0,
		NextDisabled: t.current+1 >= len(t.results),
	}
}

// Select moves to index. Results without an artifact change the selection
// but leave the primary view as it is.
func (t *Tracker) Select(index int) bool {
	if index < 0 || index >= len(t.results) {
		return false
	}
	t.current = index
	t.materialize(index)
	t.sink.SetPagination(t.Pagination())
	return true
}

// Next selects the following result
func (t *Tracker) Next() bool {
	if t.Pagination().NextDisabled {
		return false
	}
	return t.Select(t.current + 1)
}

// Previous selects the preceding result
func (t *Tracker) Previous() bool {
	if t.Pagination().PrevDisabled {
		return false
	}
	return t.Select(t.current - 1)
}

func (t *Tracker) materialize(index int) {
	r := t.results[index]
	if !r.Displayable() {
		return
	}
	t.displayed = index
	t.sink.ShowPage(index, t.total, r.Page)
}
