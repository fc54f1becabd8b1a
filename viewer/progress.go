package viewer

import "math"

// Progress turns render completion into a percentage for the sink. Within
// one pass the value never decreases, and the indicator hides once it
// reaches 100.
type Progress struct {
	sink    ViewSink
	percent int
	visible bool
}

// NewProgress creates a hidden progress reporter
func NewProgress(sink ViewSink) *Progress {
	return &Progress{sink: sink}
}

// Reset starts a new pass at 0 with the indicator shown
func (p *Progress) Reset() {
	p.percent = 0
	p.visible = true
	p.sink.SetProgress(0, true)
}

// Update records that done of total pages have finished
func (p *Progress) Update(done, total int) {
	if total <= 0 {
		p.set(100)
		return
	}
	percent := int(math.Round(float64(done) / float64(total) * 100))
	if done < total {
		// 100 means the pass is complete
		percent = min(percent, 99)
	}
	p.set(percent)
}

func (p *Progress) set(percent int) {
	percent = max(0, min(100, percent))
	if percent < p.percent {
		return
	}
	p.percent = percent
	p.visible = percent < 100
	p.sink.SetProgress(percent, p.visible)
}

// Hide hides the indicator without touching the value
func (p *Progress) Hide() {
	p.visible = false
	p.sink.SetProgress(p.percent, false)
}

// Clear drops back to the idle state
func (p *Progress) Clear() {
	p.percent = 0
	p.Hide()
}

// Percent returns the current value
func (p *Progress) Percent() int {
	return p.percent
}

// Visible reports whether the indicator is shown
func (p *Progress) Visible() bool {
	return p.visible
}
