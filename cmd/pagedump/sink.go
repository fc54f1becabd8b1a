package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/drummonds/docstudio/viewer"
)

type eventKind int

const (
	passDone eventKind = iota
	listed
	failed
	exported
	informed
)

type event struct {
	kind    eventKind
	err     error
	title   string
	listing []viewer.Entry
	message string
}

// fileSink writes what the controller shows into dir. It only runs on the
// event loop goroutine and reports milestones on events.
type fileSink struct {
	dir     string
	bar     *progressbar.ProgressBar
	events  chan event
	passing bool

	written  []string
	skipped  []error
	writeErr error
}

var _ viewer.ViewSink = (*fileSink)(nil)

func newFileSink(bar *progressbar.ProgressBar) *fileSink {
	return &fileSink{bar: bar, events: make(chan event, 16)}
}

func (s *fileSink) write(name string, data []byte) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.writeErr = err
		return
	}
	file := filepath.Join(s.dir, name)
	if err := os.WriteFile(file, data, 0644); err != nil {
		s.writeErr = err
		return
	}
	s.written = append(s.written, file)
}

func (s *fileSink) ShowPage(index, total int, page *viewer.Page) {
	s.write(fmt.Sprintf("page-%03d.png", index+1), page.Data)
}

func (s *fileSink) ClearPage() {}

func (s *fileSink) SetProgress(percent int, visible bool) {
	if s.bar != nil && s.passing {
		_ = s.bar.Set(percent)
	}
	if visible {
		if !s.passing && s.bar != nil {
			s.bar.Reset()
		}
		s.passing = true
		return
	}
	if s.passing {
		s.passing = false
		s.events <- event{kind: passDone}
	}
}

func (s *fileSink) SetPagination(p viewer.Pagination) {}

func (s *fileSink) ShowListing(title string, entries []viewer.Entry) {
	s.events <- event{kind: listed, title: title, listing: entries}
}

func (s *fileSink) ShowFormatChooser(show bool) {}

func (s *fileSink) Notify(n viewer.Notice) {
	if n.Level != viewer.LevelError {
		s.events <- event{kind: informed, message: n.Message}
		return
	}
	if s.passing {
		// a skipped page, an aborted pass ends through SetProgress
		s.skipped = append(s.skipped, n.Err)
		return
	}
	s.events <- event{kind: failed, err: n.Err}
}

func (s *fileSink) PresentExport(name string, pdf []byte) {
	s.write(name, pdf)
	s.events <- event{kind: exported, message: name}
}
