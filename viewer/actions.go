package viewer

import (
	"fmt"
	"path"
	"strings"
)

// AddToCollection asks the engine to persist the staged files and reports
// the count. Repeated calls add repeatedly.
func (c *Controller) AddToCollection() {
	c.sched.Async(func() {
		count, err := c.engine.AddToCollection(c.ctx)
		c.sched.Dispatch(func() {
			if err != nil {
				c.sink.Notify(errorNotice(&EngineError{Op: "add to collection", Err: err}))
				return
			}
			Logger.Info("Added files to collection", "count", count)
			c.sink.Notify(Notice{Level: LevelInfo, Message: fmt.Sprintf("Added %d file(s) to the collection", count)})
		})
	})
}

// ExportToPdf asks the engine for a PDF of the active document and hands it
// to the sink
func (c *Controller) ExportToPdf() {
	name := ExportName(c.session.Name)
	document := c.session.Document
	c.sched.Async(func() {
		pdf, err := c.engine.ExportToPdf(c.ctx, document)
		c.sched.Dispatch(func() {
			if err != nil {
				c.sink.Notify(errorNotice(&EngineError{Op: "export to pdf", Err: err}))
				return
			}
			c.sink.PresentExport(name, pdf)
		})
	})
}

// ExportName derives the PDF file name for a document name
func ExportName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "document"
	}
	return base + ".pdf"
}
