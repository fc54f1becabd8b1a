package viewer

import (
	"errors"
	"fmt"
	"strings"
)

// RenderFailurePolicy decides what a page that fails to render does to the
// rest of its pass
type RenderFailurePolicy int

const (
	// AbortPass stops the pass at the failed page
	AbortPass RenderFailurePolicy = iota
	// SkipPage records the failure for that index and carries on
	SkipPage
)

func (p RenderFailurePolicy) String() string {
	switch p {
	case SkipPage:
		return "skip"
	default:
		return "abort"
	}
}

// ParseFailurePolicy reads "abort" or "skip"
func ParseFailurePolicy(s string) (RenderFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abort":
		return AbortPass, nil
	case "skip":
		return SkipPage, nil
	}
	return AbortPass, fmt.Errorf("unknown render failure policy %q", s)
}

// renderPass is one traversal of all page indices of a session. Its page
// count is fixed when the pass starts. A pass only writes while it is the
// controller's current pass.
type renderPass struct {
	session Session
}

func (c *Controller) startRenderPass() {
	pass := &renderPass{session: c.session}
	c.pass = pass
	c.progress.Reset()
	Logger.Debug("Starting render pass", "session", pass.session.ID, "pages", pass.session.PageCount)
	if pass.session.PageCount == 0 {
		c.progress.Update(0, 0)
		c.pass = nil
		return
	}
	c.renderOne(pass, 0)
}

func (c *Controller) renderOne(pass *renderPass, index int) {
	if c.pass != pass {
		return
	}
	c.sched.Async(func() {
		page, err := c.engine.Render(c.ctx, pass.session.Document, index)
		c.sched.Dispatch(func() { c.rendered(pass, index, page, err) })
	})
}

func (c *Controller) rendered(pass *renderPass, index int, page *Page, err error) {
	if c.pass != pass {
		Logger.Debug("Discarding page of superseded pass", "session", pass.session.ID, "index", index)
		return
	}
	total := pass.session.PageCount

	var result Result
	switch {
	case err != nil:
		err = &EngineError{Op: "render", Route: pass.session.Route, Index: index, Err: err}
		Logger.Warn("Page render failed", "index", index, "policy", c.policy, "error", err)
		c.sink.Notify(errorNotice(err))
		// every later page of a replaced document fails the same way
		if c.policy == AbortPass || errors.Is(err, ErrStaleDocument) {
			c.progress.Hide()
			c.pass = nil
			return
		}
		result = Result{Err: err}
	case page == nil:
		Logger.Debug("Empty page", "index", index)
		result = Result{Empty: true}
	default:
		result = Result{Page: page}
	}

	c.tracker.Append(result)
	c.progress.Update(index+1, total)
	if index == 0 {
		c.tracker.Select(0)
	}

	next := index + 1
	if next >= total {
		Logger.Info("Render pass complete", "session", pass.session.ID, "pages", total)
		c.pass = nil
		return
	}
	c.sched.Dispatch(func() { c.renderOne(pass, next) })
}
