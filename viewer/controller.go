package viewer

import (
	"context"
	"errors"
)

// Options configures a Controller
type Options struct {
	Engine    Engine
	Sink      ViewSink
	Scheduler Scheduler
	Navigator Navigator
	// Policy decides what a failed page does to the rest of the pass
	Policy RenderFailurePolicy
	// Context is passed to every engine call. Defaults to context.Background.
	Context context.Context
}

// Controller reconciles route changes and file selections into one document
// session and drives the render pass for it. All exported methods must be
// called from the scheduler's UI thread.
type Controller struct {
	engine   Engine
	sink     ViewSink
	sched    Scheduler
	nav      Navigator
	policy   RenderFailurePolicy
	ctx      context.Context
	tracker  *Tracker
	progress *Progress

	route      string
	generation uint64
	session    Session
	pass       *renderPass
}

// New creates a controller. Navigator may be nil when the host never
// changes the route on its own.
func New(opts Options) (*Controller, error) {
	if opts.Engine == nil {
		return nil, errors.New("viewer: engine is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("viewer: view sink is required")
	}
	if opts.Scheduler == nil {
		return nil, errors.New("viewer: scheduler is required")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return &Controller{
		engine:   opts.Engine,
		sink:     opts.Sink,
		sched:    opts.Scheduler,
		nav:      opts.Navigator,
		policy:   opts.Policy,
		ctx:      ctx,
		tracker:  NewTracker(opts.Sink),
		progress: NewProgress(opts.Sink),
	}, nil
}

// Start initializes the engine once and then handles the initial route
func (c *Controller) Start(route string) {
	c.sched.Async(func() {
		err := c.engine.Init(c.ctx)
		c.sched.Dispatch(func() {
			if err != nil {
				Logger.Error("Engine init failed", "error", err)
				c.sink.Notify(errorNotice(&EngineError{Op: "init", Err: err}))
				return
			}
			c.HandleRoute(route)
		})
	})
}

// HandleRoute makes route current: all state of the previous session is
// cleared before the engine is asked to open the new one.
func (c *Controller) HandleRoute(route string) {
	Logger.Debug("Handling route", "route", route)
	c.route = route
	gen := c.reset()
	c.sched.Async(func() {
		res, err := c.engine.Open(c.ctx, route)
		c.sched.Dispatch(func() { c.opened(gen, route, "open", res, err) })
	})
}

// SelectFiles stages files with the engine. Away from the staged route it
// navigates there; on the staged route a navigation would not produce a
// route change, so the engine is told directly that the document changed.
func (c *Controller) SelectFiles(files []File) {
	c.sched.Async(func() {
		err := c.engine.Stage(c.ctx, files)
		c.sched.Dispatch(func() {
			if err != nil {
				c.sink.Notify(errorNotice(&EngineError{Op: "stage", Route: StagedRoute, Err: err}))
				return
			}
			if !IsStaged(c.route) {
				if c.nav == nil {
					c.HandleRoute(StagedRoute)
					return
				}
				c.nav.Navigate(StagedRoute)
				return
			}
			c.documentChanged()
		})
	})
}

func (c *Controller) documentChanged() {
	route := c.route
	gen := c.reset()
	c.sched.Async(func() {
		res, err := c.engine.OnDocumentChanged(c.ctx)
		c.sched.Dispatch(func() { c.opened(gen, route, "document changed", res, err) })
	})
}

// reset abandons the current session and pass and clears every piece of
// session chrome. It returns the generation of the new session.
func (c *Controller) reset() uint64 {
	c.generation++
	if c.pass != nil {
		Logger.Debug("Abandoning render pass", "session", c.pass.session.ID, "rendered", c.tracker.Len())
	}
	c.pass = nil
	c.session = Session{ID: c.generation, Route: c.route}
	c.tracker.Clear()
	c.progress.Clear()
	c.sink.ClearPage()
	c.sink.ShowFormatChooser(false)
	return c.generation
}

func (c *Controller) opened(gen uint64, route, op string, res OpenResult, err error) {
	if gen != c.generation {
		Logger.Debug("Dropping stale open result", "route", route, "generation", gen, "current", c.generation)
		return
	}
	if err != nil {
		Logger.Warn("Unable to open route", "route", route, "error", err)
		c.sink.Notify(errorNotice(&EngineError{Op: op, Route: route, Err: err}))
		return
	}
	c.session = Session{
		ID:        gen,
		Route:     route,
		Document:  res.Document,
		Name:      res.Name,
		PageCount: max(0, res.PageCount),
		Active:    res.Active,
	}
	if !res.Active {
		c.sink.ShowListing(res.Title, res.Listing)
		return
	}
	Logger.Info("Opened document", "route", route, "name", res.Name, "pages", c.session.PageCount)
	c.sink.ShowFormatChooser(res.Formats)
	c.tracker.Setup(c.session.PageCount)
	c.startRenderPass()
}

// Select shows the result at index
func (c *Controller) Select(index int) bool {
	return c.tracker.Select(index)
}

// Next shows the following result
func (c *Controller) Next() bool {
	return c.tracker.Next()
}

// Previous shows the preceding result
func (c *Controller) Previous() bool {
	return c.tracker.Previous()
}

// Route is the current route key
func (c *Controller) Route() string {
	return c.route
}

// Session is the current session
func (c *Controller) Session() Session {
	return c.session
}

// Rendering reports whether a render pass is in progress
func (c *Controller) Rendering() bool {
	return c.pass != nil
}

// Snapshot copies the controller state
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Session:    c.session,
		Results:    c.tracker.Results(),
		Current:    c.tracker.Current(),
		Displayed:  c.tracker.Displayed(),
		Progress:   c.progress.Percent(),
		Rendering:  c.pass != nil,
		Pagination: c.tracker.Pagination(),
	}
}
