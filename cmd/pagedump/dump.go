package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/drummonds/docstudio/viewer"
)

// dumper drives a viewer.Controller on an EventLoop. Controller methods are
// only called through loop.Dispatch.
type dumper struct {
	engine viewer.Engine
	out    string
	policy viewer.RenderFailurePolicy
	bar    *progressbar.ProgressBar
	export bool
	log    io.Writer

	loop       *viewer.EventLoop
	sink       *fileSink
	controller *viewer.Controller
}

// onLoop runs fn on the loop goroutine and waits for its result
func onLoop[T any](ctx context.Context, loop *viewer.EventLoop, fn func() T) (T, error) {
	ch := make(chan T, 1)
	loop.Dispatch(func() { ch <- fn() })
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (d *dumper) wait(ctx context.Context, want eventKind) (event, error) {
	for {
		select {
		case <-ctx.Done():
			return event{}, ctx.Err()
		case ev := <-d.sink.events:
			if ev.kind == failed {
				return ev, ev.err
			}
			if ev.kind == want || (want == passDone && ev.kind == listed) {
				return ev, nil
			}
		}
	}
}

// run stages files and writes the pages of every openable document
func (d *dumper) run(ctx context.Context, files []viewer.File) error {
	if err := d.engine.Init(ctx); err != nil {
		return fmt.Errorf("init workspace: %w", err)
	}

	d.loop = viewer.NewEventLoop()
	loopCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.loop.Run(loopCtx)
	}()
	defer func() {
		stop()
		<-done
	}()

	d.sink = newFileSink(d.bar)
	d.sink.dir = d.out
	controller, err := viewer.New(viewer.Options{
		Engine:    d.engine,
		Sink:      d.sink,
		Scheduler: d.loop,
		Policy:    d.policy,
		Context:   ctx,
	})
	if err != nil {
		return err
	}
	d.controller = controller

	d.loop.Dispatch(func() { d.controller.SelectFiles(files) })
	ev, err := d.wait(ctx, passDone)
	if err != nil {
		return err
	}
	if ev.kind == passDone {
		return d.finish(ctx, d.out)
	}

	// several files: open each from the staged listing
	for _, entry := range ev.listing {
		if !entry.Openable {
			fmt.Fprintf(d.log, "Skipping %s: unsupported format\n", entry.Name)
			continue
		}
		dir := filepath.Join(d.out, entry.Name)
		route := entry.Route
		if _, err := onLoop(ctx, d.loop, func() bool {
			d.sink.dir = dir
			d.controller.HandleRoute(route)
			return true
		}); err != nil {
			return err
		}
		if _, err := d.wait(ctx, passDone); err != nil {
			return fmt.Errorf("%s: %w", entry.Name, err)
		}
		if err := d.finish(ctx, dir); err != nil {
			return fmt.Errorf("%s: %w", entry.Name, err)
		}
	}
	return nil
}

// finish writes every rendered page of the active document, and its PDF
// when asked
func (d *dumper) finish(ctx context.Context, dir string) error {
	snap, err := onLoop(ctx, d.loop, d.controller.Snapshot)
	if err != nil {
		return err
	}
	for i, result := range snap.Results {
		if !result.Displayable() {
			continue
		}
		if _, err := onLoop(ctx, d.loop, func() bool { return d.controller.Select(i) }); err != nil {
			return err
		}
	}
	if d.sink.writeErr != nil {
		return d.sink.writeErr
	}
	for _, err := range d.sink.skipped {
		fmt.Fprintf(d.log, "Skipped: %v\n", err)
	}
	d.sink.skipped = nil
	if len(snap.Results) < snap.Session.PageCount {
		return fmt.Errorf("rendered %d of %d pages", len(snap.Results), snap.Session.PageCount)
	}
	fmt.Fprintf(d.log, "%s: %d page(s) written to %s\n", snap.Session.Name, snap.Session.PageCount, dir)

	if !d.export {
		return nil
	}
	d.loop.Dispatch(d.controller.ExportToPdf)
	ev, err := d.wait(ctx, exported)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.log, "Exported %s\n", filepath.Join(dir, ev.message))
	return d.sink.writeErr
}

// collect adds the staged files to the collection
func (d *dumper) collect(ctx context.Context) (int, error) {
	if d.controller == nil {
		return 0, errors.New("nothing was staged")
	}
	count, err := d.engine.AddToCollection(ctx)
	if err != nil {
		return 0, fmt.Errorf("add to collection: %w", err)
	}
	return count, nil
}
