package webapp

import (
	"context"
	"fmt"

	"github.com/drummonds/docstudio/client"
	"github.com/drummonds/docstudio/viewer"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// workspaceKey is the session storage key of the workspace id. Session
// storage is per tab, so tabs never share a workspace.
const workspaceKey = "docstudio-workspace"

// savedWorkspace wraps the client so a fresh workspace id survives reloads
type savedWorkspace struct {
	*client.EngineClient
	save func(id string)
}

func (s savedWorkspace) Init(ctx context.Context) error {
	if err := s.EngineClient.Init(ctx); err != nil {
		return err
	}
	s.save(s.Workspace())
	return nil
}

// StudioPage uploads, renders and pages through documents
type StudioPage struct {
	app.Compo
	studioView

	controller   *viewer.Controller
	hashListener app.Func
}

// OnMount is called when the component is mounted
func (p *StudioPage) OnMount(ctx app.Context) {
	var workspace string
	ctx.SessionStorage().Get(workspaceKey, &workspace)

	engine := savedWorkspace{
		EngineClient: client.NewEngineClient(GetAPIBaseURL(), workspace),
		save: func(id string) {
			ctx.Dispatch(func(ctx app.Context) {
				ctx.SessionStorage().Set(workspaceKey, id)
			})
		},
	}
	policy, err := viewer.ParseFailurePolicy(GetFailurePolicy())
	if err != nil {
		app.Log("unknown render failure policy, aborting on errors:", err)
	}
	controller, err := viewer.New(viewer.Options{
		Engine:    engine,
		Sink:      p,
		Scheduler: contextScheduler{ctx: ctx},
		Navigator: hashNavigator{},
		Policy:    policy,
	})
	if err != nil {
		p.Notify(viewer.Notice{Level: viewer.LevelError, Message: err.Error(), Err: err})
		return
	}
	p.controller = controller

	p.hashListener = app.FuncOf(func(this app.Value, args []app.Value) any {
		route := currentRoute()
		ctx.Dispatch(func(ctx app.Context) {
			p.controller.HandleRoute(route)
		})
		return nil
	})
	app.Window().Call("addEventListener", "hashchange", p.hashListener)

	p.controller.Start(currentRoute())
}

// OnDismount is called when the component is unmounted
func (p *StudioPage) OnDismount() {
	if p.hashListener != nil {
		app.Window().Call("removeEventListener", "hashchange", p.hashListener)
		p.hashListener.Release()
		p.hashListener = nil
	}
}

// onFilesSelected reads every selected file and hands them to the controller
// once all are in memory
func (p *StudioPage) onFilesSelected(ctx app.Context, e app.Event) {
	list := e.Get("target").Get("files")
	n := list.Get("length").Int()
	if n == 0 || p.controller == nil {
		return
	}
	files := make([]viewer.File, n)
	remaining := n
	for i := 0; i < n; i++ {
		file := list.Index(i)
		name := file.Get("name").String()
		var loaded app.Func
		loaded = app.FuncOf(func(this app.Value, args []app.Value) any {
			defer loaded.Release()
			data := app.Window().Get("Uint8Array").New(args[0])
			buf := make([]byte, data.Get("length").Int())
			app.CopyBytesToGo(buf, data)
			ctx.Dispatch(func(ctx app.Context) {
				files[i] = viewer.File{Name: name, Data: buf}
				remaining--
				if remaining == 0 {
					p.controller.SelectFiles(files)
				}
			})
			return nil
		})
		file.Call("arrayBuffer").Call("then", loaded)
	}
}

// onEntry navigates to a listed route, the hashchange then opens it
func (p *StudioPage) onEntry(route string) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		hashNavigator{}.Navigate(route)
	}
}

func (p *StudioPage) onPrevious(ctx app.Context, e app.Event) {
	p.controller.Previous()
}

func (p *StudioPage) onNext(ctx app.Context, e app.Event) {
	p.controller.Next()
}

func (p *StudioPage) onAddToCollection(ctx app.Context, e app.Event) {
	p.controller.AddToCollection()
}

func (p *StudioPage) onExport(ctx app.Context, e app.Event) {
	p.controller.ExportToPdf()
}

// Render renders the studio page
func (p *StudioPage) Render() app.UI {
	active := p.controller != nil && p.controller.Session().Active
	return app.Div().Class("studio-page").Body(
		app.Div().Class("studio-toolbar").Body(
			app.Label().Class("btn-primary file-picker").Body(
				app.Text("Open files…"),
				app.Input().
					Type("file").
					Multiple(true).
					Accept(".pdf,.png,.jpg,.jpeg").
					Class("hidden").
					OnChange(p.onFilesSelected),
			),
			app.Button().
				Class("btn-secondary").
				Disabled(p.controller == nil).
				OnClick(p.onAddToCollection).
				Text("Add to collection"),
			app.Button().
				Class("btn-secondary").
				Disabled(!active).
				OnClick(p.onExport).
				Text("Export to PDF"),
			app.If(p.exportURL != "", func() app.UI {
				return app.A().
					Class("export-link").
					Href(p.exportURL).
					Attr("download", p.exportName).
					Text("Download " + p.exportName)
			}),
			app.If(p.showFormats && p.pageURL != "", func() app.UI {
				return app.A().
					Class("export-link").
					Href(p.pageURL).
					Attr("download", fmt.Sprintf("page-%d.png", p.pageIndex+1)).
					Text("Download page as PNG")
			}),
		),
		app.If(p.progressVisible, func() app.UI {
			return app.Div().Class("progress").Body(
				app.Div().Class("progress-bar").Style("width", fmt.Sprintf("%d%%", p.progress)),
			)
		}),
		p.renderNotice(),
		p.renderListing(),
		app.If(p.pagination.Visible, func() app.UI {
			return app.Div().Class("pagination").Body(
				app.Button().Disabled(p.pagination.PrevDisabled).OnClick(p.onPrevious).Text("Previous"),
				app.Span().Class("page-label").Text(p.pageLabel()),
				app.Button().Disabled(p.pagination.NextDisabled).OnClick(p.onNext).Text("Next"),
			)
		}),
		app.If(p.pageURL != "", func() app.UI {
			return app.Div().Class("page-view").Body(
				app.Img().Src(p.pageURL).Alt(fmt.Sprintf("Page %d", p.pageIndex+1)),
			)
		}),
	)
}

func (p *StudioPage) renderNotice() app.UI {
	text := p.noticeText()
	if text == "" {
		return app.Div()
	}
	class := "success"
	if p.notice.Level == viewer.LevelError {
		class = "error"
	}
	return app.Div().Class(class).Text(text)
}

func (p *StudioPage) renderListing() app.UI {
	if len(p.listing) == 0 {
		if p.listingTitle == "" {
			return app.Div()
		}
		return app.Div().Class("listing").Body(
			app.H2().Text(p.listingTitle),
			app.P().Text("Nothing here yet. Open some files to get started."),
		)
	}
	return app.Div().Class("listing").Body(
		app.H2().Text(p.listingTitle),
		app.Ul().Body(
			app.Range(p.listing).Slice(func(i int) app.UI {
				entry := p.listing[i]
				if !entry.Openable {
					return app.Li().Class("entry entry-disabled").Text(entry.Name + " (unsupported)")
				}
				return app.Li().Class("entry").Body(
					previewImage(entry.Preview, entry.Name),
					app.Button().Class("link").OnClick(p.onEntry(entry.Route)).Text(entry.Name),
					app.Span().Class("entry-meta").Text(fmt.Sprintf(" %s, %d page(s)", entry.Kind, entry.PageCount)),
				)
			}),
		),
	)
}

// previewImage is the first page thumbnail of a listed document, or an empty
// placeholder of the same size
func previewImage(preview []byte, name string) app.UI {
	if len(preview) == 0 {
		return app.Span().Class("entry-preview entry-preview-none")
	}
	return app.Img().Class("entry-preview").Src(dataURL("image/png", preview)).Alt(name)
}
