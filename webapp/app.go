package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// App is the root component: navbar, sidebar and the page for the path
type App struct {
	app.Compo
}

func (a *App) Render() app.UI {
	return app.Div().Class("app-container").Body(
		app.Header().Body(&NavBar{}),
		app.Div().Class("app-layout").Body(
			&Sidebar{},
			app.Main().Class("main-content").Body(
				app.Div().Class("content").Body(pageFor(app.Window().URL().Path)),
			),
		),
	)
}

// pageFor picks the page component for a path. Document routes live in the
// fragment, so they all land on the studio.
func pageFor(path string) app.UI {
	switch path {
	case "/":
		return &StudioPage{}
	case "/collection":
		return &CollectionPage{}
	case "/about":
		return &AboutPage{}
	default:
		return &NotFoundPage{}
	}
}
