package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// NotFoundPage is shown for paths the app has no page for. Unknown document
// routes are handled by the studio itself.
type NotFoundPage struct {
	app.Compo
}

func (p *NotFoundPage) Render() app.UI {
	path := ""
	if app.IsClient {
		path = app.Window().URL().Path
	}
	return app.Div().Class("not-found-page").Body(
		app.H1().Class("not-found-title").Text("404"),
		app.P().Class("not-found-message").Text("There is no page at " + path),
		app.A().Href("/").Class("not-found-home-link").Text("📄 Back to the studio"),
	)
}
