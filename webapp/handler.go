package webapp

import (
	"net/http"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// Handler returns an HTTP handler for the web app
func Handler() http.Handler {
	// every route renders App, which picks the page from the path
	app.Route("/", func() app.Composer { return &App{} })
	app.Route("/collection", func() app.Composer { return &App{} })
	app.Route("/about", func() app.Composer { return &App{} })
	app.RunWhenOnBrowser()

	// wasm_exec.js and /web/app.wasm are served by Echo
	return &app.Handler{
		Name:        "docstudio",
		Title:       "docstudio",
		Description: "Page by page document viewer",
		Icon: app.Icon{
			Default: "/favicon.ico",
		},
		Styles: []string{
			"/webapp/webapp.css",
		},
		Scripts: []string{
			"/config.js", // backend API configuration
		},
		RawHeaders: []string{
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
		},
	}
}
