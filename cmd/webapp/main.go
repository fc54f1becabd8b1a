//go:build js && wasm

package main

import (
	"github.com/drummonds/docstudio/webapp"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

func main() {
	// all routes use the App component with navbar/sidebar
	app.Route("/", func() app.Composer { return &webapp.App{} })
	app.Route("/collection", func() app.Composer { return &webapp.App{} })
	app.Route("/about", func() app.Composer { return &webapp.App{} })

	// This main function is for the WASM build only
	app.RunWhenOnBrowser()
}
