package webapp

import (
	"fmt"

	"github.com/drummonds/docstudio/internal/build"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// BuildDate can be set at build time with -ldflags
var BuildDate = ""

// NavBar is the top bar with the brand, version and main links
type NavBar struct {
	app.Compo
}

// Render renders the navigation bar
func (n *NavBar) Render() app.UI {
	return app.Nav().Class("navbar").Body(
		app.Button().
			Class("hamburger-menu").
			ID("menu-toggle").
			OnClick(n.onMenuToggle).
			Body(
				app.Span().Class("hamburger-line"),
				app.Span().Class("hamburger-line"),
				app.Span().Class("hamburger-line"),
			),
		app.Div().Class("navbar-brand").Body(
			app.H1().Text("docstudio"),
			app.Span().Class("version-info").Text(versionInfo()),
		),
		app.Div().Class("navbar-menu").Body(
			app.Range(navItems).Slice(func(i int) app.UI {
				return app.A().Href(navItems[i].href).Class("navbar-item").Text(navItems[i].label)
			}),
		),
	)
}

// onMenuToggle flips the stored sidebar state and reloads so the sidebar
// picks it up
func (n *NavBar) onMenuToggle(ctx app.Context, e app.Event) {
	var isOpen bool
	ctx.LocalStorage().Get(sidebarKey, &isOpen)
	ctx.LocalStorage().Set(sidebarKey, !isOpen)
	ctx.Reload()
}

func versionInfo() string {
	if BuildDate == "" {
		return build.Version
	}
	return fmt.Sprintf("%s | %s", build.Version, BuildDate)
}
