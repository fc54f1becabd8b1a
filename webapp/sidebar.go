package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// navItem is one destination shown in both the navbar and the sidebar
type navItem struct {
	icon  string
	label string
	href  string
}

var navItems = []navItem{
	{"📄", "Studio", "/"},
	{"📁", "Collection", "/collection"},
	{"ℹ️", "About", "/about"},
}

// sidebarKey stores whether the sidebar is open
const sidebarKey = "sidebar-open"

// Sidebar is the collapsible left menu
type Sidebar struct {
	app.Compo
	isOpen bool
}

func (s *Sidebar) OnMount(ctx app.Context) {
	ctx.LocalStorage().Get(sidebarKey, &s.isOpen)
}

func (s *Sidebar) OnNav(ctx app.Context) {
	ctx.LocalStorage().Get(sidebarKey, &s.isOpen)
}

// Render renders the sidebar
func (s *Sidebar) Render() app.UI {
	class := "sidebar"
	if s.isOpen {
		class += " sidebar-open"
	}
	current := app.Window().URL().Path

	return app.Aside().Class(class).Body(
		app.Div().Class("sidebar-header").Body(app.H2().Text("Menu")),
		app.Nav().Class("sidebar-nav").Body(
			app.Range(navItems).Slice(func(i int) app.UI {
				item := navItems[i]
				itemClass := "sidebar-item"
				if current == item.href {
					itemClass += " sidebar-item-active"
				}
				return app.A().Href(item.href).Class(itemClass).Body(
					app.Span().Class("sidebar-icon").Text(item.icon),
					app.Span().Class("sidebar-label").Text(item.label),
				)
			}),
		),
	)
}
