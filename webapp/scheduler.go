package webapp

import (
	"github.com/drummonds/docstudio/viewer"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// contextScheduler runs controller tasks through the component context:
// Dispatch lands on the UI goroutine and triggers a re-render, Async runs
// engine calls off it
type contextScheduler struct {
	ctx app.Context
}

var _ viewer.Scheduler = contextScheduler{}

func (s contextScheduler) Dispatch(fn func()) {
	s.ctx.Dispatch(func(app.Context) { fn() })
}

func (s contextScheduler) Async(fn func()) {
	s.ctx.Async(fn)
}

// hashNavigator moves the browser to a route by setting location.hash. The
// resulting hashchange event reaches the controller through HandleRoute.
type hashNavigator struct{}

func (hashNavigator) Navigate(route string) {
	app.Window().Get("location").Set("hash", route)
}

// currentRoute decodes the current location fragment
func currentRoute() string {
	if !app.IsClient {
		return ""
	}
	return viewer.DecodeRoute(app.Window().Get("location").Get("hash").String())
}
