package webapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drummonds/docstudio/client"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// AboutInfo represents the about information from the API
type AboutInfo struct {
	Version       string   `json:"version"`
	Renderer      string   `json:"renderer"`
	RenderDPI     int      `json:"renderDPI"`
	Formats       []string `json:"formats"`
	Storage       string   `json:"storage"`
	DatabaseType  string   `json:"databaseType"`
	DatabaseHost  string   `json:"databaseHost"`
	DatabasePort  string   `json:"databasePort"`
	DatabaseName  string   `json:"databaseName"`
	Documents     int      `json:"documents"`
	Workspaces    int      `json:"workspaces"`
	FailurePolicy string   `json:"failurePolicy"`
}

// AboutPage displays information about the application
type AboutPage struct {
	app.Compo
	aboutInfo AboutInfo
	loading   bool
	error     string
}

// OnMount is called when the component is mounted
func (a *AboutPage) OnMount(ctx app.Context) {
	a.loading = true
	a.fetchAboutInfo(ctx)
}

// fetchAboutInfo fetches the about information from the API
func (a *AboutPage) fetchAboutInfo(ctx app.Context) {
	ec := client.NewEngineClient(GetAPIBaseURL(), "")
	ctx.Async(func() {
		about, err := ec.About(context.Background())
		var info AboutInfo
		if err == nil {
			// round trip through JSON to reuse the struct tags
			var raw []byte
			if raw, err = json.Marshal(about); err == nil {
				err = json.Unmarshal(raw, &info)
			}
		}
		ctx.Dispatch(func(ctx app.Context) {
			a.loading = false
			if err != nil {
				a.error = fmt.Sprintf("Failed to load: %v", err)
				return
			}
			a.aboutInfo = info
		})
	})
}

// Render renders the about page
func (a *AboutPage) Render() app.UI {
	if a.loading {
		return app.Div().Class("about-page").Body(
			app.H2().Text("About docstudio"),
			app.Div().Class("loading").Body(app.Text("Loading...")),
		)
	}

	if a.error != "" {
		return app.Div().Class("about-page").Body(
			app.H2().Text("About docstudio"),
			app.Div().Class("error").Body(app.Text("Error: " + a.error)),
		)
	}

	return app.Div().Class("about-page").Body(
		app.H2().Text("About docstudio"),
		app.Div().Class("about-content").Body(
			app.Div().Class("about-section").Body(
				app.H3().Text("Application Information"),
				app.Div().Class("info-grid").Body(
					a.renderInfoItem("Version", a.aboutInfo.Version),
					a.renderInfoItem("Database", a.getDatabaseDisplay()),
					a.renderInfoItem("Renderer", a.getRendererDisplay()),
					a.renderInfoItem("Documents", fmt.Sprint(a.aboutInfo.Documents)),
					a.renderInfoItem("Open workspaces", fmt.Sprint(a.aboutInfo.Workspaces)),
				),
			),
			app.Div().Class("about-section").Body(
				app.H3().Text("Database Configuration"),
				app.Div().Class("config-details").Body(
					app.P().Body(
						app.Strong().Text("Database Type: "),
						app.Text(a.getDatabaseDisplay()),
					),
					app.P().Body(
						app.Strong().Text("Host: "),
						app.Text(a.aboutInfo.DatabaseHost),
					),
					app.P().Body(
						app.Strong().Text("Port: "),
						app.Text(a.aboutInfo.DatabasePort),
					),
					app.P().Body(
						app.Strong().Text("Database Name: "),
						app.Text(a.aboutInfo.DatabaseName),
					),
				),
			),
			app.Div().Class("about-section").Body(
				app.H3().Text("Rendering"),
				app.Div().Class("config-details").Body(
					app.P().Body(
						app.Strong().Text("Formats: "),
						app.Text(strings.Join(a.aboutInfo.Formats, ", ")),
					),
					app.P().Body(
						app.Strong().Text("Failed pages: "),
						app.Text(a.getFailurePolicyDisplay()),
					),
					app.P().Body(
						app.Strong().Text("Storage: "),
						app.Text(a.aboutInfo.Storage),
					),
				),
			),
			app.Div().Class("about-section").Body(
				app.H3().Text("About docstudio"),
				app.P().Text("docstudio renders documents page by page in the browser, built with Go and WebAssembly."),
				app.P().Text("Open PDFs or images, page through them while they render, export them as PDF or keep them in the collection."),
			),
		),
	)
}

// renderInfoItem creates an info item display
func (a *AboutPage) renderInfoItem(label, value string) app.UI {
	return app.Div().Class("info-item").Body(
		app.Div().Class("info-label").Body(app.Text(label)),
		app.Div().Class("info-value").Body(app.Text(value)),
	)
}

// getDatabaseDisplay returns a user-friendly database display name
func (a *AboutPage) getDatabaseDisplay() string {
	switch a.aboutInfo.DatabaseType {
	case "postgres":
		return "PostgreSQL"
	case "cockroachdb":
		return "CockroachDB"
	case "sqlite":
		return "SQLite"
	case "ephemeral":
		return "PostgreSQL (ephemeral)"
	default:
		return a.aboutInfo.DatabaseType
	}
}

// getRendererDisplay returns the renderer and its resolution
func (a *AboutPage) getRendererDisplay() string {
	name := a.aboutInfo.Renderer
	switch name {
	case "", "pdfium":
		name = "PDFium (WebAssembly)"
	case "fitz", "mupdf":
		name = "MuPDF"
	}
	if a.aboutInfo.RenderDPI > 0 {
		return fmt.Sprintf("%s at %d dpi", name, a.aboutInfo.RenderDPI)
	}
	return name
}

// getFailurePolicyDisplay explains what a failed page does
func (a *AboutPage) getFailurePolicyDisplay() string {
	if a.aboutInfo.FailurePolicy == "skip" {
		return "Skipped, rendering continues"
	}
	return "Rendering stops at the failed page"
}
