package webapp

import (
	"context"
	"fmt"

	"github.com/drummonds/docstudio/client"
	"github.com/drummonds/docstudio/internal/wire"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// CollectionPage lists the documents added to the collection
type CollectionPage struct {
	app.Compo
	documents []wire.CollectionDocument
	loading   bool
	error     string
}

// OnMount is called when the component is mounted
func (c *CollectionPage) OnMount(ctx app.Context) {
	c.loading = true
	ec := client.NewEngineClient(GetAPIBaseURL(), "")
	ctx.Async(func() {
		documents, err := ec.Collection(context.Background())
		ctx.Dispatch(func(ctx app.Context) {
			c.loading = false
			if err != nil {
				c.error = err.Error()
				return
			}
			c.documents = documents
		})
	})
}

// Render renders the collection page
func (c *CollectionPage) Render() app.UI {
	if c.loading {
		return app.Div().Class("collection-page").Body(
			app.H2().Text("Collection"),
			app.Div().Class("loading").Body(app.Text("Loading...")),
		)
	}
	if c.error != "" {
		return app.Div().Class("collection-page").Body(
			app.H2().Text("Collection"),
			app.Div().Class("error").Body(app.Text("Error: " + c.error)),
		)
	}
	return app.Div().Class("collection-page").Body(
		app.H2().Text(fmt.Sprintf("Collection (%d)", len(c.documents))),
		app.Table().Class("collection-table").Body(
			app.THead().Body(app.Tr().Body(
				app.Th(),
				app.Th().Text("Name"),
				app.Th().Text("Type"),
				app.Th().Text("Pages"),
				app.Th().Text("Size"),
				app.Th().Text("Added"),
			)),
			app.TBody().Body(
				app.Range(c.documents).Slice(func(i int) app.UI {
					doc := c.documents[i]
					return app.Tr().Body(
						app.Td().Body(previewImage(doc.Preview, doc.Name)),
						app.Td().Body(app.A().Href(studioLink(doc.Route)).Text(doc.Name)),
						app.Td().Text(doc.ContentType),
						app.Td().Text(fmt.Sprint(doc.PageCount)),
						app.Td().Text(formatSize(doc.Size)),
						app.Td().Text(doc.AddedTime),
					)
				}),
			),
		),
	)
}

// studioLink opens a route in the studio page
func studioLink(route string) string {
	return "/" + route
}

// formatSize renders a byte count for people
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}
