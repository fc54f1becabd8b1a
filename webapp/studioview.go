package webapp

import (
	"encoding/base64"
	"fmt"

	"github.com/drummonds/docstudio/viewer"
)

// studioView is the display state the controller writes into. It holds no
// browser objects, so it also works outside the browser.
type studioView struct {
	pageIndex int
	pageTotal int
	pageURL   string

	progress        int
	progressVisible bool
	pagination      viewer.Pagination

	listingTitle string
	listing      []viewer.Entry
	showFormats  bool

	notice     *viewer.Notice
	exportName string
	exportURL  string
}

var _ viewer.ViewSink = (*studioView)(nil)

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func (v *studioView) ShowPage(index, total int, page *viewer.Page) {
	v.pageIndex, v.pageTotal = index, total
	v.pageURL = dataURL(page.ContentType, page.Data)
	v.listing, v.listingTitle = nil, ""
}

func (v *studioView) ClearPage() {
	v.pageURL = ""
	v.exportName, v.exportURL = "", ""
}

func (v *studioView) SetProgress(percent int, visible bool) {
	v.progress, v.progressVisible = percent, visible
}

func (v *studioView) SetPagination(p viewer.Pagination) {
	v.pagination = p
}

func (v *studioView) ShowListing(title string, entries []viewer.Entry) {
	v.listingTitle, v.listing = title, entries
}

func (v *studioView) ShowFormatChooser(show bool) {
	v.showFormats = show
}

func (v *studioView) Notify(n viewer.Notice) {
	v.notice = &n
}

func (v *studioView) PresentExport(name string, pdf []byte) {
	v.exportName = name
	v.exportURL = dataURL("application/pdf", pdf)
}

// pageLabel is the "Page x of y" text, counting what has rendered so far
func (v *studioView) pageLabel() string {
	if !v.pagination.Visible {
		return ""
	}
	label := fmt.Sprintf("Page %d of %d", v.pagination.Current+1, v.pagination.Total)
	if v.pagination.Rendered < v.pagination.Total {
		label += fmt.Sprintf(" (%d rendered)", v.pagination.Rendered)
	}
	return label
}

// noticeText formats the last notice for display
func (v *studioView) noticeText() string {
	if v.notice == nil {
		return ""
	}
	if v.notice.Message != "" {
		return v.notice.Message
	}
	if v.notice.Err != nil {
		return v.notice.Err.Error()
	}
	return ""
}
