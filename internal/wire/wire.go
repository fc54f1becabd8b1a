// Package wire holds the request and response shapes shared by the HTTP API
// and its clients.
package wire

import "github.com/drummonds/docstudio/viewer"

// WorkspaceHeader carries the workspace id on every workspace request
const WorkspaceHeader = "X-Workspace-ID"

// API paths, relative to the server API URL
const (
	PathInit       = "/api/workspace/init"
	PathStaged     = "/api/workspace/staged"
	PathOpen       = "/api/workspace/open"
	PathChanged    = "/api/workspace/changed"
	PathPage       = "/api/workspace/page/"
	PathCollect    = "/api/workspace/collection"
	PathExport     = "/api/workspace/export"
	PathCollection = "/api/collection"
	PathAbout      = "/api/about"
)

// FileField is the multipart field of staged uploads
const FileField = "file"

// DocumentParam is the query parameter naming the open document on page and
// export requests
const DocumentParam = "document"

type WorkspaceResponse struct {
	Workspace string `json:"workspace"`
}

type OpenRequest struct {
	Route string `json:"route"`
}

type OpenResponse = viewer.OpenResult

type CountResponse struct {
	Count int `json:"count"`
}

// ErrorResponse is the body of every non 2xx answer
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CollectionDocument is one row of the collection listing
type CollectionDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	PageCount   int    `json:"pageCount"`
	Route       string `json:"route"`
	AddedTime   string `json:"addedTime"`
	Preview     []byte `json:"preview,omitempty"`
}
