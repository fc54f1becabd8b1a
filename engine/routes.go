package engine

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/internal/build"
	"github.com/drummonds/docstudio/internal/wire"
	"github.com/drummonds/docstudio/viewer"
	"github.com/labstack/echo/v4"
)

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	DB           database.Repository
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Engine       *Engine
}

// RegisterRoutes adds the API to the echo instance
func (serverHandler *ServerHandler) RegisterRoutes() {
	e := serverHandler.Echo
	e.POST(wire.PathInit, serverHandler.InitWorkspace)
	e.POST(wire.PathStaged, serverHandler.StageFiles)
	e.POST(wire.PathOpen, serverHandler.OpenRoute)
	e.POST(wire.PathChanged, serverHandler.DocumentChanged)
	e.GET(wire.PathPage+":index", serverHandler.RenderPage)
	e.POST(wire.PathCollect, serverHandler.AddToCollection)
	e.GET(wire.PathExport, serverHandler.ExportPdf)
	e.GET(wire.PathCollection, serverHandler.GetCollection)
	e.GET(wire.PathAbout, serverHandler.GetAboutInfo)
}

// apiError logs err and answers with its mapped status
func apiError(c echo.Context, op string, err error) error {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		Logger.Error("API call failed", "op", op, "error", err)
	} else {
		Logger.Debug("API call rejected", "op", op, "status", status, "error", err)
	}
	return c.JSON(status, errorBody(err))
}

// workspace resolves the X-Workspace-ID header
func (serverHandler *ServerHandler) workspace(c echo.Context) (*Workspace, error) {
	id := c.Request().Header.Get(wire.WorkspaceHeader)
	if id == "" {
		return nil, fmt.Errorf("missing %s header: %w", wire.WorkspaceHeader, viewer.ErrWorkspaceNotFound)
	}
	return serverHandler.Engine.Workspace(id)
}

// InitWorkspace creates (or resumes) the caller's workspace
// @Summary Initialize a workspace
// @Description Creates the workspace named by the X-Workspace-ID header, or a new one when the header is absent
// @Tags Workspace
// @Produce json
// @Success 200 {object} wire.WorkspaceResponse "Workspace id"
// @Failure 400 {object} map[string]interface{} "Invalid workspace id"
// @Router /workspace/init [post]
func (serverHandler *ServerHandler) InitWorkspace(c echo.Context) error {
	w, err := serverHandler.Engine.InitWorkspace(c.Request().Header.Get(wire.WorkspaceHeader))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_workspace",
			"message": err.Error(),
		})
	}
	if err := w.Init(c.Request().Context()); err != nil {
		return apiError(c, "init", err)
	}
	return c.JSON(http.StatusOK, wire.WorkspaceResponse{Workspace: w.ID})
}

// StageFiles replaces the staged selection with the uploaded files
// @Summary Stage files
// @Description Upload the files of the current selection, replacing any earlier selection
// @Tags Workspace
// @Accept multipart/form-data
// @Param file formData file true "Selected file, repeatable"
// @Success 204 "Staged"
// @Failure 409 {object} map[string]interface{} "No files in the request"
// @Router /workspace/staged [post]
func (serverHandler *ServerHandler) StageFiles(c echo.Context) error {
	w, err := serverHandler.workspace(c)
	if err != nil {
		return apiError(c, "stage", err)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "bad_request",
			"message": err.Error(),
		})
	}
	var files []viewer.File
	for _, fileHeader := range form.File[wire.FileField] {
		file, err := fileHeader.Open()
		if err != nil {
			return apiError(c, "stage", err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return apiError(c, "stage", err)
		}
		files = append(files, viewer.File{Name: fileHeader.Filename, Data: data})
	}
	if err := w.Stage(c.Request().Context(), files); err != nil {
		return apiError(c, "stage", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// OpenRoute resolves a route in the caller's workspace
// @Summary Open a route
// @Description Resolve a route key to an active document or a listing
// @Tags Workspace
// @Accept json
// @Produce json
// @Param route body wire.OpenRequest true "Route key"
// @Success 200 {object} viewer.OpenResult "Open result"
// @Failure 404 {object} map[string]interface{} "Document not found"
// @Failure 415 {object} map[string]interface{} "Unknown format"
// @Router /workspace/open [post]
func (serverHandler *ServerHandler) OpenRoute(c echo.Context) error {
	w, err := serverHandler.workspace(c)
	if err != nil {
		return apiError(c, "open", err)
	}
	var request wire.OpenRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "bad_request",
			"message": err.Error(),
		})
	}
	result, err := w.Open(c.Request().Context(), request.Route)
	if err != nil {
		return apiError(c, "open", err)
	}
	return c.JSON(http.StatusOK, result)
}

// DocumentChanged reopens the current route after the selection changed
// @Summary Notify a document change
// @Tags Workspace
// @Produce json
// @Success 200 {object} viewer.OpenResult "Open result"
// @Router /workspace/changed [post]
func (serverHandler *ServerHandler) DocumentChanged(c echo.Context) error {
	w, err := serverHandler.workspace(c)
	if err != nil {
		return apiError(c, "changed", err)
	}
	result, err := w.OnDocumentChanged(c.Request().Context())
	if err != nil {
		return apiError(c, "changed", err)
	}
	return c.JSON(http.StatusOK, result)
}

// RenderPage rasterizes one page of the active document
// @Summary Render a page
// @Tags Workspace
// @Produce png
// @Param index path int true "Zero based page index"
// @Param document query string true "Document token of the open result"
// @Success 200 {file} binary "PNG page"
// @Success 204 "Blank page"
// @Failure 409 {object} map[string]interface{} "No active document, or it was replaced"
// @Failure 416 {object} map[string]interface{} "Page out of range"
// @Router /workspace/page/{index} [get]
func (serverHandler *ServerHandler) RenderPage(c echo.Context) error {
	w, err := serverHandler.workspace(c)
	if err != nil {
		return apiError(c, "render", err)
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return apiError(c, "render", fmt.Errorf("page %q: %w", c.Param("index"), viewer.ErrPageOutOfRange))
	}
	page, err := w.Render(c.Request().Context(), c.QueryParam(wire.DocumentParam), index)
	if err != nil {
		return apiError(c, "render", err)
	}
	if page == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Blob(http.StatusOK, page.ContentType, page.Data)
}

// AddToCollection persists the staged files
// @Summary Add staged files to the collection
// @Tags Workspace
// @Produce json
// @Success 200 {object} wire.CountResponse "Number of files added"
// @Failure 409 {object} map[string]interface{} "Nothing staged"
// @Router /workspace/collection [post]
func (serverHandler *ServerHandler) AddToCollection(c echo.Context) error {
	w, err := serverHandler.workspace(c)
	if err != nil {
		return apiError(c, "collect", err)
	}
	count, err := w.AddToCollection(c.Request().Context())
	if err != nil {
		return apiError(c, "collect", err)
	}
	return c.JSON(http.StatusOK, wire.CountResponse{Count: count})
}

// ExportPdf returns the active document as a PDF
// @Summary Export to PDF
// @Tags Workspace
// @Produce application/pdf
// @Param document query string true "Document token of the open result"
// @Success 200 {file} binary "PDF"
// @Failure 409 {object} map[string]interface{} "No active document, or it was replaced"
// @Router /workspace/export [get]
func (serverHandler *ServerHandler) ExportPdf(c echo.Context) error {
	w, err := serverHandler.workspace(c)
	if err != nil {
		return apiError(c, "export", err)
	}
	name, pdf, err := w.export(c.QueryParam(wire.DocumentParam))
	if err != nil {
		return apiError(c, "export", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, FormatPDF.ContentType, pdf)
}

// GetCollection lists the collection documents, newest first
// @Summary List the collection
// @Tags Documents
// @Produce json
// @Param limit query int false "Maximum number of documents"
// @Success 200 {array} wire.CollectionDocument "Documents"
// @Router /collection [get]
func (serverHandler *ServerHandler) GetCollection(c echo.Context) error {
	var documents []database.Document
	var err error
	if limit, convErr := strconv.Atoi(c.QueryParam("limit")); convErr == nil && limit > 0 {
		documents, err = database.FetchNewestDocuments(limit, serverHandler.DB)
	} else {
		documents, err = serverHandler.DB.GetAllDocuments()
	}
	if err != nil {
		return apiError(c, "collection", err)
	}
	response := make([]wire.CollectionDocument, 0, len(documents))
	for _, document := range documents {
		response = append(response, wire.CollectionDocument{
			ID:          document.ULID.String(),
			Name:        document.Name,
			ContentType: document.ContentType,
			Size:        document.Size,
			PageCount:   document.PageCount,
			Route:       viewer.DocumentRoute(document.ULID.String()),
			AddedTime:   document.AddedTime.Format("2006-01-02 15:04"),
			Preview:     document.Preview,
		})
	}
	return c.JSON(http.StatusOK, response)
}

// GetAboutInfo returns information about the application configuration
// @Summary Get application information
// @Description Retrieve information about the application configuration, version, and database
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Application information"
// @Router /about [get]
func (serverHandler *ServerHandler) GetAboutInfo(c echo.Context) error {
	documents, err := serverHandler.DB.CountDocuments()
	if err != nil {
		Logger.Warn("Unable to count documents", "error", err)
	}
	aboutInfo := map[string]interface{}{
		"version":       build.Version,
		"renderer":      serverHandler.ServerConfig.Renderer,
		"renderDPI":     serverHandler.ServerConfig.RenderDPI,
		"formats":       formatKinds(),
		"storage":       serverHandler.ServerConfig.StorageURL,
		"databaseType":  serverHandler.ServerConfig.DatabaseType,
		"databaseHost":  serverHandler.ServerConfig.DatabaseHost,
		"databasePort":  serverHandler.ServerConfig.DatabasePort,
		"databaseName":  serverHandler.ServerConfig.DatabaseDbname,
		"documents":     documents,
		"workspaces":    serverHandler.Engine.WorkspaceCount(),
		"failurePolicy": serverHandler.ServerConfig.RenderFailurePolicy,
	}
	return c.JSON(http.StatusOK, aboutInfo)
}

// NotFound answers unknown API paths with the usual error body
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errorBody(errors.New("no such endpoint: "+c.Request().URL.Path)))
}
