package engine

import (
	"bytes"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/drummonds/docstudio/internal/pdftest"
	"github.com/drummonds/docstudio/internal/wire"
	"github.com/drummonds/docstudio/viewer"
	"github.com/labstack/echo/v4"
)

func setupTestServer(t *testing.T) (*echo.Echo, *ServerHandler) {
	t.Helper()
	eng, _ := newTestEngine(t)
	e := echo.New()
	serverHandler := &ServerHandler{
		DB:           eng.DB,
		Echo:         e,
		ServerConfig: eng.Config,
		Engine:       eng,
	}
	serverHandler.RegisterRoutes()
	return e, serverHandler
}

func doRequest(e *echo.Echo, method, path, workspace string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if workspace != "" {
		req.Header.Set(wire.WorkspaceHeader, workspace)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func multipartFiles(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := writer.CreateFormFile(wire.FileField, name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(data)
	}
	writer.Close()
	return &body, writer.FormDataContentType()
}

func pagePath(index, document string) string {
	return wire.PathPage + index + "?" + wire.DocumentParam + "=" + url.QueryEscape(document)
}

func openResult(t *testing.T, rec *httptest.ResponseRecorder) viewer.OpenResult {
	t.Helper()
	var opened viewer.OpenResult
	if err := json.Unmarshal(rec.Body.Bytes(), &opened); err != nil {
		t.Fatalf("Failed to parse open result: %v\nBody: %s", err, rec.Body.String())
	}
	return opened
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var response wire.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse error: %v\nBody: %s", err, rec.Body.String())
	}
	return response.Error
}

func TestWorkspaceAPI(t *testing.T) {
	e, _ := setupTestServer(t)

	rec := doRequest(e, http.MethodPost, wire.PathInit, "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created wire.WorkspaceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.Workspace == "" {
		t.Fatalf("Expected a workspace id, got %s (%v)", rec.Body.String(), err)
	}
	ws := created.Workspace

	t.Run("Unknown workspace", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, wire.PathPage+"0", "01ARZ3NDEKTSV4RRFFQ69G5FAV", nil, "")
		if rec.Code != http.StatusGone || errorCode(t, rec) != "workspace_not_found" {
			t.Errorf("Expected 410 workspace_not_found, got %d %s", rec.Code, rec.Body.String())
		}
		rec = doRequest(e, http.MethodPost, wire.PathInit, "bogus", nil, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for a bad id, got %d", rec.Code)
		}
	})

	t.Run("No active document", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, wire.PathExport, ws, nil, "")
		if rec.Code != http.StatusConflict || errorCode(t, rec) != "no_active_document" {
			t.Errorf("Expected 409 no_active_document, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("Stage, open and render", func(t *testing.T) {
		body, contentType := multipartFiles(t, map[string][]byte{"scan.pdf": pdftest.Build(pdftest.Mark, pdftest.Mark)})
		rec := doRequest(e, http.MethodPost, wire.PathStaged, ws, body, contentType)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("Expected status 204, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(e, http.MethodPost, wire.PathOpen, ws, bytes.NewBufferString(`{"route":"#/staged/"}`), echo.MIMEApplicationJSON)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		opened := openResult(t, rec)
		if !opened.Active || opened.Document == "" || opened.PageCount != 2 || opened.Name != "scan.pdf" {
			t.Errorf("Unexpected open result %+v", opened)
		}

		rec = doRequest(e, http.MethodGet, pagePath("1", opened.Document), ws, nil, "")
		if rec.Code != http.StatusOK || rec.Header().Get(echo.HeaderContentType) != "image/png" {
			t.Errorf("Expected a png page, got %d %s", rec.Code, rec.Header().Get(echo.HeaderContentType))
		}
		rec = doRequest(e, http.MethodGet, pagePath("2", opened.Document), ws, nil, "")
		if rec.Code != http.StatusRequestedRangeNotSatisfiable || errorCode(t, rec) != "page_out_of_range" {
			t.Errorf("Expected 416 page_out_of_range, got %d %s", rec.Code, rec.Body.String())
		}
		rec = doRequest(e, http.MethodGet, pagePath("first", opened.Document), ws, nil, "")
		if rec.Code != http.StatusRequestedRangeNotSatisfiable {
			t.Errorf("Expected 416 for a non numeric index, got %d", rec.Code)
		}

		rec = doRequest(e, http.MethodPost, wire.PathChanged, ws, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200 on change, got %d: %s", rec.Code, rec.Body.String())
		}
		changed := openResult(t, rec)

		rec = doRequest(e, http.MethodGet, pagePath("0", opened.Document), ws, nil, "")
		if rec.Code != http.StatusConflict || errorCode(t, rec) != "stale_document" {
			t.Errorf("Expected 409 stale_document for the replaced document, got %d %s", rec.Code, rec.Body.String())
		}

		rec = doRequest(e, http.MethodGet, wire.PathExport+"?"+wire.DocumentParam+"="+url.QueryEscape(changed.Document), ws, nil, "")
		if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
			t.Errorf("Expected a PDF export, got %d", rec.Code)
		}
		if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "scan.pdf") {
			t.Errorf("Unexpected content disposition %q", got)
		}
	})

	t.Run("Blank page", func(t *testing.T) {
		body, contentType := multipartFiles(t, map[string][]byte{"blank.png": pdftest.PNG(8, 8, color.White)})
		doRequest(e, http.MethodPost, wire.PathStaged, ws, body, contentType)
		opened := openResult(t, doRequest(e, http.MethodPost, wire.PathOpen, ws, bytes.NewBufferString(`{"route":"#/staged/"}`), echo.MIMEApplicationJSON))
		rec := doRequest(e, http.MethodGet, pagePath("0", opened.Document), ws, nil, "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("Expected 204 for a blank page, got %d", rec.Code)
		}
	})

	t.Run("Collection", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, wire.PathCollect, ws, nil, "")
		var count wire.CountResponse
		if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &count) != nil || count.Count != 1 {
			t.Fatalf("Expected 1 added, got %d %s", rec.Code, rec.Body.String())
		}
		rec = doRequest(e, http.MethodGet, wire.PathCollection+"?limit=5", "", nil, "")
		var documents []wire.CollectionDocument
		if err := json.Unmarshal(rec.Body.Bytes(), &documents); err != nil || len(documents) != 1 {
			t.Fatalf("Expected 1 document, got %s (%v)", rec.Body.String(), err)
		}
		if documents[0].Name != "blank.png" || documents[0].Route != viewer.DocumentRoute(documents[0].ID) {
			t.Errorf("Unexpected document %+v", documents[0])
		}
	})

	t.Run("About", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, wire.PathAbout, "", nil, "")
		var about map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &about); err != nil {
			t.Fatalf("Failed to parse about: %v", err)
		}
		if about["renderer"] != "fake" || about["workspaces"] != float64(1) || about["documents"] != float64(1) {
			t.Errorf("Unexpected about info %+v", about)
		}
	})
}
