// Package client implements viewer.Engine over the HTTP API. It only uses
// net/http, so it works in the browser build as well as in command line
// tools.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/drummonds/docstudio/internal/wire"
	"github.com/drummonds/docstudio/viewer"
)

var _ viewer.Engine = (*EngineClient)(nil)

// EngineClient talks to the engine of one workspace
type EngineClient struct {
	BaseURL    string
	HTTPClient *http.Client

	mu        sync.Mutex
	workspace string
}

// NewEngineClient creates a client for the API at baseURL. workspace may be
// empty, Init then asks the server for a new one.
func NewEngineClient(baseURL, workspace string) *EngineClient {
	return &EngineClient{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		workspace: workspace,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Workspace is the id in use, known after Init
func (ec *EngineClient) Workspace() string {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.workspace
}

// Init creates or resumes the workspace
func (ec *EngineClient) Init(ctx context.Context) error {
	var response wire.WorkspaceResponse
	resp, err := ec.send(ctx, http.MethodPost, wire.PathInit, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode workspace response: %w", err)
	}
	ec.mu.Lock()
	ec.workspace = response.Workspace
	ec.mu.Unlock()
	return nil
}

// Stage uploads files as the new staged selection
func (ec *EngineClient) Stage(ctx context.Context, files []viewer.File) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, file := range files {
		part, err := writer.CreateFormFile(wire.FileField, file.Name)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("failed to copy file data: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	resp, err := ec.do(ctx, http.MethodPost, wire.PathStaged, body.Bytes(), writer.FormDataContentType())
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// Open resolves route on the server
func (ec *EngineClient) Open(ctx context.Context, route string) (viewer.OpenResult, error) {
	payload, err := json.Marshal(wire.OpenRequest{Route: route})
	if err != nil {
		return viewer.OpenResult{}, err
	}
	return ec.openResult(ctx, wire.PathOpen, payload)
}

// OnDocumentChanged reopens the current route on the server
func (ec *EngineClient) OnDocumentChanged(ctx context.Context) (viewer.OpenResult, error) {
	return ec.openResult(ctx, wire.PathChanged, nil)
}

func (ec *EngineClient) openResult(ctx context.Context, path string, body []byte) (viewer.OpenResult, error) {
	var result viewer.OpenResult
	resp, err := ec.do(ctx, http.MethodPost, path, body, "application/json")
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode open result: %w", err)
	}
	return result, nil
}

// Render fetches one page of document. A 204 answer is an empty page.
func (ec *EngineClient) Render(ctx context.Context, document string, index int) (*viewer.Page, error) {
	resp, err := ec.do(ctx, http.MethodGet, wire.PathPage+strconv.Itoa(index)+documentQuery(document), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", index, err)
	}
	return &viewer.Page{Index: index, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// AddToCollection persists the staged files and returns how many were added
func (ec *EngineClient) AddToCollection(ctx context.Context) (int, error) {
	var count wire.CountResponse
	resp, err := ec.do(ctx, http.MethodPost, wire.PathCollect, nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode count: %w", err)
	}
	return count.Count, nil
}

// ExportToPdf downloads document as a PDF
func (ec *EngineClient) ExportToPdf(ctx context.Context, document string) ([]byte, error) {
	resp, err := ec.do(ctx, http.MethodGet, wire.PathExport+documentQuery(document), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Collection lists the collection documents
func (ec *EngineClient) Collection(ctx context.Context) ([]wire.CollectionDocument, error) {
	var documents []wire.CollectionDocument
	resp, err := ec.do(ctx, http.MethodGet, wire.PathCollection, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&documents); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return documents, nil
}

// About fetches the server information
func (ec *EngineClient) About(ctx context.Context) (map[string]interface{}, error) {
	about := map[string]interface{}{}
	resp, err := ec.do(ctx, http.MethodGet, wire.PathAbout, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&about); err != nil {
		return nil, fmt.Errorf("failed to decode about: %w", err)
	}
	return about, nil
}

func documentQuery(document string) string {
	return "?" + wire.DocumentParam + "=" + url.QueryEscape(document)
}

// do sends a workspace request. When the server no longer knows the
// workspace (it was swept while idle) the workspace is initialized again
// and the request is sent once more.
func (ec *EngineClient) do(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	resp, err := ec.send(ctx, method, path, body, contentType)
	if !errors.Is(err, viewer.ErrWorkspaceNotFound) || ec.Workspace() == "" {
		return resp, err
	}
	if initErr := ec.Init(ctx); initErr != nil {
		return nil, errors.Join(err, initErr)
	}
	return ec.send(ctx, method, path, body, contentType)
}

// send sends the request and turns error answers into errors
func (ec *EngineClient) send(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, ec.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ws := ec.Workspace(); ws != "" {
		req.Header.Set(wire.WorkspaceHeader, ws)
	}

	resp, err := ec.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeError(path, resp)
	}
	return resp, nil
}

// APIError is an error answer of the server
type APIError struct {
	Path    string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Path, e.Status, e.Message)
}

// Unwrap gives errors.Is access to the sentinel named by the error code
func (e *APIError) Unwrap() error {
	return viewer.ErrorForCode(e.Code)
}

func decodeError(path string, resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Path: path, Status: resp.StatusCode, Message: strings.TrimSpace(string(bodyBytes))}
	var response wire.ErrorResponse
	if json.Unmarshal(bodyBytes, &response) == nil && response.Error != "" {
		apiErr.Code = response.Error
		apiErr.Message = response.Message
	}
	return apiErr
}
