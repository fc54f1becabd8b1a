package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/drummonds/docstudio/config"
	"github.com/drummonds/docstudio/database"
	"github.com/drummonds/docstudio/engine"
	"github.com/drummonds/docstudio/engine/pdfrenderer"
)

// imagesOnly refuses PDFs so tests without the pdfium runtime can still run
type imagesOnly struct{}

func (imagesOnly) Open(data []byte) (pdfrenderer.Document, error) {
	return nil, errors.New("pdf rendering disabled")
}

func (imagesOnly) Close() error { return nil }

// setupTestServer builds the full server on sqlite and an in memory bucket
func setupTestServer(t *testing.T, renderer pdfrenderer.Renderer) *httptest.Server {
	t.Helper()
	injectGlobals(slog.New(slog.DiscardHandler))

	serverConfig := config.ServerConfig{
		DatabaseType:   "sqlite",
		DatabaseDbname: ":memory:",
		StorageURL:     "mem://",
		Renderer:       "pdfium",
		RenderDPI:      72,
		RenderWidth:    400,
		MaxUploadMB:    8,
		FrontEndConfig: config.FrontEndConfig{RenderFailurePolicy: "abort"},
	}
	db, err := database.NewRepository(serverConfig)
	if err != nil {
		t.Fatalf("Failed to set up sqlite repository: %v", err)
	}
	storage, err := engine.OpenStorage(context.Background(), serverConfig.StorageURL)
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	docEngine := engine.New(serverConfig, db, storage, renderer)

	e, _ := newServer(serverConfig, db, docEngine)
	server := httptest.NewServer(e)
	t.Cleanup(func() {
		server.Close()
		docEngine.Close()
		db.Close()
	})
	return server
}

func TestServerRoutes(t *testing.T) {
	server := setupTestServer(t, imagesOnly{})

	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"config script", "/config.js", http.StatusOK, "application/javascript", "window.docstudioConfig"},
		{"stylesheet", "/webapp/webapp.css", http.StatusOK, "text/css", ".studio-page"},
		{"about api", "/api/about", http.StatusOK, "application/json", `"renderer":"pdfium"`},
		{"collection api", "/api/collection", http.StatusOK, "application/json", "["},
		{"unknown api", "/api/nothing/here", http.StatusNotFound, "application/json", `"error":"internal"`},
		{"studio page", "/", http.StatusOK, "text/html", "docstudio"},
		{"about page", "/about", http.StatusOK, "text/html", "docstudio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s failed: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
			}
			if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("GET %s Content-Type = %q, want %q", tt.path, ct, tt.contentType)
			}
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("Failed to read body: %v", err)
			}
			body := string(data)
			if !strings.Contains(body, tt.contains) {
				t.Errorf("GET %s body does not contain %q: %.200s", tt.path, tt.contains, body)
			}
		})
	}
}

func TestCORSAllowsWorkspaceHeader(t *testing.T) {
	server := setupTestServer(t, imagesOnly{})

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/workspace/open", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Workspace-ID")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Preflight failed: %v", err)
	}
	defer resp.Body.Close()

	allowed := resp.Header.Get("Access-Control-Allow-Headers")
	if !strings.Contains(strings.ToLower(allowed), "x-workspace-id") {
		t.Errorf("Expected the workspace header to be allowed, got %q", allowed)
	}
}

func TestIsAddressInUse(t *testing.T) {
	if isAddressInUse(nil) {
		t.Error("nil is not an address error")
	}
	if !isAddressInUse(errors.New("listen tcp :8000: bind: address already in use")) {
		t.Error("Expected address in use to be detected")
	}
	if isAddressInUse(errors.New("permission denied")) {
		t.Error("permission denied is not address in use")
	}
}

// getBrowser finds an available browser for testing
func getBrowser() (string, error) {
	browsers := []string{"chromium", "chromium-browser", "google-chrome", "chrome"}
	for _, browser := range browsers {
		if path, err := exec.LookPath(browser); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no suitable browser found")
}

// TestFrontendRendering loads the about page in a headless browser
func TestFrontendRendering(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	browserPath, err := getBrowser()
	if err != nil {
		t.Skip("No Chrome or Chromium found, skipping browser test")
	}
	if _, err := os.Stat(filepath.Join("web", "app.wasm")); err != nil {
		t.Skip("web/app.wasm has not been built, skipping browser test")
	}
	t.Logf("Using browser: %s", browserPath)

	server := setupTestServer(t, imagesOnly{})

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(browserPath),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pageTitle, aboutText string
	err = chromedp.Run(ctx,
		chromedp.Navigate(server.URL + "/about"),
		chromedp.WaitVisible(".info-grid", chromedp.ByQuery),
		chromedp.Title(&pageTitle),
		chromedp.Text(".about-page", &aboutText, chromedp.ByQuery),
	)
	if err != nil {
		t.Fatalf("Failed to load page: %v", err)
	}

	if pageTitle == "" {
		t.Error("Page title is empty")
	}
	if !strings.Contains(aboutText, "SQLite") {
		t.Errorf("Expected the about page to show the database, got %q", aboutText)
	}
}

func TestConfigScript(t *testing.T) {
	js := config.FrontEndConfig{ServerAPIURL: "http://api:8000", RenderFailurePolicy: "skip"}.ConfigJS()
	start := strings.Index(js, "{")
	end := strings.LastIndex(js, "}")
	if start < 0 || end < start {
		t.Fatalf("No object literal in %q", js)
	}
	// the literal uses bare keys, quote them to read it back
	literal := strings.NewReplacer("apiURL:", `"apiURL":`, "renderFailurePolicy:", `"renderFailurePolicy":`).Replace(js[start : end+1])
	var got map[string]string
	if err := json.Unmarshal([]byte(literal), &got); err != nil {
		t.Fatalf("Unable to parse %q: %v", literal, err)
	}
	if got["apiURL"] != "http://api:8000" || got["renderFailurePolicy"] != "skip" {
		t.Errorf("Unexpected config %v", got)
	}
}
