package webapp

import (
	"testing"
)

// TestGetDatabaseDisplay tests the database type display conversion
func TestGetDatabaseDisplay(t *testing.T) {
	tests := []struct {
		name     string
		dbType   string
		expected string
	}{
		{name: "PostgreSQL", dbType: "postgres", expected: "PostgreSQL"},
		{name: "CockroachDB", dbType: "cockroachdb", expected: "CockroachDB"},
		{name: "SQLite", dbType: "sqlite", expected: "SQLite"},
		{name: "Unknown type", dbType: "mongodb", expected: "mongodb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &AboutPage{aboutInfo: AboutInfo{DatabaseType: tt.dbType}}
			if got := page.getDatabaseDisplay(); got != tt.expected {
				t.Errorf("getDatabaseDisplay() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetRendererDisplay(t *testing.T) {
	tests := []struct {
		name     string
		renderer string
		dpi      int
		expected string
	}{
		{name: "default", renderer: "", dpi: 0, expected: "PDFium (WebAssembly)"},
		{name: "pdfium with dpi", renderer: "pdfium", dpi: 96, expected: "PDFium (WebAssembly) at 96 dpi"},
		{name: "fitz", renderer: "fitz", dpi: 150, expected: "MuPDF at 150 dpi"},
		{name: "other", renderer: "fake", dpi: 72, expected: "fake at 72 dpi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &AboutPage{aboutInfo: AboutInfo{Renderer: tt.renderer, RenderDPI: tt.dpi}}
			if got := page.getRendererDisplay(); got != tt.expected {
				t.Errorf("getRendererDisplay() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetFailurePolicyDisplay(t *testing.T) {
	page := &AboutPage{aboutInfo: AboutInfo{FailurePolicy: "skip"}}
	if got := page.getFailurePolicyDisplay(); got != "Skipped, rendering continues" {
		t.Errorf("skip policy = %q", got)
	}
	page.aboutInfo.FailurePolicy = "abort"
	if got := page.getFailurePolicyDisplay(); got != "Rendering stops at the failed page" {
		t.Errorf("abort policy = %q", got)
	}
}

// TestAboutPageRenderStates tests that different states produce valid UI
func TestAboutPageRenderStates(t *testing.T) {
	t.Run("Loading state returns valid UI", func(t *testing.T) {
		page := &AboutPage{loading: true}
		if page.Render() == nil {
			t.Error("Loading state should return non-nil UI")
		}
	})

	t.Run("Error state returns valid UI", func(t *testing.T) {
		page := &AboutPage{error: "Network error"}
		if page.Render() == nil {
			t.Error("Error state should return non-nil UI")
		}
	})

	t.Run("Success state returns valid UI", func(t *testing.T) {
		page := &AboutPage{
			aboutInfo: AboutInfo{
				Version:      "v1.2.3",
				Renderer:     "pdfium",
				RenderDPI:    96,
				Formats:      []string{"pdf", "png", "jpeg"},
				DatabaseType: "postgres",
			},
		}
		if page.Render() == nil {
			t.Error("Success state should return non-nil UI")
		}
	})
}
