package webapp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestHandlerRoutes tests that all expected routes are registered
func TestHandlerRoutes(t *testing.T) {
	handler := Handler()

	tests := []struct {
		name string
		path string
	}{
		{name: "Studio page", path: "/"},
		{name: "Collection page", path: "/collection"},
		{name: "About page", path: "/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code == http.StatusNotFound {
				t.Errorf("Route %s returned 404 Not Found - route may not be registered", tt.path)
			}
			t.Logf("Route %s returned status %d", tt.path, rec.Code)
		})
	}
}

func TestPageFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "*webapp.StudioPage"},
		{"/collection", "*webapp.CollectionPage"},
		{"/about", "*webapp.AboutPage"},
		{"/browse", "*webapp.NotFoundPage"},
	}
	for _, tt := range tests {
		if got := fmt.Sprintf("%T", pageFor(tt.path)); got != tt.want {
			t.Errorf("pageFor(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
