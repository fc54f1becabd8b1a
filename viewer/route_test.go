package viewer

import "testing"

func TestDecodeRoute(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"hash only", "#", "#"},
		{"staged", "#/staged/", StagedRoute},
		{"missing hash", "/staged/", StagedRoute},
		{"escaped name", "#/staged/my%20scan.pdf", "#/staged/my scan.pdf"},
		{"bad escape", "#/staged/100%", "#/staged/100%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeRoute(tt.in); got != tt.want {
				t.Errorf("DecodeRoute(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRouteKinds(t *testing.T) {
	for _, r := range []string{"", "#", "#/"} {
		if !IsHome(r) {
			t.Errorf("IsHome(%q) = false", r)
		}
	}
	if IsHome(StagedRoute) || !IsStaged(StagedRoute) || IsStaged("#/staged/a.pdf") {
		t.Error("staged route misclassified")
	}

	route := StagedFileRoute("my scan.pdf")
	if route != "#/staged/my%20scan.pdf" {
		t.Errorf("unexpected staged file route %q", route)
	}
	name, ok := ParseStagedFile(DecodeRoute(route))
	if !ok || name != "my scan.pdf" {
		t.Errorf("ParseStagedFile = %q, %v", name, ok)
	}
	if _, ok := ParseStagedFile(StagedRoute); ok {
		t.Error("the staged identity is not a single file")
	}

	id, ok := ParseDocument(DocumentRoute("01HZX"))
	if !ok || id != "01HZX" {
		t.Errorf("ParseDocument = %q, %v", id, ok)
	}
	if _, ok := ParseDocument(CollectionRoute); ok {
		t.Error("collection route is not a document")
	}
}

func TestErrorCodes(t *testing.T) {
	for _, c := range codes {
		wrapped := &EngineError{Op: "open", Err: c.err}
		if got := ErrorCode(wrapped); got != c.code {
			t.Errorf("ErrorCode(%v) = %q, want %q", c.err, got, c.code)
		}
		if ErrorForCode(c.code) != c.err {
			t.Errorf("ErrorForCode(%q) did not round trip", c.code)
		}
	}
	if ErrorCode(errBoom) != "internal" || ErrorForCode("internal") != nil {
		t.Error("unknown errors should map to internal")
	}
}
