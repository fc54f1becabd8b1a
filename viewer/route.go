package viewer

import (
	"net/url"
	"strings"
)

const (
	// StagedRoute is the reserved route of whatever the user selected last
	StagedRoute = "#/staged/"
	// CollectionRoute lists the persisted collection
	CollectionRoute = "#/collection/"

	stagedPrefix   = "#/staged/"
	documentPrefix = "#/doc/"
)

// DecodeRoute turns a raw location fragment into a route key. Undecodable
// input is passed through unchanged.
func DecodeRoute(fragment string) string {
	if fragment != "" && !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		return fragment
	}
	return decoded
}

// IsStaged reports whether route is the staged identity
func IsStaged(route string) bool {
	return route == StagedRoute
}

// IsHome reports whether route denotes the landing page
func IsHome(route string) bool {
	switch route {
	case "", "#", "#/":
		return true
	}
	return false
}

// StagedFileRoute is the route of a single staged file
func StagedFileRoute(name string) string {
	return stagedPrefix + url.PathEscape(name)
}

// DocumentRoute is the addressed route of a collection document
func DocumentRoute(id string) string {
	return documentPrefix + id
}

// ParseStagedFile returns the file name of a single staged file route
func ParseStagedFile(route string) (string, bool) {
	rest, ok := strings.CutPrefix(route, stagedPrefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// ParseDocument returns the id of an addressed collection route
func ParseDocument(route string) (string, bool) {
	rest, ok := strings.CutPrefix(route, documentPrefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
