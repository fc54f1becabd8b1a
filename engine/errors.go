package engine

import (
	"errors"
	"net/http"

	"github.com/drummonds/docstudio/viewer"
)

// HTTPStatus maps an engine error onto the status code the API returns for it
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, viewer.ErrNoActiveDocument), errors.Is(err, viewer.ErrNothingStaged),
		errors.Is(err, viewer.ErrStaleDocument):
		return http.StatusConflict
	case errors.Is(err, viewer.ErrPageOutOfRange):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.Is(err, viewer.ErrUnknownFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, viewer.ErrWorkspaceNotFound):
		return http.StatusGone
	case errors.Is(err, viewer.ErrDocumentNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// errorBody is the JSON shape of every API error
func errorBody(err error) map[string]interface{} {
	return map[string]interface{}{
		"error":   viewer.ErrorCode(err),
		"message": err.Error(),
	}
}
