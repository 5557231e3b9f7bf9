package httpx

import (
	"net/http"

	"github.com/sundayezeilo/nanolink/internal/errx"
)

type kindMapping struct {
	status int
	code   string
}

var internalMapping = kindMapping{http.StatusInternalServerError, "internal_error"}

var kindMappings = map[errx.Kind]kindMapping{
	errx.NotFound:     {http.StatusNotFound, "not_found"},
	errx.Conflict:     {http.StatusConflict, "conflict"},
	errx.Invalid:      {http.StatusBadRequest, "invalid_input"},
	errx.Unauthorized: {http.StatusUnauthorized, "unauthorized"},
	errx.Forbidden:    {http.StatusForbidden, "forbidden"},
	errx.Unavailable:  {http.StatusServiceUnavailable, "unavailable"},
	errx.Internal:     internalMapping,
}

func mappingFor(kind errx.Kind) kindMapping {
	if m, ok := kindMappings[kind]; ok {
		return m
	}
	return internalMapping
}

// ErrorKindToStatus maps errx.Kind to HTTP status codes.
// Unknown kinds map to 500.
func ErrorKindToStatus(kind errx.Kind) int {
	return mappingFor(kind).status
}

// ErrorKindToCode maps errx.Kind to the error code used in JSON responses.
func ErrorKindToCode(kind errx.Kind) string {
	return mappingFor(kind).code
}
