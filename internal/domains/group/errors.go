package group

import (
	"errors"
	"net/http"
)

var (
	ErrGroupNotFound = errors.New("group not found")
	ErrDuplicateSlug = errors.New("group with this slug already exists")
	ErrEmptyImport   = errors.New("import file has no group rows")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateSlug):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyImport):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
