package post

import (
	"errors"
	"net/http"
	"path"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("only the author can edit this post")

	ErrTextRequired = errors.New("this field is required")
	ErrInvalidGroup = errors.New("select a valid choice")
	ErrInvalidImage = errors.New("not an image or corrupted")
)

// ToHTTPStatus maps post errors to statuses. A non-author edit is reported
// as 404 so that post ownership is not disclosed.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrNotPostAuthor):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidGroup), errors.Is(err, ErrInvalidImage), errors.Is(err, ErrTextRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ImagePrefixOf returns the folder of an image key, with a trailing slash.
func ImagePrefixOf(key string) string {
	return path.Dir(key) + "/"
}
