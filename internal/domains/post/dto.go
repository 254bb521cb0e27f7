package post

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ImageUpload is a submitted image. Size is the declared upload size; Data is
// empty when the transport refused to read an oversized file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// CreatePostRequest is the submitted new-post form. GroupMalformed is set when
// the group value was not a valid id, so it is reported with the other fields.
type CreatePostRequest struct {
	Text           string       `json:"text"`
	GroupID        *int64       `json:"group"`
	GroupMalformed bool         `json:"-"`
	Image          *ImageUpload `json:"image"`
}

func (r *CreatePostRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required.Error(ErrTextRequired.Error())),
	)
}

// UpdatePostRequest carries only the submitted fields. A nil Text leaves the
// text alone; GroupSet with a nil GroupID clears the group.
type UpdatePostRequest struct {
	Text           *string `json:"text"`
	GroupSet       bool    `json:"-"`
	GroupID        *int64  `json:"group"`
	GroupMalformed bool    `json:"-"`
}

func (r *UpdatePostRequest) Normalize() {
	if r.Text != nil {
		trimmed := strings.TrimSpace(*r.Text)
		r.Text = &trimmed
	}
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.When(r.Text != nil, validation.Required.Error(ErrTextRequired.Error()))),
	)
}

// ParseGroupID reads the group form field. Empty means "no group".
func ParseGroupID(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidGroup
	}
	return &id, nil
}
