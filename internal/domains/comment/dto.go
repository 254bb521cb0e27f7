package comment

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateCommentRequest struct {
	Text string `json:"text"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required.Error(ErrTextRequired.Error())),
	)
}
