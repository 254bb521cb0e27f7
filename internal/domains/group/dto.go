package group

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTitleLength = 200
	MaxSlugLength  = 50
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CreateGroupRequest creates a group. An empty Slug is derived from Title.
type CreateGroupRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (r CreateGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(1, MaxTitleLength).Error("title must be at most 200 characters"),
		),
		validation.Field(&r.Slug,
			validation.Required.Error("slug is required"),
			validation.Length(1, MaxSlugLength).Error("slug must be at most 50 characters"),
			validation.Match(slugPattern).Error("slug may contain letters, numbers, underscores or hyphens"),
		),
	)
}

type ImportRowError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Error string `json:"error"`
}

type ImportResult struct {
	Success   bool             `json:"success"`
	TotalRows int              `json:"total_rows"`
	Created   []Group          `json:"created,omitempty"`
	Errors    []ImportRowError `json:"errors,omitempty"`
}
