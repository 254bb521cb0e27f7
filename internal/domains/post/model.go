package post

import (
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/group"
)

type Author struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type Image struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type Post struct {
	ID      int64      `json:"id"`
	Text    string     `json:"text"`
	PubDate time.Time  `json:"pub_date"`
	Author  Author     `json:"author"`
	GroupID *int64     `json:"-"`
	Group   *group.Ref `json:"group,omitempty"`
	Image   *Image     `json:"image,omitempty"`
}

// ImagePrefix is the object-storage folder holding the original and its
// derivatives.
func (p *Post) ImagePrefix() string {
	if p.Image == nil {
		return ""
	}
	return ImagePrefixOf(p.Image.Key)
}
