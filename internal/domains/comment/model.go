package comment

import (
	"time"

	"blog-backend/internal/domains/post"
)

type Comment struct {
	ID      int64       `json:"id"`
	PostID  int64       `json:"post_id"`
	Author  post.Author `json:"author"`
	Text    string      `json:"text"`
	Created time.Time   `json:"created"`
}
