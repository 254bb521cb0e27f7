package follow

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge: UserID follows AuthorID.
type Follow struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
