package group

import "time"

type Group struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ref is the compact form embedded in posts.
type Ref struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (g *Group) Ref() Ref {
	return Ref{ID: g.ID, Title: g.Title, Slug: g.Slug}
}
