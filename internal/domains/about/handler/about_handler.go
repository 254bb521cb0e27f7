package handler

import (
	"context"

	"blog-backend/internal/shared/web"
)

const (
	viewAuthor = "about/author"
	viewTech   = "about/tech"
)

type page struct {
	Title string   `json:"title"`
	Items []string `json:"items,omitempty"`
}

// AboutHandler serves the static about pages.
type AboutHandler struct {
	appName string
	version string
}

func NewAboutHandler(appName, version string) *AboutHandler {
	return &AboutHandler{appName: appName, version: version}
}

func (h *AboutHandler) Author(_ context.Context, _ *web.Request) web.Response {
	return web.Render(viewAuthor, page{Title: "About the author"})
}

func (h *AboutHandler) Tech(_ context.Context, _ *web.Request) web.Response {
	return web.Render(viewTech, page{
		Title: h.appName + " " + h.version,
		Items: []string{"Go", "gin", "PostgreSQL", "Redis", "MinIO", "asynq"},
	})
}
