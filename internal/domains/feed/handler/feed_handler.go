package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	commentHandler "blog-backend/internal/domains/comment/handler"
	"blog-backend/internal/domains/feed"
	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/web"
)

const (
	viewIndex   = "posts/index"
	viewGroup   = "posts/group_list"
	viewProfile = "posts/profile"
	viewFollow  = "posts/follow"
	viewPost    = "posts/post"
)

type FeedHandler struct {
	service feed.Service
}

func NewFeedHandler(service feed.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// Index handles GET /.
func (h *FeedHandler) Index(ctx context.Context, req *web.Request) web.Response {
	view, err := h.service.Index(ctx, req.Query.Get("page"))
	if err != nil {
		return handleError(err)
	}
	return web.Render(viewIndex, view)
}

// Group handles GET /group/:slug/.
func (h *FeedHandler) Group(ctx context.Context, req *web.Request) web.Response {
	view, err := h.service.Group(ctx, req.Param("slug"), req.Query.Get("page"))
	if err != nil {
		return handleError(err)
	}
	return web.Render(viewGroup, view)
}

// Profile handles GET /:username/.
func (h *FeedHandler) Profile(ctx context.Context, req *web.Request) web.Response {
	view, err := h.service.Profile(ctx, req.Param("username"), req.Query.Get("page"), viewerID(req))
	if err != nil {
		return handleError(err)
	}
	return web.Render(viewProfile, view)
}

// Follow handles GET /follow/.
func (h *FeedHandler) Follow(ctx context.Context, req *web.Request) web.Response {
	view, err := h.service.Follow(ctx, req.Identity.UserID, req.Query.Get("page"))
	if err != nil {
		return handleError(err)
	}
	return web.Render(viewFollow, view)
}

type postPage struct {
	*feed.PostView
	Form commentHandler.CommentForm `json:"form"`
}

// Post handles GET /:username/:post_id/.
func (h *FeedHandler) Post(ctx context.Context, req *web.Request) web.Response {
	username := req.Param("username")
	postID, ok := postHandler.ParsePostID(req.Param("post_id"))
	if !ok {
		return web.NotFound(post.ErrPostNotFound.Error())
	}

	view, err := h.service.PostDetail(ctx, username, postID, viewerID(req))
	if err != nil {
		return handleError(err)
	}
	return web.Render(viewPost, postPage{PostView: view, Form: commentHandler.NewCommentForm(username, postID)})
}

func viewerID(req *web.Request) *uuid.UUID {
	if !req.Authenticated() {
		return nil
	}
	id := req.Identity.UserID
	return &id
}

func handleError(err error) web.Response {
	switch http.StatusNotFound {
	case post.ToHTTPStatus(err), group.ToHTTPStatus(err), user.ToHTTPStatus(err):
		return web.NotFound(err.Error())
	default:
		return web.Failure(err)
	}
}
