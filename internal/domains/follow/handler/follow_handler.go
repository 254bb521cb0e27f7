package handler

import (
	"context"
	"net/http"

	"blog-backend/internal/domains/follow"
	postHandler "blog-backend/internal/domains/post/handler"
	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/web"
)

type FollowHandler struct {
	service follow.Service
}

func NewFollowHandler(service follow.Service) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow handles POST /:username/follow/.
func (h *FollowHandler) Follow(ctx context.Context, req *web.Request) web.Response {
	if !req.IsPost() {
		return web.MethodNotAllowed()
	}

	username := req.Param("username")
	if err := h.service.Follow(ctx, req.Identity.UserID, username); err != nil {
		return handleError(err)
	}
	return web.Redirect(postHandler.ProfileURL(username))
}

// Unfollow handles POST /:username/unfollow/.
func (h *FollowHandler) Unfollow(ctx context.Context, req *web.Request) web.Response {
	if !req.IsPost() {
		return web.MethodNotAllowed()
	}

	username := req.Param("username")
	if err := h.service.Unfollow(ctx, req.Identity.UserID, username); err != nil {
		return handleError(err)
	}
	return web.Redirect(postHandler.ProfileURL(username))
}

func handleError(err error) web.Response {
	switch user.ToHTTPStatus(err) {
	case http.StatusNotFound:
		return web.NotFound(err.Error())
	default:
		return web.Failure(err)
	}
}
