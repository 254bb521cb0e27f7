package handler

import (
	"context"
	"net/http"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	"blog-backend/internal/shared/web"
)

const viewCommentForm = "posts/comment_form"

type CommentHandler struct {
	service comment.Service
}

func NewCommentHandler(service comment.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// CommentForm describes the comment form embedded in the post page.
type CommentForm struct {
	Fields []string `json:"fields"`
	Action string   `json:"action"`
}

func NewCommentForm(username string, postID int64) CommentForm {
	return CommentForm{
		Fields: []string{"text"},
		Action: postHandler.PostURL(username, postID) + "comment/",
	}
}

// Add handles POST /:username/:post_id/comment/.
func (h *CommentHandler) Add(ctx context.Context, req *web.Request) web.Response {
	if !req.IsPost() {
		return web.MethodNotAllowed()
	}

	username := req.Param("username")
	postID, ok := postHandler.ParsePostID(req.Param("post_id"))
	if !ok {
		return web.NotFound(post.ErrPostNotFound.Error())
	}

	text, _ := req.FormValue("text")
	author := post.Author{ID: req.Identity.UserID, Username: req.Identity.Username}

	_, err := h.service.Add(ctx, author, username, postID, comment.CreateCommentRequest{Text: text})
	if err != nil {
		return h.handleError(NewCommentForm(username, postID), err)
	}

	return web.Redirect(postHandler.PostURL(username, postID))
}

func (h *CommentHandler) handleError(form CommentForm, err error) web.Response {
	if fields, ok := web.FieldErrorsFrom(err); ok {
		return web.Invalid(viewCommentForm, fields, form)
	}

	switch post.ToHTTPStatus(err) {
	case http.StatusNotFound:
		return web.NotFound(err.Error())
	default:
		return web.Failure(err)
	}
}
