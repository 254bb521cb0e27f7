package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/shared/web"
)

const (
	viewNewPost  = "posts/new_post"
	viewEditPost = "posts/edit_post"
)

type PostHandler struct {
	service post.Service
	groups  group.Service
}

func NewPostHandler(service post.Service, groups group.Service) *PostHandler {
	return &PostHandler{service: service, groups: groups}
}

// postForm describes the create/edit form for the client.
type postForm struct {
	Fields []string    `json:"fields"`
	Groups []group.Ref `json:"groups"`
	IsEdit bool        `json:"is_edit"`
	Post   *post.Post  `json:"post,omitempty"`
}

// NewPost handles GET and POST /new/.
func (h *PostHandler) NewPost(ctx context.Context, req *web.Request) web.Response {
	form, err := h.form(ctx, nil)
	if err != nil {
		return web.Failure(err)
	}
	if !req.IsPost() {
		return web.Render(viewNewPost, form)
	}

	text, _ := req.FormValue("text")
	rawGroup, _ := req.FormValue("group")

	groupID, err := post.ParseGroupID(rawGroup)
	create := post.CreatePostRequest{Text: text, GroupID: groupID, GroupMalformed: err != nil}
	if f := req.File("image"); f != nil {
		create.Image = &post.ImageUpload{Filename: f.Filename, ContentType: f.ContentType, Size: f.Size, Data: f.Data}
	}

	author := post.Author{ID: req.Identity.UserID, Username: req.Identity.Username}
	if _, err := h.service.Create(ctx, author, create); err != nil {
		return h.handleError(viewNewPost, form, err)
	}

	return web.Redirect("/")
}

// Edit handles GET and POST /:username/:post_id/edit/. Only the author gets
// past GetForEdit; everybody else sees a 404.
func (h *PostHandler) Edit(ctx context.Context, req *web.Request) web.Response {
	username := req.Param("username")
	postID, ok := ParsePostID(req.Param("post_id"))
	if !ok {
		return web.NotFound(post.ErrPostNotFound.Error())
	}

	p, err := h.service.GetForEdit(ctx, req.Identity.UserID, username, postID)
	if err != nil {
		return h.handleError(viewEditPost, nil, err)
	}

	form, err := h.form(ctx, p)
	if err != nil {
		return web.Failure(err)
	}
	if !req.IsPost() {
		return web.Render(viewEditPost, form)
	}

	var update post.UpdatePostRequest
	if text, ok := req.FormValue("text"); ok {
		update.Text = &text
	}
	if rawGroup, ok := req.FormValue("group"); ok {
		groupID, err := post.ParseGroupID(rawGroup)
		update.GroupSet = true
		update.GroupID = groupID
		update.GroupMalformed = err != nil
	}

	if _, err := h.service.Update(ctx, req.Identity.UserID, username, postID, update); err != nil {
		return h.handleError(viewEditPost, form, err)
	}

	return web.Redirect(PostURL(username, postID))
}

func (h *PostHandler) form(ctx context.Context, p *post.Post) (postForm, error) {
	groups, err := h.groups.List(ctx)
	if err != nil {
		return postForm{}, err
	}

	refs := make([]group.Ref, len(groups))
	for i := range groups {
		refs[i] = groups[i].Ref()
	}

	return postForm{
		Fields: []string{"text", "group", "image"},
		Groups: refs,
		IsEdit: p != nil,
		Post:   p,
	}, nil
}

func (h *PostHandler) handleError(view string, form any, err error) web.Response {
	if fields, ok := web.FieldErrorsFrom(err); ok {
		return web.Invalid(view, fields, form)
	}

	switch post.ToHTTPStatus(err) {
	case http.StatusNotFound:
		return web.NotFound(post.ErrPostNotFound.Error())
	default:
		return web.Failure(err)
	}
}

// ParsePostID reads the :post_id path segment.
func ParsePostID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func PostURL(username string, postID int64) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}

func ProfileURL(username string) string {
	return "/" + username + "/"
}
