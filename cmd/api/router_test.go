package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/feed"
	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/user"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/shared/middleware"
	"blog-backend/internal/testutil/memstore"
	"blog-backend/pkg/container"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t       *testing.T
	c       *container.Container
	store   *memstore.Store
	objects *memstore.ObjectStorage
	now     time.Time
	router  *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	app := &testApp{
		t:       t,
		store:   memstore.New(),
		objects: memstore.NewObjectStorage(),
		now:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	cfg := &config.Config{
		App:   config.AppConfig{Name: "Blog API", Environment: "test", Version: "test"},
		Cache: config.CacheConfig{Driver: "memory", PageCacheTTL: 20 * time.Second, EntityTTL: time.Minute},
		JWT:   config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: 60},
		Image: config.ImageConfig{MaxBytes: 1 << 20, ThumbnailSize: 16},
		Auth:  config.AuthConfig{LoginURL: "/auth/login/", CookieName: "access_token"},
	}

	pageCache := infraCache.NewMemoryCache(infraCache.WithClock(func() time.Time { return app.now }))

	app.c = container.Wire(cfg, pageCache, app.objects, nil, container.Repositories{
		Users:    app.store.Users(),
		Groups:   app.store.Groups(),
		Posts:    app.store.Posts(),
		Comments: app.store.Comments(),
		Follows:  app.store.Follows(),
	})
	app.router = SetupRouter(app.c)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	View    string          `json:"view"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) (envelope, T) {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())

	var data T
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &data))
	}
	return env, data
}

func (a *testApp) signup(username string) post.Author {
	a.t.Helper()

	dto, err := a.c.UserService.Signup(context.Background(), user.SignupRequest{Username: username, Password: "password123"})
	require.NoError(a.t, err)
	return post.Author{ID: dto.ID, Username: dto.Username}
}

func (a *testApp) createGroup(title, slug string) *group.Group {
	a.t.Helper()

	g, err := a.c.GroupService.Create(context.Background(), group.CreateGroupRequest{Title: title, Slug: slug})
	require.NoError(a.t, err)
	return g
}

func (a *testApp) createPost(author post.Author, text string, groupID *int64) *post.Post {
	a.t.Helper()

	p, err := a.c.PostService.Create(context.Background(), author, post.CreatePostRequest{Text: text, GroupID: groupID})
	require.NoError(a.t, err)
	return p
}

func (a *testApp) do(req *http.Request, as *post.Author) *httptest.ResponseRecorder {
	a.t.Helper()

	if as != nil {
		token, err := a.c.JWTManager.GenerateAccessToken(as.ID.String(), as.Username)
		require.NoError(a.t, err)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(target string, as *post.Author) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, target, nil), as)
}

func (a *testApp) postForm(target string, form url.Values, as *post.Author) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, as)
}

func (a *testApp) postMultipart(target string, fields map[string]string, image []byte, as *post.Author) *httptest.ResponseRecorder {
	a.t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "upload.png")
		require.NoError(a.t, err)
		_, err = fw.Write(image)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req, as)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 8), B: 200, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func postIDs(posts []post.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestCreatePost_AppearsInEveryFeed(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	g := app.createGroup("Cats", "cats")

	w := app.postMultipart("/new/", map[string]string{"text": "  hello cats  ", "group": fmt.Sprint(g.ID)}, nil, &alice)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 1, app.store.PostCount())

	_, index := decode[feed.IndexView](t, app.get("/", nil))
	require.Len(t, index.Posts, 1)
	assert.Equal(t, "hello cats", index.Posts[0].Text)
	assert.Equal(t, "alice", index.Posts[0].Author.Username)
	require.NotNil(t, index.Posts[0].Group)
	assert.Equal(t, "cats", index.Posts[0].Group.Slug)

	_, groupView := decode[feed.GroupView](t, app.get("/group/cats/", nil))
	assert.Equal(t, postIDs(index.Posts), postIDs(groupView.Posts))
	assert.Equal(t, "Cats", groupView.Group.Title)

	_, profile := decode[feed.ProfileView](t, app.get("/alice/", nil))
	assert.Equal(t, postIDs(index.Posts), postIDs(profile.Posts))
	assert.Equal(t, int64(1), profile.PostsCount)
}

func TestCreatePost_RequiresLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/new/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/new/", w.Header().Get("Location"))

	w = app.postMultipart("/new/", map[string]string{"text": "anon"}, nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, app.store.PostCount())
}

func TestCreatePost_FormDescription(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	app.createGroup("Cats", "cats")

	w := app.get("/new/", &alice)
	require.Equal(t, http.StatusOK, w.Code)

	env, form := decode[struct {
		Fields []string    `json:"fields"`
		Groups []group.Ref `json:"groups"`
		IsEdit bool        `json:"is_edit"`
	}](t, w)
	assert.Equal(t, "posts/new_post", env.View)
	assert.Equal(t, []string{"text", "group", "image"}, form.Fields)
	require.Len(t, form.Groups, 1)
	assert.False(t, form.IsEdit)
}

func TestCreatePost_ValidationErrors(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")

	w := app.postMultipart("/new/", map[string]string{"text": "   ", "group": "999"}, []byte("definitely not a png"), &alice)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env, _ := decode[json.RawMessage](t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "this field is required", env.Error.Details["text"])
	assert.Equal(t, "select a valid choice", env.Error.Details["group"])
	assert.Equal(t, "not an image or corrupted", env.Error.Details["image"])

	assert.Equal(t, 0, app.store.PostCount())
	assert.Empty(t, app.objects.Keys())
}

func TestCreatePost_MalformedGroupReportedWithOtherFields(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")

	w := app.postForm("/new/", url.Values{"text": {""}, "group": {"abc"}}, &alice)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env, _ := decode[json.RawMessage](t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "this field is required", env.Error.Details["text"])
	assert.Equal(t, "select a valid choice", env.Error.Details["group"])
	assert.Equal(t, 0, app.store.PostCount())
}

func TestCreatePost_InvalidImageIsRejected(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")

	truncated := pngBytes(t)[:40]
	w := app.postMultipart("/new/", map[string]string{"text": "with image"}, truncated, &alice)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env, _ := decode[json.RawMessage](t, w)
	assert.Equal(t, "not an image or corrupted", env.Error.Details["image"])
	assert.Equal(t, 0, app.store.PostCount())
	assert.Empty(t, app.objects.Keys())
}

func TestCreatePost_OversizedImageIsRejected(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")

	oversized := append(pngBytes(t), bytes.Repeat([]byte{0}, 1<<20)...)
	w := app.postMultipart("/new/", map[string]string{"text": "with image"}, oversized, &alice)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env, _ := decode[json.RawMessage](t, w)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details["image"], "image is too large")
	assert.Equal(t, 0, app.store.PostCount())
	assert.Empty(t, app.objects.Keys())
}

func TestCreatePost_ValidImageVisibleEverywhere(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	g := app.createGroup("Cats", "cats")

	w := app.postMultipart("/new/", map[string]string{"text": "cat picture", "group": fmt.Sprint(g.ID)}, pngBytes(t), &alice)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())

	keys := app.objects.Keys()
	require.Len(t, keys, 2, "original and thumbnail")
	assert.True(t, strings.HasSuffix(keys[0], "/original.png"))
	assert.True(t, strings.HasSuffix(keys[1], "/thumbnail.jpg"))
	assert.Equal(t, "image/png", app.objects.ContentType(keys[0]))

	_, index := decode[feed.IndexView](t, app.get("/", nil))
	require.Len(t, index.Posts, 1)
	img := index.Posts[0].Image
	require.NotNil(t, img)
	assert.Equal(t, app.objects.URL(keys[0]), img.URL)
	assert.Equal(t, app.objects.URL(keys[1]), img.ThumbnailURL)

	_, profile := decode[feed.ProfileView](t, app.get("/alice/", nil))
	_, groupView := decode[feed.GroupView](t, app.get("/group/cats/", nil))
	_, detail := decode[feed.PostView](t, app.get(fmt.Sprintf("/alice/%d/", index.Posts[0].ID), nil))

	for _, got := range []*post.Image{profile.Posts[0].Image, groupView.Posts[0].Image, detail.Post.Image} {
		require.NotNil(t, got)
		assert.Equal(t, *img, *got)
	}
}

func TestEditPost_NonAuthorGetsNotFound(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	bob := app.signup("bob")
	p := app.createPost(alice, "original", nil)

	target := fmt.Sprintf("/alice/%d/edit/", p.ID)

	assert.Equal(t, http.StatusNotFound, app.get(target, &bob).Code)

	w := app.postForm(target, url.Values{"text": {"hijacked"}}, &bob)
	assert.Equal(t, http.StatusNotFound, w.Code)

	got, err := app.c.PostRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)

	w = app.get(target, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/auth/login/?next=")
}

func TestEditPost_AuthorChangesOnlySubmittedFields(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	g := app.createGroup("Cats", "cats")
	p := app.createPost(alice, "original", &g.ID)
	target := fmt.Sprintf("/alice/%d/edit/", p.ID)

	w := app.get(target, &alice)
	require.Equal(t, http.StatusOK, w.Code)
	env, _ := decode[json.RawMessage](t, w)
	assert.Equal(t, "posts/edit_post", env.View)

	w = app.postForm(target, url.Values{"text": {"edited"}}, &alice)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, fmt.Sprintf("/alice/%d/", p.ID), w.Header().Get("Location"))

	got, err := app.c.PostRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, g.ID, *got.GroupID)
	assert.Equal(t, p.PubDate, got.PubDate)

	w = app.postForm(target, url.Values{"group": {""}}, &alice)
	require.Equal(t, http.StatusFound, w.Code)

	got, err = app.c.PostRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
	assert.Nil(t, got.GroupID)

	w = app.postForm(target, url.Values{"text": {" "}}, &alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditPost_WrongUsernameInPath(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	app.signup("bob")
	p := app.createPost(alice, "original", nil)

	assert.Equal(t, http.StatusNotFound, app.get(fmt.Sprintf("/bob/%d/edit/", p.ID), &alice).Code)
	assert.Equal(t, http.StatusNotFound, app.get(fmt.Sprintf("/bob/%d/", p.ID), nil).Code)
}

func TestPagination_PageSizes(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	for i := 1; i <= 13; i++ {
		app.createPost(alice, fmt.Sprintf("post %d", i), nil)
	}

	_, index := decode[feed.IndexView](t, app.get("/", nil))
	assert.Len(t, index.Posts, 10)
	assert.Equal(t, "post 13", index.Posts[0].Text, "newest first")
	assert.Equal(t, 2, index.Page.NumPages)
	assert.True(t, index.Page.HasNext)

	_, index = decode[feed.IndexView](t, app.get("/?page=9999", nil))
	assert.Equal(t, 2, index.Page.Number)
	assert.Len(t, index.Posts, 3)
	assert.Equal(t, "post 1", index.Posts[2].Text)

	_, index = decode[feed.IndexView](t, app.get("/?page=abc", nil))
	assert.Equal(t, 1, index.Page.Number)

	_, profile := decode[feed.ProfileView](t, app.get("/alice/", nil))
	assert.Len(t, profile.Posts, 3)
	assert.Equal(t, 5, profile.Page.NumPages)
	assert.Equal(t, int64(13), profile.PostsCount)

	_, profile = decode[feed.ProfileView](t, app.get("/alice/?page=9999", nil))
	assert.Equal(t, 5, profile.Page.Number)
	assert.Len(t, profile.Posts, 1)
}

func TestPagination_SinglePageOutOfRange(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	app.createPost(alice, "only", nil)

	_, first := decode[feed.IndexView](t, app.get("/?page=1", nil))
	_, far := decode[feed.IndexView](t, app.get("/?page=9999", nil))

	assert.Equal(t, first.Page, far.Page)
	assert.Equal(t, postIDs(first.Posts), postIDs(far.Posts))
}

func TestIndexPageCache_StaleUntilCleared(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	p := app.createPost(alice, "soon gone", nil)

	before := app.get("/", nil)
	require.Equal(t, http.StatusOK, before.Code)
	assert.Equal(t, "MISS", before.Header().Get(middleware.PageCacheHeader))

	require.NoError(t, app.c.PostService.Delete(context.Background(), p.ID))

	cached := app.get("/", nil)
	assert.Equal(t, "HIT", cached.Header().Get(middleware.PageCacheHeader))
	assert.Equal(t, before.Body.Bytes(), cached.Body.Bytes())

	require.NoError(t, middleware.ClearPages(context.Background(), app.c.Cache))

	_, index := decode[feed.IndexView](t, app.get("/", nil))
	assert.Empty(t, index.Posts)
}

func TestIndexPageCache_Expires(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	p := app.createPost(alice, "soon gone", nil)

	app.get("/", nil)
	require.NoError(t, app.c.PostService.Delete(context.Background(), p.ID))

	app.now = app.now.Add(20 * time.Second)

	w := app.get("/", nil)
	assert.Equal(t, "MISS", w.Header().Get(middleware.PageCacheHeader))
	_, index := decode[feed.IndexView](t, w)
	assert.Empty(t, index.Posts)
}

func TestFollow_IdempotentAndReversible(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	bob := app.signup("bob")
	app.createPost(bob, "bob writes", nil)

	for i := 0; i < 2; i++ {
		w := app.postForm("/bob/follow/", url.Values{}, &alice)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/bob/", w.Header().Get("Location"))
	}
	assert.Equal(t, 1, app.store.FollowCount(alice.ID, bob.ID))

	_, feedView := decode[feed.FollowView](t, app.get("/follow/", &alice))
	require.Len(t, feedView.Posts, 1)
	assert.Equal(t, "bob writes", feedView.Posts[0].Text)

	_, profile := decode[feed.ProfileView](t, app.get("/bob/", &alice))
	assert.True(t, profile.IsFollowed)
	assert.Equal(t, int64(1), profile.Followers)

	w := app.postForm("/bob/unfollow/", url.Values{}, &alice)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, app.store.FollowCount(alice.ID, bob.ID))

	_, feedView = decode[feed.FollowView](t, app.get("/follow/", &alice))
	assert.Empty(t, feedView.Posts)

	w = app.postForm("/bob/unfollow/", url.Values{}, &alice)
	assert.Equal(t, http.StatusFound, w.Code, "unfollow without an edge is a no-op")
}

func TestFollow_SelfAndUnknown(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")

	w := app.postForm("/alice/follow/", url.Values{}, &alice)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, app.store.FollowCount(alice.ID, alice.ID))

	w = app.postForm("/nobody/follow/", url.Values{}, &alice)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.postForm("/alice/follow/", url.Values{}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/alice/follow/", w.Header().Get("Location"))
}

func TestFollowFeed_OnlyFollowedAuthors(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	bob := app.signup("bob")
	carol := app.signup("carol")
	app.createPost(bob, "from bob", nil)
	app.createPost(carol, "from carol", nil)

	require.NoError(t, app.c.FollowService.Follow(context.Background(), alice.ID, "bob"))

	_, view := decode[feed.FollowView](t, app.get("/follow/", &alice))
	require.Len(t, view.Posts, 1)
	assert.Equal(t, "bob", view.Posts[0].Author.Username)

	w := app.get("/follow/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/follow/", w.Header().Get("Location"))
}

func TestComment_AddAndList(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	bob := app.signup("bob")
	p := app.createPost(alice, "discuss", nil)
	target := fmt.Sprintf("/alice/%d/comment/", p.ID)

	w := app.postForm(target, url.Values{"text": {"nice post"}}, &bob)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, fmt.Sprintf("/alice/%d/", p.ID), w.Header().Get("Location"))

	w = app.get(fmt.Sprintf("/alice/%d/", p.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	env, detail := decode[feed.PostView](t, w)
	assert.Equal(t, "posts/post", env.View)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "nice post", detail.Comments[0].Text)
	assert.Equal(t, "bob", detail.Comments[0].Author.Username)
	assert.Contains(t, string(env.Data), `"action":"/alice/1/comment/"`)

	w = app.postForm(target, url.Values{"text": {"   "}}, &bob)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.postForm(target, url.Values{"text": {"anon"}}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next="+target, w.Header().Get("Location"))

	w = app.postForm(fmt.Sprintf("/bob/%d/comment/", p.ID), url.Values{"text": {"wrong author"}}, &bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotFoundRoutes(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	app.createPost(alice, "exists", nil)

	for _, target := range []string{"/nobody/", "/group/missing/", "/alice/999/", "/alice/abc/"} {
		assert.Equal(t, http.StatusNotFound, app.get(target, nil).Code, target)
	}
}

func TestUnknownPathUsesNotFoundEnvelope(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup("alice")
	p := app.createPost(alice, "exists", nil)

	target := fmt.Sprintf("/alice/%d/no/such/page/", p.ID)
	w := app.get(target, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	env, _ := decode[json.RawMessage](t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, target, env.Error.Details["path"])
}

func TestAboutPages(t *testing.T) {
	app := newTestApp(t)

	for target, view := range map[string]string{"/about/author/": "about/author", "/about/tech/": "about/tech"} {
		w := app.get(target, nil)
		require.Equal(t, http.StatusOK, w.Code, target)
		env, _ := decode[json.RawMessage](t, w)
		assert.Equal(t, view, env.View)
	}
}

func TestAuthFlow_SignupLoginLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/auth/signup/", url.Values{"username": {"dora"}, "password": {"correct-horse"}}, nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/auth/login/", w.Header().Get("Location"))

	w = app.postForm("/auth/signup/", url.Values{"username": {"dora"}, "password": {"correct-horse"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.postForm("/auth/login/?next=/follow/", url.Values{"username": {"dora"}, "password": {"wrong-password"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.postForm("/auth/login/?next=/follow/", url.Values{"username": {"dora"}, "password": {"correct-horse"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/follow/", w.Header().Get("Location"))

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "access_token" {
			session = ck
		}
	}
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/follow/", nil)
	req.AddCookie(session)
	w = app.do(req, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.postForm("/auth/logout/", url.Values{}, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSignup_ReservedUsernameRejected(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/auth/signup/", url.Values{"username": {"follow"}, "password": {"correct-horse"}}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env, _ := decode[json.RawMessage](t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "this username is reserved", env.Error.Details["username"])

	_, err := app.c.UserService.GetByUsername(context.Background(), "follow")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache":"ok"`)
}
