package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	View    string          `json:"view"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func serve(t *testing.T, method, route, target string, body *bytes.Buffer, contentType string, fn HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.Handle(method, route, Handle(fn))

	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandle_RenderCarriesParamsAndQuery(t *testing.T) {
	w := serve(t, http.MethodGet, "/:username/", "/leo/?page=2", nil, "",
		func(_ context.Context, req *Request) Response {
			assert.False(t, req.Authenticated())
			return Render("posts/profile", map[string]string{
				"username": req.Param("username"),
				"page":     req.Query.Get("page"),
			})
		})

	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "posts/profile", env.View)
	assert.JSONEq(t, `{"username":"leo","page":"2"}`, string(env.Data))
}

func TestHandle_UrlencodedFormAndRedirect(t *testing.T) {
	form := url.Values{"text": {"hello"}}
	w := serve(t, http.MethodPost, "/new/", "/new/", bytes.NewBufferString(form.Encode()),
		"application/x-www-form-urlencoded",
		func(_ context.Context, req *Request) Response {
			text, ok := req.FormValue("text")
			assert.True(t, ok)
			assert.Equal(t, "hello", text)

			_, ok = req.FormValue("group")
			assert.False(t, ok)
			return Redirect("/")
		})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestHandle_MultipartFile(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("text", "with image"))
	fw, err := mw.CreateFormFile("image", "small.gif")
	require.NoError(t, err)
	_, err = fw.Write([]byte("GIF89a"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := serve(t, http.MethodPost, "/new/", "/new/", body, mw.FormDataContentType(),
		func(_ context.Context, req *Request) Response {
			file := req.File("image")
			require.NotNil(t, file)
			assert.Equal(t, "small.gif", file.Filename)
			assert.Equal(t, []byte("GIF89a"), file.Data)
			return Redirect("/")
		})

	assert.Equal(t, http.StatusFound, w.Code)
}

func multipartWithFile(t *testing.T, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("text", "with image"))
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestLimitUploads_OversizedFileIsNotRead(t *testing.T) {
	var got *UploadedFile
	r := gin.New()
	r.POST("/new/", LimitUploads(16), Handle(func(_ context.Context, req *Request) Response {
		got = req.File("image")
		return Redirect("/")
	}))

	body, contentType := multipartWithFile(t, "big.png", bytes.Repeat([]byte{0xAB}, 64))
	req := httptest.NewRequest(http.MethodPost, "/new/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	require.NotNil(t, got)
	assert.True(t, got.TooLarge())
	assert.Equal(t, int64(64), got.Size)
	assert.Nil(t, got.Data)
}

func TestLimitUploads_FileAtLimitIsRead(t *testing.T) {
	var got *UploadedFile
	r := gin.New()
	r.POST("/new/", LimitUploads(16), Handle(func(_ context.Context, req *Request) Response {
		got = req.File("image")
		return Redirect("/")
	}))

	data := bytes.Repeat([]byte{0xAB}, 16)
	body, contentType := multipartWithFile(t, "ok.png", data)
	req := httptest.NewRequest(http.MethodPost, "/new/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	require.NotNil(t, got)
	assert.False(t, got.TooLarge())
	assert.Equal(t, data, got.Data)
}

func TestHandle_ValidationErrors(t *testing.T) {
	w := serve(t, http.MethodPost, "/new/", "/new/", nil, "",
		func(_ context.Context, _ *Request) Response {
			err := validation.Errors{"text": errors.New("cannot be blank")}
			fields, ok := FieldErrorsFrom(err)
			require.True(t, ok)
			return Invalid("posts/new_post", fields, nil)
		})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "cannot be blank", env.Error.Details["text"])
}

func TestHandle_NotFoundAndFailure(t *testing.T) {
	w := serve(t, http.MethodGet, "/x/", "/x/", nil, "",
		func(_ context.Context, _ *Request) Response { return NotFound("") })
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, http.MethodGet, "/x/", "/x/", nil, "",
		func(_ context.Context, _ *Request) Response { return Failure(errors.New("db down")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "db down"))
}

func TestHandle_SetsCookies(t *testing.T) {
	w := serve(t, http.MethodPost, "/auth/logout/", "/auth/logout/", nil, "",
		func(_ context.Context, _ *Request) Response {
			return Redirect("/").WithCookie(&http.Cookie{Name: "access_token", Value: "", MaxAge: -1})
		})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "access_token=")
}

func TestFieldErrorsFrom_IgnoresOtherErrors(t *testing.T) {
	_, ok := FieldErrorsFrom(errors.New("boom"))
	assert.False(t, ok)
}
