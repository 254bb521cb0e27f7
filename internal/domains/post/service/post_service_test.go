package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/domains/user"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/internal/shared"
	"blog-backend/internal/testutil/memstore"
)

type fixture struct {
	store   *memstore.Store
	objects *memstore.ObjectStorage
	tasks   *memstore.TaskRecorder
	svc     post.Service
	author  post.Author
}

func newFixture(t *testing.T, queued bool) *fixture {
	t.Helper()

	f := &fixture{
		store:   memstore.New(),
		objects: memstore.NewObjectStorage(),
		tasks:   &memstore.TaskRecorder{},
	}

	images := storage.NewImageProcessor(1<<20, 16)
	if queued {
		f.svc = service.NewPostService(f.store.Posts(), f.store.Groups(), f.objects, images, f.tasks)
	} else {
		f.svc = service.NewPostService(f.store.Posts(), f.store.Groups(), f.objects, images, nil)
	}

	u := &user.User{Username: "leo"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	f.author = post.Author{ID: u.ID, Username: u.Username}
	return f
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for x := 0; x < 64; x++ {
		img.Set(x, x%32, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func withImage(t *testing.T, text string) post.CreatePostRequest {
	return post.CreatePostRequest{
		Text:  text,
		Image: &post.ImageUpload{Filename: "small.png", ContentType: "image/png", Data: pngBytes(t)},
	}
}

func TestCreate_CollectsEveryFieldError(t *testing.T) {
	f := newFixture(t, false)
	missing := int64(42)

	_, err := f.svc.Create(context.Background(), f.author, post.CreatePostRequest{
		Text:    "   ",
		GroupID: &missing,
		Image:   &post.ImageUpload{Filename: "x.png", Data: []byte("not an image")},
	})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "text")
	assert.ErrorIs(t, verrs["group"], post.ErrInvalidGroup)
	assert.ErrorIs(t, verrs["image"], post.ErrInvalidImage)
	assert.Zero(t, f.store.PostCount())
	assert.Empty(t, f.objects.Keys())
}

func TestCreate_MalformedGroupReportedWithText(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Create(context.Background(), f.author, post.CreatePostRequest{
		Text:           "",
		GroupMalformed: true,
	})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "text")
	assert.ErrorIs(t, verrs["group"], post.ErrInvalidGroup)
	assert.Zero(t, f.store.PostCount())
}

func TestCreate_DeclaredOversizeSkipsDecode(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Create(context.Background(), f.author, post.CreatePostRequest{
		Text:  "big",
		Image: &post.ImageUpload{Filename: "big.png", Size: 2 << 20},
	})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.ErrorIs(t, verrs["image"], storage.ErrImageTooLarge)
	assert.Empty(t, f.objects.Keys())
}

func TestCreate_WithGroup(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	g := &group.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, f.store.Groups().Create(ctx, g))

	p, err := f.svc.Create(ctx, f.author, post.CreatePostRequest{Text: "hello", GroupID: &g.ID})
	require.NoError(t, err)

	require.NotNil(t, p.Group)
	assert.Equal(t, "cats", p.Group.Slug)
	assert.Equal(t, "leo", p.Author.Username)
	assert.False(t, p.PubDate.IsZero())
}

func TestCreate_EnqueuesThumbnailJob(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.author, withImage(t, "with picture"))
	require.NoError(t, err)
	require.NotNil(t, p.Image)

	assert.True(t, strings.HasPrefix(p.Image.Key, "posts/"))
	assert.True(t, strings.HasSuffix(p.Image.Key, "/original.png"))
	assert.Equal(t, []string{p.Image.Key}, f.objects.Keys())
	assert.Equal(t, "image/png", f.objects.ContentType(p.Image.Key))
	assert.Empty(t, p.Image.ThumbnailURL)

	tasks := f.tasks.TasksOfType(shared.TypeProcessPostImage)
	require.Len(t, tasks, 1)

	var payload shared.ProcessPostImagePayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload(), &payload))
	assert.Equal(t, p.ID, payload.PostID)
	assert.Equal(t, p.Image.Key, payload.ImageKey)

	require.NoError(t, f.svc.GenerateThumbnail(ctx, payload.PostID, payload.ImageKey))

	thumbKey := p.ImagePrefix() + "thumbnail.jpg"
	assert.Contains(t, f.objects.Keys(), thumbKey)
	assert.Equal(t, "image/jpeg", f.objects.ContentType(thumbKey))

	stored, err := f.store.Posts().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, f.objects.URL(thumbKey), stored.Image.ThumbnailURL)
}

func TestCreate_InlineThumbnailWithoutQueue(t *testing.T) {
	f := newFixture(t, false)

	p, err := f.svc.Create(context.Background(), f.author, withImage(t, "inline"))
	require.NoError(t, err)

	assert.NotEmpty(t, p.Image.ThumbnailURL)
	assert.Len(t, f.objects.Keys(), 2)
	assert.Empty(t, f.tasks.Tasks())
}

func TestCreate_UploadFailureStoresNothing(t *testing.T) {
	f := newFixture(t, false)
	f.objects.FailUpload = true

	_, err := f.svc.Create(context.Background(), f.author, withImage(t, "lost"))
	require.Error(t, err)
	assert.Zero(t, f.store.PostCount())
}

func TestGenerateThumbnail_PostGoneCleansUp(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.author, withImage(t, "short lived"))
	require.NoError(t, err)
	require.NoError(t, f.store.Posts().Delete(ctx, p.ID))

	require.NoError(t, f.svc.GenerateThumbnail(ctx, p.ID, p.Image.Key))
	assert.Empty(t, f.objects.Keys())
}

func TestDelete_EnqueuesImageCleanup(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.author, withImage(t, "to delete"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.Zero(t, f.store.PostCount())

	tasks := f.tasks.TasksOfType(shared.TypeDeletePostImages)
	require.Len(t, tasks, 1)

	var payload shared.DeletePostImagesPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload(), &payload))
	assert.Equal(t, p.ImagePrefix(), payload.Prefix)

	// Blobs stay until the worker runs.
	assert.NotEmpty(t, f.objects.Keys())
}

func TestDelete_InlineWithoutQueue(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.author, withImage(t, "to delete"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.Empty(t, f.objects.Keys())

	assert.ErrorIs(t, f.svc.Delete(ctx, p.ID), post.ErrPostNotFound)
}

func TestDeleteImages_RefusesRootPrefixes(t *testing.T) {
	f := newFixture(t, false)

	for _, prefix := range []string{"", "./", "/"} {
		assert.Error(t, f.svc.DeleteImages(context.Background(), prefix), prefix)
	}
}

func TestGetForEdit(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.author, post.CreatePostRequest{Text: "mine"})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "someone-else", p.ID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)

	other := &user.User{Username: "mia"}
	require.NoError(t, f.store.Users().Create(ctx, other))

	_, err = f.svc.GetForEdit(ctx, other.ID, "leo", p.ID)
	assert.ErrorIs(t, err, post.ErrNotPostAuthor)

	got, err := f.svc.GetForEdit(ctx, f.author.ID, "leo", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestUpdate_KeepsUnsubmittedFields(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	g := &group.Group{Title: "Dogs", Slug: "dogs"}
	require.NoError(t, f.store.Groups().Create(ctx, g))

	p, err := f.svc.Create(ctx, f.author, post.CreatePostRequest{Text: "before", GroupID: &g.ID})
	require.NoError(t, err)

	text := "after"
	updated, err := f.svc.Update(ctx, f.author.ID, "leo", p.ID, post.UpdatePostRequest{Text: &text})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Text)
	require.NotNil(t, updated.Group)
	assert.Equal(t, g.ID, updated.Group.ID)
	assert.Equal(t, p.PubDate, updated.PubDate)

	cleared, err := f.svc.Update(ctx, f.author.ID, "leo", p.ID, post.UpdatePostRequest{GroupSet: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.Group)
	assert.Equal(t, "after", cleared.Text)
}

func TestUpdate_MalformedGroupReportedWithText(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	p, err := f.svc.Create(ctx, f.author, post.CreatePostRequest{Text: "before"})
	require.NoError(t, err)

	blank := " "
	_, err = f.svc.Update(ctx, f.author.ID, "leo", p.ID, post.UpdatePostRequest{
		Text:           &blank,
		GroupSet:       true,
		GroupMalformed: true,
	})

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "text")
	assert.ErrorIs(t, verrs["group"], post.ErrInvalidGroup)

	unchanged, err := f.svc.Get(ctx, "leo", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "before", unchanged.Text)
}

func TestExport(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	g := &group.Group{Title: "Birds", Slug: "birds"}
	require.NoError(t, f.store.Groups().Create(ctx, g))

	_, err := f.svc.Create(ctx, f.author, post.CreatePostRequest{Text: "first"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.author, post.CreatePostRequest{Text: "second", GroupID: &g.ID})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.svc.Export(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Posts")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Author", "Group", "Published", "Text", "Image URL"}, rows[0])
	assert.Equal(t, "leo", rows[1][1])
	assert.Equal(t, "Birds", rows[1][2])
	assert.Equal(t, "second", rows[1][4])
	assert.Equal(t, "first", rows[2][4])
}
