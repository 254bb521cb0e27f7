package service_test

import (
	"bytes"
	"context"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/group/service"
	"blog-backend/internal/testutil/memstore"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestCreate_DerivesSlug(t *testing.T) {
	svc := service.NewGroupService(memstore.New().Groups())

	g, err := svc.Create(context.Background(), group.CreateGroupRequest{Title: "  Café Society  "})
	require.NoError(t, err)
	assert.Equal(t, "Café Society", g.Title)
	assert.Equal(t, "cafe-society", g.Slug)
	assert.NotZero(t, g.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc := service.NewGroupService(memstore.New().Groups())

	_, err := svc.Create(context.Background(), group.CreateGroupRequest{Title: "Ok", Slug: "no spaces"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "slug")
}

func TestCreate_DuplicateSlug(t *testing.T) {
	svc := service.NewGroupService(memstore.New().Groups())
	ctx := context.Background()

	_, err := svc.Create(ctx, group.CreateGroupRequest{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, group.CreateGroupRequest{Title: "More cats", Slug: "cats"})
	assert.ErrorIs(t, err, group.ErrDuplicateSlug)
}

func TestListAndDelete(t *testing.T) {
	svc := service.NewGroupService(memstore.New().Groups())
	ctx := context.Background()

	for _, title := range []string{"Zebras", "Ants"} {
		_, err := svc.Create(ctx, group.CreateGroupRequest{Title: title})
		require.NoError(t, err)
	}

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Ants", groups[0].Title)

	require.NoError(t, svc.Delete(ctx, "zebras"))
	assert.ErrorIs(t, svc.Delete(ctx, "zebras"), group.ErrGroupNotFound)

	_, err = svc.GetBySlug(ctx, "zebras")
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestImport(t *testing.T) {
	svc := service.NewGroupService(memstore.New().Groups())
	ctx := context.Background()

	file := workbook(t,
		[]any{"Slug", "Title", "Description"},
		[]any{"", "Night Owls", "late posts"},
		[]any{},
		[]any{"early", "Early Birds", ""},
	)

	result, err := svc.Import(ctx, file)
	require.NoError(t, err)
	require.True(t, result.Success, result.Errors)
	assert.Equal(t, 2, result.TotalRows)
	require.Len(t, result.Created, 2)
	assert.Equal(t, "night-owls", result.Created[0].Slug)
	assert.Equal(t, "late posts", result.Created[0].Description)

	g, err := svc.GetBySlug(ctx, "early")
	require.NoError(t, err)
	assert.Equal(t, "Early Birds", g.Title)
}

func TestImport_RejectsWholeFile(t *testing.T) {
	store := memstore.New()
	svc := service.NewGroupService(store.Groups())
	ctx := context.Background()

	_, err := svc.Create(ctx, group.CreateGroupRequest{Title: "Taken", Slug: "taken"})
	require.NoError(t, err)

	file := workbook(t,
		[]any{"title", "slug"},
		[]any{"Fine", "fine"},
		[]any{"Again", "fine"},
		[]any{"Clash", "taken"},
		[]any{"", "untitled"},
	)

	result, err := svc.Import(ctx, file)
	require.NoError(t, err)
	assert.False(t, result.Success)

	rows := map[int]string{}
	for _, e := range result.Errors {
		rows[e.Row] = e.Field
	}
	assert.Equal(t, map[int]string{3: "slug", 4: "slug", 5: "title"}, rows)

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestImport_Empty(t *testing.T) {
	svc := service.NewGroupService(memstore.New().Groups())

	_, err := svc.Import(context.Background(), workbook(t, []any{"title", "slug"}))
	assert.ErrorIs(t, err, group.ErrEmptyImport)

	_, err = svc.Import(context.Background(), bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}
