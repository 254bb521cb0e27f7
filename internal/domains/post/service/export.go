package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"blog-backend/internal/domains/post"
)

const (
	exportSheet     = "Posts"
	exportBatchSize = 500
)

var exportHeaders = []string{"ID", "Author", "Group", "Published", "Text", "Image URL"}

// Export writes every post, newest first, to an xlsx workbook.
func (s *postService) Export(ctx context.Context, w io.Writer) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	rowNum := 2
	for offset := 0; ; offset += exportBatchSize {
		posts, err := s.repo.ListAll(ctx, exportBatchSize, offset)
		if err != nil {
			return 0, fmt.Errorf("list posts for export: %w", err)
		}

		for _, p := range posts {
			if err := writeExportRow(f, rowNum, p); err != nil {
				return 0, err
			}
			rowNum++
		}

		if len(posts) < exportBatchSize {
			break
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}

	count := rowNum - 2
	log.Info().Int("rows", count).Msg("Posts exported")
	return count, nil
}

func writeExportRow(f *excelize.File, rowNum int, p post.Post) error {
	var groupTitle, imageURL string
	if p.Group != nil {
		groupTitle = p.Group.Title
	}
	if p.Image != nil {
		imageURL = p.Image.URL
	}

	values := []any{p.ID, p.Author.Username, groupTitle, p.PubDate.UTC(), p.Text, imageURL}

	cell, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
		return fmt.Errorf("write export row %d: %w", rowNum, err)
	}
	return nil
}
