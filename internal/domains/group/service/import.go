package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"blog-backend/internal/domains/group"
)

const maxImportRows = 1000

type importRow struct {
	row int
	req group.CreateGroupRequest
}

func (s *groupService) Import(ctx context.Context, r io.Reader) (*group.ImportResult, error) {
	rows, err := readWorkbook(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, group.ErrEmptyImport
	}

	result := &group.ImportResult{TotalRows: len(rows)}
	if len(rows) > maxImportRows {
		result.Errors = []group.ImportRowError{
			{Row: 0, Field: "file", Error: fmt.Sprintf("file exceeds %d rows limit", maxImportRows)},
		}
		return result, nil
	}

	result.Errors = s.validateRows(ctx, rows)
	if len(result.Errors) > 0 {
		log.Warn().Int("error_count", len(result.Errors)).Msg("Group import validation failed")
		return result, nil
	}

	groups := make([]*group.Group, len(rows))
	for i, row := range rows {
		groups[i] = &group.Group{
			Title:       row.req.Title,
			Slug:        row.req.Slug,
			Description: row.req.Description,
		}
	}

	if err := s.repo.CreateMany(ctx, groups); err != nil {
		if errors.Is(err, group.ErrDuplicateSlug) {
			result.Errors = []group.ImportRowError{{Row: 0, Field: "slug", Error: err.Error()}}
			return result, nil
		}
		return nil, fmt.Errorf("import groups: %w", err)
	}

	result.Success = true
	for _, g := range groups {
		result.Created = append(result.Created, *g)
	}

	log.Info().Int("created", len(groups)).Msg("Groups imported")
	return result, nil
}

// readWorkbook returns the non-blank data rows of the first sheet. Columns
// are located by header name so their order does not matter.
func readWorkbook(r io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, group.ErrEmptyImport
	}

	columns := map[string]int{}
	for i, h := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := columns["title"]; !ok {
		return nil, fmt.Errorf("%w: missing title column", group.ErrEmptyImport)
	}

	cell := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var rows []importRow
	for i, record := range records[1:] {
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}
		rows = append(rows, importRow{
			row: i + 2,
			req: normalize(group.CreateGroupRequest{
				Title:       cell(record, "title"),
				Slug:        cell(record, "slug"),
				Description: cell(record, "description"),
			}),
		})
	}
	return rows, nil
}

func (s *groupService) validateRows(ctx context.Context, rows []importRow) []group.ImportRowError {
	var errs []group.ImportRowError
	seen := map[string]int{}

	for _, row := range rows {
		if err := row.req.Validate(); err != nil {
			var verrs validation.Errors
			if errors.As(err, &verrs) {
				for field, ferr := range verrs {
					errs = append(errs, group.ImportRowError{Row: row.row, Field: field, Error: ferr.Error()})
				}
				continue
			}
			errs = append(errs, group.ImportRowError{Row: row.row, Field: "row", Error: err.Error()})
			continue
		}

		if first, dup := seen[row.req.Slug]; dup {
			errs = append(errs, group.ImportRowError{
				Row:   row.row,
				Field: "slug",
				Error: fmt.Sprintf("duplicate of row %d", first),
			})
			continue
		}
		seen[row.req.Slug] = row.row

		exists, err := s.repo.ExistsBySlug(ctx, row.req.Slug)
		if err != nil {
			errs = append(errs, group.ImportRowError{Row: row.row, Field: "slug", Error: err.Error()})
			continue
		}
		if exists {
			errs = append(errs, group.ImportRowError{Row: row.row, Field: "slug", Error: group.ErrDuplicateSlug.Error()})
		}
	}
	return errs
}
