package pagination

import (
	"strconv"
	"strings"
)

// Page describes one page of an ordered result set.
type Page struct {
	Number       int   `json:"number"`
	PerPage      int   `json:"per_page"`
	Count        int64 `json:"count"`
	NumPages     int   `json:"num_pages"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
	NextPage     int   `json:"next_page,omitempty"`
	PreviousPage int   `json:"previous_page,omitempty"`
}

// Offset is the number of rows preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Limit is the page size to request from storage.
func (p Page) Limit() int {
	return p.PerPage
}

// NumPages is never below 1: an empty result still has one empty page.
func NumPages(count int64, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// ParsePageNumber reads a ?page= value. Missing or non-integer values give 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Paginate resolves the requested page against count, clamping into
// [1, NumPages].
func Paginate(count int64, perPage int, requested string) Page {
	if perPage <= 0 {
		perPage = 1
	}
	numPages := NumPages(count, perPage)

	number := ParsePageNumber(requested)
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	p := Page{
		Number:      number,
		PerPage:     perPage,
		Count:       count,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if p.HasNext {
		p.NextPage = number + 1
	}
	if p.HasPrevious {
		p.PreviousPage = number - 1
	}
	return p
}
