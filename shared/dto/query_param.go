package dto

import (
	"net/http"
	"shareit/shared/constant"
	"shareit/shared/failure"
	"strconv"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams is what the generic repository understands: 1-based page, page length and ordering.
type QueryParams struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// PageRequest is the from/size window clients send.
type PageRequest struct {
	From int `json:"from" validate:"gte=0"`
	Size int `json:"size" validate:"gt=0"`
}

// FromRequest reads from and size, falling back to the defaults when absent.
// Values that are present but not numbers are rejected.
func (p *PageRequest) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	p.From = constant.DefaultValueFrom
	p.Size = constant.DefaultValueSize

	if from := query.Get(constant.RequestParamFrom); from != "" {
		fromInt, err := strconv.Atoi(from)
		if err != nil {
			return failure.InvalidFromParam
		}

		p.From = fromInt
	}

	if size := query.Get(constant.RequestParamSize); size != "" {
		sizeInt, err := strconv.Atoi(size)
		if err != nil {
			return failure.InvalidSizeParam
		}

		p.Size = sizeInt
	}

	return nil
}

// PageIndex is from / size with integer division, so from=15,size=10 reads page 1 (rows 10..19).
func (p PageRequest) PageIndex() int {
	if p.Size <= 0 {
		return 0
	}

	return p.From / p.Size
}

// Offset is the first row of the page PageIndex points at.
func (p PageRequest) Offset() int {
	return p.PageIndex() * p.Size
}

// ToQueryParams converts the window into the repository's page/limit form.
func (p PageRequest) ToQueryParams(sortBy, sortDir string) QueryParams {
	return QueryParams{
		Page:    p.PageIndex() + 1,
		Limit:   p.Size,
		SortBy:  sortBy,
		SortDir: sortDir,
	}
}
