package models

import "math"

// PageRequest is a 1-based page selector.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of items that precede the requested page. It
// saturates at math.MaxInt instead of wrapping.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Pagination describes where a returned page sits in the full result.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// NewPagination computes the metadata for total matching items.
func NewPagination(req PageRequest, total int) Pagination {
	pages := 0
	if req.Limit > 0 {
		pages = total / req.Limit
		if total%req.Limit != 0 {
			pages++
		}
	}
	return Pagination{
		CurrentPage:  req.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: req.Limit,
	}
}

// Paginate returns the slice of items selected by req. Out-of-range pages
// are empty.
func Paginate[T any](items []T, req PageRequest) []T {
	start := req.Offset()
	if start < 0 || start >= len(items) || req.Limit <= 0 {
		return nil
	}
	end := start + req.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type SurveyList struct {
	Surveys    []Survey   `json:"surveys"`
	Pagination Pagination `json:"pagination"`
}

type ResponseList struct {
	Responses  []Response `json:"responses"`
	Pagination Pagination `json:"pagination"`
}

type RespondentList struct {
	Respondents []Respondent `json:"respondents"`
	Pagination  Pagination   `json:"pagination"`
}
