package models

import (
	"strings"
	"time"
)

// Todo represents a task owned by a single user
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StatusFilter narrows a listing by completion state
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatusFilter normalises unknown values to StatusAll.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusAll
	}
}

// SortField is a sortable todo attribute
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
)

// ParseSortField normalises unknown values to SortByCreatedAt.
func ParseSortField(s string) SortField {
	switch SortField(strings.TrimSpace(s)) {
	case SortByUpdatedAt:
		return SortByUpdatedAt
	case SortByTitle:
		return SortByTitle
	default:
		return SortByCreatedAt
	}
}

// SortOrder is the listing direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder normalises unknown values to SortDesc.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(strings.ToLower(strings.TrimSpace(s))) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// TodoFilter is the predicate shared by the count and the page fetch.
type TodoFilter struct {
	UserID string
	Status StatusFilter
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// TodoQuery describes one page of a listing.
type TodoQuery struct {
	Page      int
	Limit     int
	Status    StatusFilter
	SortField SortField
	SortOrder SortOrder
}

// Normalize applies defaults and bounds. Page or limit below 1 fall back to
// the defaults, limit is capped at MaxLimit and unknown enum values are
// replaced with their defaults.
func (q TodoQuery) Normalize() TodoQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Status = ParseStatusFilter(string(q.Status))
	q.SortField = ParseSortField(string(q.SortField))
	q.SortOrder = ParseSortOrder(string(q.SortOrder))
	return q
}

// Offset returns the number of rows to skip for the page.
func (q TodoQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta describes where a page sits within the full result set
type PageMeta struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPageMeta computes pagination metadata. limit must be positive.
func NewPageMeta(page, limit, totalCount int) PageMeta {
	totalPages := (totalCount + limit - 1) / limit
	return PageMeta{
		Page:        page,
		Limit:       limit,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// TodoPage is a listing response
type TodoPage struct {
	Data []Todo   `json:"data"`
	Meta PageMeta `json:"meta"`
}
