package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mvergara-dev/project-management-api/internal/constants"
)

// Page is the validated page/limit pair parsed from a list request.
type Page struct {
	Number int
	Limit  int
}

// PageMeta is the pagination block echoed back in list responses.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ParsePage reads the page and limit query parameters, clamping both to
// the configured bounds.
func ParsePage(c *gin.Context) Page {
	number, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if number < 1 {
		number = 1
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return Page{Number: number, Limit: limit}
}

// Meta pairs the page with the total row count of the query it narrowed.
func (p Page) Meta(total int64) PageMeta {
	return PageMeta{Page: p.Number, Limit: p.Limit, Total: total}
}
