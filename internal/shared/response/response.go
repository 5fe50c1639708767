package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		// ceil(total / limit)
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

type ApiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error any             `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:    true,
		Data:  data,
		Meta:  meta,
		Error: nil,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	c.JSON(status, ApiEnvelope{
		Ok:   false,
		Data: nil,
		Meta: nil,
		Error: map[string]interface{}{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}

const MaxPageSize = 100

// List writes the whole slice unless the client asked for a page via ?page or ?page_size.
func List[T any](c *gin.Context, status int, items []T) {
	total := int64(len(items))
	_, hasPage := c.GetQuery("page")
	_, hasSize := c.GetQuery("page_size")
	if !hasPage && !hasSize {
		meta := PaginationMeta{Total: total}
		Success(c, status, items, &meta)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	start, end := len(items), len(items)
	// pageSize <= MaxPageSize, so the page count and offsets cannot overflow.
	if pages := (len(items) + pageSize - 1) / pageSize; page <= pages {
		start = (page - 1) * pageSize
		end = min(start+pageSize, len(items))
	}

	meta := NewPaginationMeta(total, page, pageSize)
	Success(c, status, items[start:end], &meta)
}
