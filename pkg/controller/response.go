package controller

import (
	"net/http"

	"github.com/nimburion/hrportal/pkg/middleware/requestid"
	"github.com/nimburion/hrportal/pkg/server/router"
)

// SuccessResponse represents a successful response with data
type SuccessResponse struct {
	Data      any    `json:"data"`
	RequestID string `json:"request_id,omitempty"`
}

// PageResponse is the body of a list endpoint.
type PageResponse struct {
	Data       any            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	RequestID  string         `json:"request_id,omitempty"`
}

// PaginationMeta describes the returned page and the whole matched set.
type PaginationMeta struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalMatched int `json:"total_matched"`
	TotalPages   int `json:"total_pages"`
}

// Success sends data wrapped in a SuccessResponse with HTTP 200.
func Success(c router.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: requestid.GetRequestID(c.Request().Context()),
	})
}

// Paginated sends one page of a list with HTTP 200.
func Paginated(c router.Context, data any, meta PaginationMeta) error {
	return c.JSON(http.StatusOK, PageResponse{
		Data:       data,
		Pagination: meta,
		RequestID:  requestid.GetRequestID(c.Request().Context()),
	})
}

// Error sends the response MapError derives from err.
func Error(c router.Context, err error) error {
	statusCode, errorResponse := MapError(c.Request().Context(), err)
	return c.JSON(statusCode, errorResponse)
}
