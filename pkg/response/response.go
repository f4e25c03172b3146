package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageRef points at a neighbouring page of a listing.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination tells the client whether more pages exist around the current one.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// APIResponse is the envelope every endpoint answers with.
type APIResponse[T any] struct {
	Success    bool        `json:"success"`
	RequestID  string      `json:"request_id,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Total      *int64      `json:"total,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       T           `json:"data"`
}

// TokenResponse is returned by register, login, password update and reset.
type TokenResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id,omitempty"`
	Token     string `json:"token"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success   bool              `json:"success"`
	RequestID string            `json:"request_id,omitempty"`
	Error     string            `json:"error"`
	Details   map[string]string `json:"details,omitempty"`
}

// Success writes a success envelope with data.
func Success[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Success:   true,
		RequestID: ctx.GetString("request_id"),
		Data:      data,
	})
}

// List writes a success envelope carrying a count alongside the items.
func List[T any](ctx *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	ctx.JSON(http.StatusOK, APIResponse[[]T]{
		Success:   true,
		RequestID: ctx.GetString("request_id"),
		Count:     &n,
		Data:      items,
	})
}

// Token writes the token envelope used by register/login/reset.
func Token(ctx *gin.Context, status int, token string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, TokenResponse{
		Success:   true,
		RequestID: ctx.GetString("request_id"),
		Token:     token,
	})
}

// Error writes a failure envelope. Only the error responder should call it.
func Error(ctx *gin.Context, status int, message string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, ErrorResponse{
		Success:   false,
		RequestID: ctx.GetString("request_id"),
		Error:     message,
		Details:   details,
	})
}

// AdvancedResultsKey is where the list middleware leaves the page envelope.
const AdvancedResultsKey = "advancedResults"

// AdvancedResults writes the envelope prepared by the list middleware.
func AdvancedResults(ctx *gin.Context) {
	v, ok := ctx.Get(AdvancedResultsKey)
	if !ok {
		Error(ctx, http.StatusInternalServerError, "Server Error", nil)
		return
	}
	ctx.JSON(http.StatusOK, v)
}
