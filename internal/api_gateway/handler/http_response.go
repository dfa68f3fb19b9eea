package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api_gateway/middleware"
	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/domain/user"
)

// Error codes carried in ErrorInfo.Code
const (
	CodeValidation        = "validation"
	CodeInsufficientFunds = "insufficient_funds"
	CodeNotFound          = "not_found"
	CodeInternal          = "internal"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail names one offending request field
type FieldDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items"`
}

func NewResponse(data interface{}) *Response {
	return &Response{Data: data}
}

func NewErrorResponse(code, message string, details ...FieldDetail) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// NewPaginatedResponse creates a new paginated response
func NewPaginatedResponse(data interface{}, page, perPage, totalItems int) *Response {
	totalPages := totalItems / perPage
	if totalItems%perPage > 0 {
		totalPages++
	}

	return &Response{
		Data: data,
		Meta: &MetaInfo{
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
			TotalItems: totalItems,
		},
	}
}

func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	response := NewResponse(data)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithList sends data with a meta block holding the item count
func RespondWithList(c *gin.Context, data interface{}, count int) {
	response := NewResponse(data)
	response.Meta = &MetaInfo{TotalItems: count}
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(http.StatusOK, response)
}

func RespondWithError(c *gin.Context, statusCode int, code, message string, details ...FieldDetail) {
	response := NewErrorResponse(code, message, details...)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

func RespondWithPaginatedData(c *gin.Context, statusCode int, data interface{}, page, perPage, totalItems int) {
	response := NewPaginatedResponse(data, page, perPage, totalItems)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondValidation sends a 400 with the validation code
func RespondValidation(c *gin.Context, message string, details ...FieldDetail) {
	RespondWithError(c, http.StatusBadRequest, CodeValidation, message, details...)
}

func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, CodeNotFound, message)
}

func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, CodeInternal, "An internal server error occurred")
}

// RespondDomainError maps an error returned by a service onto its status and code
func RespondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	var validation shared.ValidationError
	var insufficient budget.InsufficientFundsError
	var snapshotMissing budget.ErrSnapshotNotFound

	switch {
	case errors.As(err, &validation):
		RespondValidation(c, err.Error(), FieldDetail{Field: validation.Field, Reason: validation.Reason})
	case errors.Is(err, user.ErrEmptyName):
		RespondValidation(c, err.Error(), FieldDetail{Field: "name", Reason: "must not be empty"})
	case errors.As(err, &insufficient):
		RespondWithError(c, http.StatusUnprocessableEntity, CodeInsufficientFunds, err.Error())
	case errors.Is(err, ledger.ErrNotFound{}), errors.Is(err, user.ErrUserNotFound{}), errors.As(err, &snapshotMissing):
		RespondNotFound(c, err.Error())
	default:
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		_ = c.Error(err)
		RespondInternalError(c)
	}
}
