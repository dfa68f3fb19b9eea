package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api_gateway/service"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/logger"
)

const dateOnly = "2006-01-02"

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	currency           string
	logger             *slog.Logger
}

func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService, currency string) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		currency:           currency,
		logger:             logger,
	}
}

// Create submits a new transaction and returns it with the resulting budget
func (h *TransactionHandler) Create(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), h.logger)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid transaction request body", "error", err)
		RespondValidation(c, "Invalid request body: "+err.Error(), bindingDetails(err)...)
		return
	}

	result, err := h.transactionService.CreateTransaction(c.Request.Context(), req.toDomain())
	if err != nil {
		RespondDomainError(c, log, err)
		return
	}

	RespondCreated(c, TransactionResultResponse{
		Transaction: mapTransactionToResponse(result.Transaction),
		Budget:      mapBudgetToResponse(result.Budget),
	})
}

// List returns the transactions matching the query, newest first by default
func (h *TransactionHandler) List(c *gin.Context) {
	var params TransactionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondValidation(c, "Invalid query parameters: "+err.Error(), bindingDetails(err)...)
		return
	}
	filter, err := params.TransactionFilterParams.toFilter()
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	txs := h.transactionService.ListTransactions(c.Request.Context(), ledger.Query{
		Filter:    filter,
		SortBy:    ledger.SortField(params.Sort),
		Direction: ledger.SortDirection(params.Order),
		Limit:     params.Limit,
	})
	RespondWithList(c, mapTransactionsToResponse(txs), len(txs))
}

// Summary aggregates the transactions matching the filter
func (h *TransactionHandler) Summary(c *gin.Context) {
	var params TransactionFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondValidation(c, "Invalid query parameters: "+err.Error(), bindingDetails(err)...)
		return
	}
	filter, err := params.toFilter()
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	summary := h.transactionService.Summarize(c.Request.Context(), filter)
	RespondOK(c, mapSummaryToResponse(summary, h.currency))
}

func (h *TransactionHandler) GetByID(c *gin.Context) {
	tx, err := h.transactionService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapTransactionToResponse(tx))
}

// Delete removes a transaction and returns it with the compensated budget
func (h *TransactionHandler) Delete(c *gin.Context) {
	log := logger.FromContext(c.Request.Context(), h.logger)

	result, err := h.transactionService.DeleteTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, log, err)
		return
	}

	RespondOK(c, TransactionResultResponse{
		Transaction: mapTransactionToResponse(result.Transaction),
		Budget:      mapBudgetToResponse(result.Budget),
	})
}

// toFilter parses the date bounds. A date without a time covers the whole day.
func (p TransactionFilterParams) toFilter() (ledger.Filter, error) {
	filter := ledger.Filter{
		Type:   shared.TransactionType(p.Type),
		Asset:  strings.TrimSpace(p.Asset),
		Status: shared.TransactionStatus(p.Status),
	}

	if p.DateFrom != "" {
		from, _, err := parseDate("dateFrom", p.DateFrom)
		if err != nil {
			return ledger.Filter{}, err
		}
		filter.DateFrom = &from
	}
	if p.DateTo != "" {
		to, dayOnly, err := parseDate("dateTo", p.DateTo)
		if err != nil {
			return ledger.Filter{}, err
		}
		if dayOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.DateTo = &to
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return ledger.Filter{}, shared.ValidationError{Field: "dateFrom", Reason: "must not be after dateTo"}
	}
	return filter, nil
}

func parseDate(field, value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, shared.ValidationError{Field: field, Reason: "must be YYYY-MM-DD or RFC 3339"}
}
