package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-ledger/internal/api_gateway/service"
)

// ReportHandler serves the mirrored read models
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ListTransactions returns one page of the projected ledger
func (h *ReportHandler) ListTransactions(c *gin.Context) {
	var params ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondValidation(c, "Invalid query parameters: "+err.Error(), bindingDetails(err)...)
		return
	}
	filter, err := params.TransactionFilterParams.toFilter()
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	items, total, err := h.reportService.ListTransactions(c.Request.Context(), filter, params.IncludeDeleted, params.Page, params.PerPage)
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}

	data := make([]ProjectionResponse, 0, len(items))
	for _, p := range items {
		data = append(data, mapProjectionToResponse(p))
	}
	RespondWithPaginatedData(c, http.StatusOK, data, params.Page, params.PerPage, int(total))
}

// LatestSnapshot returns the last budget written to Postgres
func (h *ReportHandler) LatestSnapshot(c *gin.Context) {
	b, err := h.reportService.LatestSnapshot(c.Request.Context())
	if err != nil {
		RespondDomainError(c, h.logger, err)
		return
	}
	RespondOK(c, mapBudgetToResponse(*b))
}
