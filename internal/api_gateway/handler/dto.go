package handler

import (
	"time"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
)

// CreateTransactionRequest is the POST /transactions body
type CreateTransactionRequest struct {
	Type              string   `json:"type" binding:"required,transaction_type"`
	Asset             string   `json:"asset" binding:"required,max=32"`
	Amount            float64  `json:"amount" binding:"required,gt=0"`
	Price             float64  `json:"price"` // Checked per type by shared.ParseRequest
	TransferDirection string   `json:"transferDirection" binding:"omitempty,transfer_direction"`
	Notes             string   `json:"notes" binding:"max=500"`
	Fee               *float64 `json:"fee" binding:"omitempty,gte=0"`
}

func (r CreateTransactionRequest) toDomain() shared.TransactionRequest {
	return shared.TransactionRequest{
		Type:              r.Type,
		Asset:             r.Asset,
		Amount:            r.Amount,
		Price:             r.Price,
		TransferDirection: r.TransferDirection,
		Notes:             r.Notes,
		Fee:               r.Fee,
	}
}

// TransactionFilterParams are the query parameters shared by list and summary
type TransactionFilterParams struct {
	Type     string `form:"type" binding:"omitempty,transaction_type_filter"`
	Asset    string `form:"asset"`
	Status   string `form:"status" binding:"omitempty,status_filter"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}

// TransactionListParams adds ordering and a limit to the filter
type TransactionListParams struct {
	TransactionFilterParams
	Sort  string `form:"sort,default=date" binding:"sort_field"`
	Order string `form:"order,default=desc" binding:"oneof=asc desc"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ReportParams selects one page of the projected ledger
type ReportParams struct {
	TransactionFilterParams
	IncludeDeleted bool `form:"includeDeleted"`
	Page           int  `form:"page,default=1" binding:"min=1"`
	PerPage        int  `form:"per_page,default=20" binding:"min=1,max=100"`
}

// UpdateUserRequest is the PUT /user body. Budget fields are not accepted.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	ImageURL *string `json:"imageUrl" binding:"omitempty,max=2048"`
}

type TransactionResponse struct {
	ID                string   `json:"id"`
	Type              string   `json:"type"`
	Asset             string   `json:"asset"`
	Amount            float64  `json:"amount"`
	Price             float64  `json:"price"`
	Value             float64  `json:"value"`
	Date              string   `json:"date"`
	Status            string   `json:"status"`
	TransferDirection string   `json:"transferDirection,omitempty"`
	UserID            string   `json:"userId"`
	Notes             string   `json:"notes,omitempty"`
	Fee               *float64 `json:"fee,omitempty"`
}

type BudgetResponse struct {
	UserID          string  `json:"userId"`
	Cash            float64 `json:"cash"`
	Investments     float64 `json:"investments"`
	TotalBalance    float64 `json:"totalBalance"`
	ActivePositions int     `json:"activePositions"`
	Version         int64   `json:"version"`
	UpdatedAt       string  `json:"updatedAt"`
}

// TransactionResultResponse is returned by create and delete
type TransactionResultResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Budget      BudgetResponse      `json:"budget"`
}

type SummaryResponse struct {
	TotalBuy      float64          `json:"totalBuy"`
	TotalSell     float64          `json:"totalSell"`
	TotalTransfer float64          `json:"totalTransfer"`
	NetValue      float64          `json:"netValue"`
	Count         int              `json:"count"`
	Display       SummaryFormatted `json:"display"`
}

// SummaryFormatted holds the totals rendered in the configured currency
type SummaryFormatted struct {
	Currency      string `json:"currency"`
	TotalBuy      string `json:"totalBuy"`
	TotalSell     string `json:"totalSell"`
	TotalTransfer string `json:"totalTransfer"`
	NetValue      string `json:"netValue"`
}

type UserResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	ImageURL string         `json:"imageUrl"`
	Budget   BudgetResponse `json:"budget"`
}

type ProjectionResponse struct {
	TransactionResponse
	Deleted      bool   `json:"deleted"`
	DeletedAt    string `json:"deletedAt,omitempty"`
	LastSequence int64  `json:"lastSequence"`
}

func mapTransactionToResponse(tx ledger.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                tx.ID,
		Type:              string(tx.Type),
		Asset:             tx.Asset,
		Amount:            tx.Amount.InexactFloat64(),
		Price:             tx.Price.InexactFloat64(),
		Value:             tx.Value.InexactFloat64(),
		Date:              tx.Date.Format(time.RFC3339),
		Status:            string(tx.Status),
		TransferDirection: string(tx.Direction()),
		UserID:            tx.UserID,
		Notes:             tx.Notes,
	}
	if tx.Fee.Valid {
		fee := tx.Fee.Decimal.InexactFloat64()
		resp.Fee = &fee
	}
	return resp
}

func mapTransactionsToResponse(txs []ledger.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, mapTransactionToResponse(tx))
	}
	return out
}

func mapBudgetToResponse(b budget.Budget) BudgetResponse {
	return BudgetResponse{
		UserID:          b.UserID,
		Cash:            b.Cash.InexactFloat64(),
		Investments:     b.Investments.InexactFloat64(),
		TotalBalance:    b.TotalBalance.InexactFloat64(),
		ActivePositions: b.ActivePositions,
		Version:         b.Version,
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

func mapSummaryToResponse(s ledger.Summary, currency string) SummaryResponse {
	return SummaryResponse{
		TotalBuy:      s.TotalBuy.InexactFloat64(),
		TotalSell:     s.TotalSell.InexactFloat64(),
		TotalTransfer: s.TotalTransfer.InexactFloat64(),
		NetValue:      s.NetValue.InexactFloat64(),
		Count:         s.Count,
		Display: SummaryFormatted{
			Currency:      currency,
			TotalBuy:      FormatMoney(s.TotalBuy, currency),
			TotalSell:     FormatMoney(s.TotalSell, currency),
			TotalTransfer: FormatMoney(s.TotalTransfer, currency),
			NetValue:      FormatMoney(s.NetValue, currency),
		},
	}
}

func mapProjectionToResponse(p *ledger.Projection) ProjectionResponse {
	resp := ProjectionResponse{
		TransactionResponse: mapTransactionToResponse(p.Transaction),
		Deleted:             p.Deleted,
		LastSequence:        p.LastSequence,
	}
	if p.DeletedAt != nil {
		resp.DeletedAt = p.DeletedAt.Format(time.RFC3339)
	}
	return resp
}
