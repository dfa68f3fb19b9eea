package components

import (
	"context"
	"log/slog"

	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/portfolio-ledger/internal/reconciliation/service"
	"github.com/shopspring/decimal"
)

// RequestValidatorImpl implements the RequestValidator interface
type RequestValidatorImpl struct {
	maxAmount decimal.Decimal
	logger    *slog.Logger
}

// NewRequestValidator creates a validator bounding amounts by maxAmount.
// A non-positive maxAmount falls back to shared.MaxAmount.
func NewRequestValidator(maxAmount decimal.Decimal, logger *slog.Logger) service.RequestValidator {
	if !maxAmount.IsPositive() || maxAmount.GreaterThan(shared.MaxAmount) {
		maxAmount = shared.MaxAmount
	}
	return &RequestValidatorImpl{
		maxAmount: maxAmount,
		logger:    logger,
	}
}

func (v *RequestValidatorImpl) Validate(_ context.Context, request shared.Request) error {
	if err := request.Validate(); err != nil {
		v.logger.Debug("Request failed validation", "type", string(request.Kind()), "error", err)
		return err
	}
	if request.Quantity().GreaterThan(v.maxAmount) {
		return shared.ValidationError{Field: "amount", Reason: "must not exceed " + v.maxAmount.String()}
	}
	return nil
}
