package components

import (
	"context"
	"testing"

	"github.com/portfolio-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRequestValidator_Validate(t *testing.T) {
	validator := NewRequestValidator(dec("500"), testLogger())
	ctx := context.Background()

	tests := []struct {
		name      string
		request   shared.Request
		wantField string
	}{
		{
			name:    "valid buy",
			request: shared.BuyRequest{Asset: "AAPL", Amount: dec("5"), Price: dec("178.72")},
		},
		{
			name:    "valid transfer without direction",
			request: shared.TransferRequest{Asset: "USD", Amount: dec("200")},
		},
		{
			name:      "zero amount",
			request:   shared.SellRequest{Asset: "AAPL", Amount: decimal.Zero, Price: dec("1")},
			wantField: "amount",
		},
		{
			name:      "missing price",
			request:   shared.BuyRequest{Asset: "AAPL", Amount: dec("1")},
			wantField: "price",
		},
		{
			name:      "blank asset",
			request:   shared.TransferRequest{Asset: "  ", Amount: dec("1")},
			wantField: "asset",
		},
		{
			name:      "above configured maximum",
			request:   shared.TransferRequest{Asset: "USD", Amount: dec("500.01")},
			wantField: "amount",
		},
		{
			name:      "unknown direction",
			request:   shared.TransferRequest{Asset: "USD", Amount: dec("1"), Direction: "sideways"},
			wantField: "transferDirection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(ctx, tt.request)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, shared.ValidationError{Field: tt.wantField})
		})
	}
}

func TestNewRequestValidator_FallsBackToHardLimit(t *testing.T) {
	validator := NewRequestValidator(decimal.Zero, testLogger())

	err := validator.Validate(context.Background(), shared.TransferRequest{Asset: "USD", Amount: dec("1000000")})
	assert.NoError(t, err)

	err = validator.Validate(context.Background(), shared.TransferRequest{Asset: "USD", Amount: dec("1000000.01")})
	assert.ErrorIs(t, err, shared.ValidationError{Field: "amount"})
}
