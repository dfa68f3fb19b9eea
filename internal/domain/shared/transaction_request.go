package shared

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds request amounts to reject obviously malformed input.
var MaxAmount = decimal.NewFromInt(1_000_000)

// TransactionRequest is the loose wire shape submitted by clients.
type TransactionRequest struct {
	Type              string   `json:"type"`
	Asset             string   `json:"asset"`
	Amount            float64  `json:"amount"`
	Price             float64  `json:"price"`
	TransferDirection string   `json:"transferDirection,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	Fee               *float64 `json:"fee,omitempty"`
}

// Request is one of BuyRequest, SellRequest or TransferRequest.
type Request interface {
	Kind() TransactionType
	AssetSymbol() string
	Quantity() decimal.Decimal
	// UnitPrice is always 1 for transfers.
	UnitPrice() decimal.Decimal
	Validate() error
	isRequest()
}

// Annotations are optional descriptive fields carried along with any request.
type Annotations struct {
	Notes string
	Fee   decimal.NullDecimal
}

type BuyRequest struct {
	Asset  string
	Amount decimal.Decimal
	Price  decimal.Decimal
	Annotations
}

type SellRequest struct {
	Asset  string
	Amount decimal.Decimal
	Price  decimal.Decimal
	Annotations
}

type TransferRequest struct {
	Asset     string
	Amount    decimal.Decimal
	Direction TransferDirection
	Annotations
}

func (BuyRequest) Kind() TransactionType        { return TransactionTypeBuy }
func (r BuyRequest) AssetSymbol() string        { return r.Asset }
func (r BuyRequest) Quantity() decimal.Decimal  { return r.Amount }
func (r BuyRequest) UnitPrice() decimal.Decimal { return r.Price }
func (r BuyRequest) Validate() error {
	return validateTrade(r.Asset, r.Amount, r.Price)
}
func (BuyRequest) isRequest() {}

func (SellRequest) Kind() TransactionType        { return TransactionTypeSell }
func (r SellRequest) AssetSymbol() string        { return r.Asset }
func (r SellRequest) Quantity() decimal.Decimal  { return r.Amount }
func (r SellRequest) UnitPrice() decimal.Decimal { return r.Price }
func (r SellRequest) Validate() error {
	return validateTrade(r.Asset, r.Amount, r.Price)
}
func (SellRequest) isRequest() {}

func (TransferRequest) Kind() TransactionType       { return TransactionTypeTransfer }
func (r TransferRequest) AssetSymbol() string       { return r.Asset }
func (r TransferRequest) Quantity() decimal.Decimal { return r.Amount }
func (TransferRequest) UnitPrice() decimal.Decimal  { return decimal.NewFromInt(1) }

// Validate accepts an empty direction, which EffectiveDirection treats as send.
func (r TransferRequest) Validate() error {
	if err := validateAsset(r.Asset); err != nil {
		return err
	}
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	if r.Direction != "" && !r.Direction.Valid() {
		return ValidationError{Field: "transferDirection", Reason: "must be send or receive"}
	}
	return nil
}
func (TransferRequest) isRequest() {}

// EffectiveDirection returns the direction with the send default applied.
func (r TransferRequest) EffectiveDirection() TransferDirection {
	if r.Direction == "" {
		return TransferDirectionSend
	}
	return r.Direction
}

// AnnotationsOf returns the optional fields of any request variant.
func AnnotationsOf(r Request) Annotations {
	switch v := r.(type) {
	case BuyRequest:
		return v.Annotations
	case SellRequest:
		return v.Annotations
	case TransferRequest:
		return v.Annotations
	}
	return Annotations{}
}

// ParseRequest converts the wire shape into a validated Request.
// Any price supplied with a transfer is dropped.
func ParseRequest(raw TransactionRequest) (Request, error) {
	kind := TransactionType(strings.TrimSpace(raw.Type))
	if !kind.Valid() {
		return nil, ValidationError{Field: "type", Reason: ErrUnknownTransactionType.Error()}
	}

	amount, err := decimalFromFloat("amount", raw.Amount)
	if err != nil {
		return nil, err
	}

	notes := Annotations{Notes: raw.Notes}
	if raw.Fee != nil {
		fee, err := decimalFromFloat("fee", *raw.Fee)
		if err != nil {
			return nil, err
		}
		if fee.IsNegative() {
			return nil, ValidationError{Field: "fee", Reason: "must not be negative"}
		}
		notes.Fee = decimal.NewNullDecimal(fee)
	}

	asset := strings.TrimSpace(raw.Asset)

	var req Request
	switch kind {
	case TransactionTypeTransfer:
		dir := TransferDirection(strings.TrimSpace(raw.TransferDirection))
		if dir != "" && !dir.Valid() {
			return nil, ValidationError{Field: "transferDirection", Reason: ErrUnknownDirection.Error()}
		}
		req = TransferRequest{Asset: asset, Amount: amount, Direction: dir, Annotations: notes}
	default:
		price, err := decimalFromFloat("price", raw.Price)
		if err != nil {
			return nil, err
		}
		if kind == TransactionTypeBuy {
			req = BuyRequest{Asset: asset, Amount: amount, Price: price, Annotations: notes}
		} else {
			req = SellRequest{Asset: asset, Amount: amount, Price: price, Annotations: notes}
		}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func decimalFromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, ValidationError{Field: field, Reason: "must be a finite number"}
	}
	return decimal.NewFromFloat(v), nil
}

func validateTrade(asset string, amount, price decimal.Decimal) error {
	if err := validateAsset(asset); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if !price.IsPositive() {
		return ValidationError{Field: "price", Reason: "must be greater than 0"}
	}
	return nil
}

func validateAsset(asset string) error {
	if strings.TrimSpace(asset) == "" {
		return ValidationError{Field: "asset", Reason: "is required"}
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	if amount.GreaterThan(MaxAmount) {
		return ValidationError{Field: "amount", Reason: "must not exceed " + MaxAmount.String()}
	}
	return nil
}
