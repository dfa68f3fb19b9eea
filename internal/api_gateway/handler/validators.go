package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/portfolio-ledger/internal/domain/ledger"
	"github.com/portfolio-ledger/internal/domain/shared"
)

var (
	registerOnce sync.Once
	registerErr  error
)

type customValidation struct {
	tag string
	fn  validator.Func
}

var customValidations = []customValidation{
	{tag: "transaction_type", fn: validateTransactionType},
	{tag: "transaction_type_filter", fn: validateTransactionTypeFilter},
	{tag: "status_filter", fn: validateStatusFilter},
	{tag: "transfer_direction", fn: validateTransferDirection},
	{tag: "sort_field", fn: validateSortField},
}

// RegisterValidators installs the custom binding tags on gin's validator.
// Safe to call more than once; every call returns the first call's result.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not a go-playground validator")
			return
		}
		registerErr = registerOn(v, customValidations)
	})
	return registerErr
}

func registerOn(v *validator.Validate, validations []customValidation) error {
	v.RegisterTagNameFunc(fieldName)

	var errs []error
	for _, cv := range validations {
		if err := v.RegisterValidation(cv.tag, cv.fn); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %q validator: %w", cv.tag, err))
		}
	}
	return errors.Join(errs...)
}

// fieldName reports fields by their json or form name
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

// Values are trimmed the same way shared.ParseRequest trims them.
func validateTransactionType(fl validator.FieldLevel) bool {
	return shared.TransactionType(strings.TrimSpace(fl.Field().String())).Valid()
}

func validateTransactionTypeFilter(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == ledger.FilterAll || shared.TransactionType(value).Valid()
}

func validateStatusFilter(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == ledger.FilterAll || shared.TransactionStatus(value).Valid()
}

func validateTransferDirection(fl validator.FieldLevel) bool {
	dir := shared.TransferDirection(strings.TrimSpace(fl.Field().String()))
	return dir == "" || dir.Valid()
}

func validateSortField(fl validator.FieldLevel) bool {
	return ledger.SortField(fl.Field().String()).Valid()
}

// bindingDetails turns a binding failure into per-field details
func bindingDetails(err error) []FieldDetail {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	details := make([]FieldDetail, 0, len(errs))
	for _, fe := range errs {
		details = append(details, FieldDetail{Field: fe.Field(), Reason: describe(fe)})
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min", "max", "oneof":
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	case "transaction_type":
		return "must be buy, sell or transfer"
	case "transfer_direction":
		return "must be send or receive"
	}
	return "failed " + fe.Tag()
}
