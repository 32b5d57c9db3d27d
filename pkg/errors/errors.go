package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInstallmentsNotAllowed = errors.New("installments not allowed")
	ErrUpstreamUnavailable    = errors.New("fee schedule upstream unavailable")
	ErrDataInconsistency      = errors.New("data inconsistency")
	ErrCalculationSuperseded  = errors.New("calculation superseded by a newer request")
	ErrFeeProfileNotFound     = errors.New("fee profile not found")
	ErrInvalidFeeSchedule     = errors.New("invalid fee schedule")
	ErrUnsupportedPaymentType = errors.New("unsupported payment method")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Reason  string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, reason, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Reason:  reason,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput           = "INVALID_INPUT"
	ErrCodeInstallmentsNotAllowed = "INSTALLMENTS_NOT_ALLOWED"
	ErrCodeUpstreamUnavailable    = "UPSTREAM_UNAVAILABLE"
	ErrCodeDataInconsistency      = "DATA_INCONSISTENCY"
	ErrCodeCalculationSuperseded  = "CALCULATION_SUPERSEDED"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// Reason codes attached to INVALID_INPUT and DATA_INCONSISTENCY
const (
	ReasonNegativeTotalValue       = "NEGATIVE_TOTAL_VALUE"
	ReasonAmountOutOfRange         = "AMOUNT_OUT_OF_RANGE"
	ReasonDownPaymentOutOfRange    = "DOWN_PAYMENT_OUT_OF_RANGE"
	ReasonInstallmentCountBelowOne = "INSTALLMENT_COUNT_BELOW_ONE"
	ReasonUnknownPaymentMethod     = "UNKNOWN_PAYMENT_METHOD"
	ReasonInstallmentBelowMinimum  = "INSTALLMENT_BELOW_MINIMUM"
	ReasonNegativeCost             = "NEGATIVE_COST"
	ReasonNegativeTax              = "NEGATIVE_TAX"
	ReasonNegativeFeeClamped       = "NEGATIVE_FEE_CLAMPED"
	ReasonNegativeAnticipationLoss = "NEGATIVE_ANTICIPATION_LOSS_CLAMPED"
	ReasonMaxInstallmentsExceeded  = "MAX_INSTALLMENTS_EXCEEDED"
	ReasonSingleInstallmentOnly    = "SINGLE_INSTALLMENT_ONLY"
)

func WrapInvalidInput(reason, message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidInput, reason, message, ErrInvalidInput)
}

func WrapNegativeTotalValue(total string) *BusinessError {
	return WrapInvalidInput(
		ReasonNegativeTotalValue,
		fmt.Sprintf("total value %s must not be negative", total),
	)
}

func WrapAmountOutOfRange(amount, limit string) *BusinessError {
	return WrapInvalidInput(
		ReasonAmountOutOfRange,
		fmt.Sprintf("amount %s exceeds the supported limit of %s", amount, limit),
	)
}

func WrapDownPaymentOutOfRange(down, total string) *BusinessError {
	return WrapInvalidInput(
		ReasonDownPaymentOutOfRange,
		fmt.Sprintf("down payment %s must be between 0 and total value %s", down, total),
	)
}

func WrapInstallmentCountBelowOne(count int) *BusinessError {
	return WrapInvalidInput(
		ReasonInstallmentCountBelowOne,
		fmt.Sprintf("installment count %d must be at least 1", count),
	)
}

func WrapUnknownPaymentMethod(method string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		ReasonUnknownPaymentMethod,
		fmt.Sprintf("payment method %q is not supported", method),
		ErrUnsupportedPaymentType,
	)
}

func WrapInstallmentBelowMinimum(value, minimum string) *BusinessError {
	return WrapInvalidInput(
		ReasonInstallmentBelowMinimum,
		fmt.Sprintf("installment value %s is below the minimum of %s", value, minimum),
	)
}

func WrapInstallmentsNotAllowed(method string, count int) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentsNotAllowed,
		ReasonSingleInstallmentOnly,
		fmt.Sprintf("payment method %s does not accept %d installments", method, count),
		ErrInstallmentsNotAllowed,
	)
}

func WrapMaxInstallmentsExceeded(method string, count, max int) *BusinessError {
	return NewBusinessError(
		ErrCodeInstallmentsNotAllowed,
		ReasonMaxInstallmentsExceeded,
		fmt.Sprintf("payment method %s accepts at most %d installments, got %d", method, max, count),
		ErrInstallmentsNotAllowed,
	)
}

func WrapUpstreamUnavailable(clinicID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeUpstreamUnavailable,
		"",
		fmt.Sprintf("fee schedule lookup for clinic %s failed", clinicID),
		errors.Join(ErrUpstreamUnavailable, err),
	)
}

func WrapDataInconsistency(reason, message string) *BusinessError {
	return NewBusinessError(ErrCodeDataInconsistency, reason, message, ErrDataInconsistency)
}

func WrapCalculationSuperseded(session string) *BusinessError {
	return NewBusinessError(
		ErrCodeCalculationSuperseded,
		"",
		fmt.Sprintf("a newer calculation for session %s is in flight", session),
		ErrCalculationSuperseded,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"",
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"",
		"Cache operation failed",
		err,
	)
}

// ReasonOf extracts the reason code from err, or "" when err is not a BusinessError.
func ReasonOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Reason
	}
	return ""
}
