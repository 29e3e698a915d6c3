package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies an error for retry and surface decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidTransition
	KindExternalVerification
	KindTransientIO
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindExternalVerification:
		return "external_verification_failed"
	case KindTransientIO:
		return "transient_io"
	default:
		return "unknown"
	}
}

// Error carries the kind, a machine readable reason and the retryable flag.
type Error struct {
	Kind       Kind   `json:"-"`
	Reason     string `json:"reason,omitempty"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"retryable"`
	DevDetails string `json:"dev_details,omitempty"`

	cause error
}

// Error implements error.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches sentinels by reason when the target has one, otherwise by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Reason != "" {
		return e.Reason == t.Reason
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition}
	ErrExternalVerification = &Error{Kind: KindExternalVerification}
	ErrTransientIO          = &Error{Kind: KindTransientIO}

	ErrOrderNotFound   = &Error{Kind: KindNotFound, Reason: ReasonOrderNotFound}
	ErrPaymentNotFound = &Error{Kind: KindNotFound, Reason: ReasonPaymentNotFound}
	ErrOrderCancelled  = &Error{Kind: KindInvalidTransition, Reason: ReasonOrderCancelled}
	ErrTimeout         = &Error{Kind: KindTransientIO, Reason: ReasonTimeout}
)

const (
	ReasonOrderNotFound   = "ORDER_NOT_FOUND"
	ReasonPaymentNotFound = "PAYMENT_NOT_FOUND"
	ReasonOrderCancelled  = "ORDER_CANCELLED"
	ReasonTimeout         = "TIMEOUT"
	ReasonMissingProof    = "PAYMENT_CONFIRMATION_MISSING"
)

// Validation creates a non-retryable input error.
func Validation(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// MissingPaymentProof is returned when an electronic payment arrives without a transaction id.
func MissingPaymentProof() *Error {
	e := Validation("payment confirmation missing")
	e.Reason = ReasonMissingProof
	return e
}

// NotFound creates an error for an absent entity.
func NotFound(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    http.StatusNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// OrderNotFound creates the order flavour of NotFound.
func OrderNotFound(id string) *Error {
	e := NotFound("order", id)
	e.Reason = ReasonOrderNotFound
	return e
}

// PaymentNotFound creates the payment flavour of NotFound.
func PaymentNotFound(id string) *Error {
	e := NotFound("payment", id)
	e.Reason = ReasonPaymentNotFound
	return e
}

// InvalidTransition rejects an illegal state change.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("invalid transition: %s -> %s", from, to),
	}
}

// OrderCancelled rejects operations on a cancelled order.
func OrderCancelled(id string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Reason:  ReasonOrderCancelled,
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("order is cancelled: %s", id),
	}
}

// ExternalVerificationFailed reports a rejected payment proof. Never retried automatically.
func ExternalVerificationFailed(details string) *Error {
	return &Error{
		Kind:       KindExternalVerification,
		Code:       http.StatusPaymentRequired,
		Message:    "payment verification failed",
		DevDetails: details,
	}
}

// TransientIO wraps a storage or network blip. Retryable.
func TransientIO(message string, cause error) *Error {
	return &Error{
		Kind:      KindTransientIO,
		Code:      http.StatusServiceUnavailable,
		Message:   message,
		Retryable: true,
		cause:     cause,
	}
}

// Timeout reports an operation that did not complete in time. Retryable.
func Timeout(op string, after time.Duration) *Error {
	return &Error{
		Kind:      KindTransientIO,
		Reason:    ReasonTimeout,
		Code:      http.StatusGatewayTimeout,
		Message:   fmt.Sprintf("%s timed out after %s", op, after),
		Retryable: true,
	}
}

// Wrap converts any error into *Error. Unknown errors are non-retryable.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{
		Kind:       KindUnknown,
		Code:       http.StatusInternalServerError,
		Message:    err.Error(),
		DevDetails: fmt.Sprintf("%+v", err),
	}
}

// KindOf returns the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the caller may retry err.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return false
}
