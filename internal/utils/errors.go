package utils

import (
	"errors"
	"fmt"
)

// Common application errors used across services.
var (
	ErrOrderNotFound     = errors.New("ORDER_NOT_FOUND")
	ErrProductNotFound   = errors.New("PRODUCT_NOT_FOUND")
	ErrQueueItemNotFound = errors.New("QUEUE_ITEM_NOT_FOUND")
	ErrCartItemNotFound  = errors.New("CART_ITEM_NOT_FOUND")
	ErrConflict          = errors.New("STATUS_CONFLICT")
	ErrEmptyCart         = errors.New("EMPTY_CART")
	ErrInvalidToken      = errors.New("INVALID_TOKEN")
	ErrRateLimited       = errors.New("RATE_LIMITED")
)

// ValidationError reports a violated business rule. The rule is a stable
// machine-readable code; the message names the specific violation so callers
// are never left guessing which input was rejected.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Validation constructs a ValidationError.
func Validation(rule, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// AsValidation unwraps err as a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Rules used in ValidationError.Rule.
const (
	RuleIllegalTransition      = "ILLEGAL_TRANSITION"
	RuleTrackingRequired       = "TRACKING_NUMBER_REQUIRED"
	RuleNoteRequired           = "ADMIN_NOTE_REQUIRED"
	RuleRequiredCustomization  = "REQUIRED_CUSTOMIZATION_MISSING"
	RuleNonRefundableAccept    = "NON_REFUNDABLE_NOT_ACCEPTED"
	RuleInvalidQuantity        = "INVALID_QUANTITY"
	RuleUnknownChoice          = "UNKNOWN_CHOICE"
	RuleInvalidSelection       = "INVALID_SELECTION"
	RuleMissingField           = "MISSING_FIELD"
)
