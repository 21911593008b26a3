package stripe

import (
	"errors"
	"fmt"

	"github.com/ojingolabs/stripe-go/internal/api"
)

// Sentinel errors for errors.Is() checks. These are configuration
// errors: they are produced before any network activity.
var (
	// ErrMissingAPIKey is returned by New when neither key is provided.
	ErrMissingAPIKey = errors.New("an API key is required")

	// ErrMissingPublishableKey is returned when an operation requires a
	// publishable key and the client has none.
	ErrMissingPublishableKey = errors.New("publishable key is required")

	// ErrMissingSecretKey is returned when an operation requires a
	// secret key and the client has none.
	ErrMissingSecretKey = errors.New("secret key is required")

	// ErrConflictingCursors is returned when a list operation is given
	// both a before and an after cursor.
	ErrConflictingCursors = errors.New("before and after cursors are mutually exclusive")

	// ErrNilParams is returned when a required parameter struct is nil.
	ErrNilParams = errors.New("params cannot be nil")

	// ErrNoDefaultClient is returned by package-level operations when
	// SetDefaultClient has not been called.
	ErrNoDefaultClient = errors.New("no default client configured")

	// ErrUnknownShippingMethod is returned when an order's selected
	// shipping method id does not match any of its shipping methods.
	ErrUnknownShippingMethod = errors.New("selected shipping method is not offered by the order")
)

// CardErrorCode identifies what was wrong with a payment instrument.
type CardErrorCode string

// Card error sub-codes. The first four are usually detectable locally;
// the rest are reported by the server.
const (
	CardInvalidNumber   CardErrorCode = "invalid_number"
	CardInvalidExpMonth CardErrorCode = "invalid_expiry_month"
	CardInvalidExpYear  CardErrorCode = "invalid_expiry_year"
	CardInvalidCVC      CardErrorCode = "invalid_cvc"
	CardIncorrectNumber CardErrorCode = "incorrect_number"
	CardExpired         CardErrorCode = "expired_card"
	CardDeclined        CardErrorCode = "card_declined"
	CardProcessingError CardErrorCode = "processing_error"
	CardIncorrectCVC    CardErrorCode = "incorrect_cvc"
)

var cardErrorCodes = map[string]CardErrorCode{
	"invalid_number":       CardInvalidNumber,
	"invalid_expiry_month": CardInvalidExpMonth,
	"invalid_expiry_year":  CardInvalidExpYear,
	"invalid_cvc":          CardInvalidCVC,
	"incorrect_number":     CardIncorrectNumber,
	"expired_card":         CardExpired,
	"card_declined":        CardDeclined,
	"processing_error":     CardProcessingError,
	"incorrect_cvc":        CardIncorrectCVC,
}

// StripeError is implemented by all errors produced by request
// outcomes, so callers can fence off SDK errors from their own.
type StripeError interface {
	error
	StripeError() // marker method
}

// ConnectionError indicates that no usable response was obtained.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error { return e.Err }

// StripeError implements the StripeError interface.
func (e *ConnectionError) StripeError() {}

// InvalidRequestError indicates the request named a bad parameter.
type InvalidRequestError struct {
	StatusCode int
	Message    string
	Param      string // the offending parameter
}

func (e *InvalidRequestError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid request: %s (param: %s)", e.Message, e.Param)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}

// StripeError implements the StripeError interface.
func (e *InvalidRequestError) StripeError() {}

// APIError is an unclassified server-side failure, including a 2xx
// response whose body could not be decoded into the expected entity.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// StripeError implements the StripeError interface.
func (e *APIError) StripeError() {}

// CardError indicates a problem with the payment instrument itself.
type CardError struct {
	StatusCode int
	Code       CardErrorCode
	Message    string
	Param      string // the card field at fault (e.g. "cvc"), if named
}

func (e *CardError) Error() string {
	return fmt.Sprintf("card error (%s): %s", e.Code, e.Message)
}

// StripeError implements the StripeError interface.
func (e *CardError) StripeError() {}

// wrapError classifies transport-layer errors into the public taxonomy.
// Every non-success outcome becomes exactly one taxonomy member; errors
// that are already public (sentinels, decode failures wrapped upstream)
// pass through unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var se StripeError
	if errors.As(err, &se) {
		return err
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &ConnectionError{Err: netErr.Err}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if code, ok := cardErrorCodes[apiErr.Code]; ok || apiErr.Type == "card_error" {
			if !ok {
				code = CardProcessingError
			}
			return &CardError{
				StatusCode: apiErr.StatusCode,
				Code:       code,
				Message:    apiErr.Message,
				Param:      apiErr.Param,
			}
		}
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.Param != "" {
			return &InvalidRequestError{
				StatusCode: apiErr.StatusCode,
				Message:    apiErr.Message,
				Param:      apiErr.Param,
			}
		}
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}
	}

	// Sentinel configuration errors surface as-is.
	if isConfigError(err) {
		return err
	}

	return &APIError{Message: err.Error()}
}

func isConfigError(err error) bool {
	for _, sentinel := range []error{
		ErrMissingAPIKey,
		ErrMissingPublishableKey,
		ErrMissingSecretKey,
		ErrConflictingCursors,
		ErrNilParams,
		ErrNoDefaultClient,
		ErrUnknownShippingMethod,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeFailure reports a decode error inside an otherwise-successful
// response as an APIError, per the response-translation contract.
func decodeFailure(err error) error {
	return &APIError{Message: fmt.Sprintf("malformed response data: %v", err)}
}
