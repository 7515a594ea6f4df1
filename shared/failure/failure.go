package failure

import (
	"errors"
	"net/http"
)

// Kind classifies a Failure independently of its HTTP code.
type Kind string

const (
	KindValidation      Kind = "validation_error"
	KindNotFound        Kind = "not_found"
	KindRole            Kind = "role_error"
	KindAlreadyAssigned Kind = "already_assigned"
	KindInvalidState    Kind = "invalid_state"
	KindInvalidToken    Kind = "invalid_token"
	KindUnauthorized    Kind = "unauthorized"
	KindConflict        Kind = "conflict"
	KindPaymentDeclined Kind = "payment_declined"
	KindInternal        Kind = "internal"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Kind sentinels, usable with errors.Is.
var (
	ErrValidation      = &Failure{Code: http.StatusBadRequest, Kind: KindValidation, Message: "validation error"}
	ErrNotFound        = &Failure{Code: http.StatusNotFound, Kind: KindNotFound, Message: "not found"}
	ErrRole            = &Failure{Code: http.StatusForbidden, Kind: KindRole, Message: "role not permitted"}
	ErrAlreadyAssigned = &Failure{Code: http.StatusConflict, Kind: KindAlreadyAssigned, Message: "already assigned"}
	ErrInvalidState    = &Failure{Code: http.StatusConflict, Kind: KindInvalidState, Message: "invalid state"}
	ErrInvalidToken    = &Failure{Code: http.StatusUnprocessableEntity, Kind: KindInvalidToken, Message: "invalid token"}
	ErrUnauthorized    = &Failure{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "unauthorized"}
	ErrPaymentDeclined = &Failure{Code: http.StatusPaymentRequired, Kind: KindPaymentDeclined, Message: "payment declined"}
)

var ForbiddenError = &Failure{Code: http.StatusForbidden, Kind: KindRole, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Kind: KindRole, Message: "You don't have permission to access this resource"}

// Error returns the error message.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure of the same kind.
func (e *Failure) Is(target error) bool {
	var t *Failure
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind != "" && t.Kind == e.Kind
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Kind:    KindValidation,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Kind:    KindUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Kind:    KindInternal,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Kind:    KindRole,
		Message: msg,
	}
}

// AlreadyAssigned returns a new Failure for a booking that already has an agent.
func AlreadyAssigned(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindAlreadyAssigned,
		Message: msg,
	}
}

// InvalidState returns a new Failure for a transition the current status does not permit.
func InvalidState(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidState,
		Message: msg,
	}
}

// InvalidToken returns a new Failure for a QR token mismatch.
func InvalidToken(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidToken,
		Message: msg,
	}
}

func PaymentDeclined(msg string) error {
	return &Failure{
		Code:    http.StatusPaymentRequired,
		Kind:    KindPaymentDeclined,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the kind of an error interface, KindInternal for foreign errors.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) && fail.Kind != "" {
		return fail.Kind
	}

	return KindInternal
}
