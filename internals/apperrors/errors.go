// Package apperrors holds the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConfiguration
	KindSignature
	KindGateway
	KindNoPayoutConfigured
	KindUnauthorized
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration"
	case KindSignature:
		return "signature"
	case KindGateway:
		return "gateway"
	case KindNoPayoutConfigured:
		return "no_payout_configured"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a Kind, a client-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by Kind, so errors.Is(err, ErrNotFound) holds for
// every NotFound error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConfiguration      = &Error{Kind: KindConfiguration}
	ErrSignature          = &Error{Kind: KindSignature}
	ErrGateway            = &Error{Kind: KindGateway}
	ErrNoPayoutConfigured = &Error{Kind: KindNoPayoutConfigured}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrConflict           = &Error{Kind: KindConflict}

	// Signature variants. Handlers must not echo which one occurred.
	ErrMissingSignature = &Error{Kind: KindSignature, Message: "missing signature"}
	ErrInvalidSignature = &Error{Kind: KindSignature, Message: "invalid signature"}
	ErrMissingSecret    = &Error{Kind: KindConfiguration, Message: "missing webhook secret"}
)

func Validation(msg string) error { return &Error{Kind: KindValidation, Message: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

func Configuration(msg string) error { return &Error{Kind: KindConfiguration, Message: msg} }

func NoPayoutConfigured(msg string) error {
	return &Error{Kind: KindNoPayoutConfigured, Message: msg}
}

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// Gateway wraps an upstream payment-provider failure; the upstream message
// becomes the client-facing message.
func Gateway(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindGateway, Message: err.Error(), Err: err}
}

// KindOf reports the Kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of err, or "" for foreign errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
