package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sprout_backend/internals/apperrors"
)

const genericFailure = "Something went wrong"

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation, apperrors.KindNoPayoutConfigured, apperrors.KindSignature:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindGateway:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage is what a client may see for err. Configuration and internal
// failures collapse to a generic message; signature failures never say which
// check failed.
func PublicMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindSignature:
		return apperrors.ErrInvalidSignature.Message
	case apperrors.KindConfiguration, apperrors.KindInternal:
		return genericFailure
	}
	if msg := apperrors.MessageOf(err); msg != "" {
		return msg
	}
	return genericFailure
}

// JsonAppError writes err with the standard error envelope.
func JsonAppError(c *fiber.Ctx, err error) error {
	return JsonError(c, StatusOf(err), PublicMessage(err))
}
