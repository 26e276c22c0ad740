package serverutils

import (
	"errors"

	"rag-filesearch-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// JSON failure envelope. Validation problems become 400, auth problems 401,
// everything involving the external service (timeouts included) 500. The
// process never crashes on a handler error.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appError *apperr.Error
		if errors.As(err, &appError) {
			status := statusForKind(appError.Kind)
			return ctx.Status(status).JSON(ErrorResponse(status, appError.Error()))
		}

		var fiberError *fiber.Error
		if errors.As(err, &fiberError) {
			return ctx.Status(fiberError.Code).JSON(ErrorResponse(fiberError.Code, fiberError.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindExternal, apperr.KindTimeout:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
