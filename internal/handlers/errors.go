package handlers

import (
	"errors"

	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// messageFor returns the client-facing message for a non-500 err.
func messageFor(err error) string {
	switch {
	case errors.Is(err, services.ErrValidation):
		return "email and password are required"
	case errors.Is(err, services.ErrEmailTaken):
		return services.ErrEmailTaken.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInvalidToken):
		return services.ErrInvalidToken.Error()
	case errors.Is(err, services.ErrProductNotFound):
		return services.ErrProductNotFound.Error()
	default:
		return err.Error()
	}
}

// respondError writes the JSON error body for err and logs server-side failures.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{
			"message": "something went wrong",
			"error":   internalErrorMessage,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": messageFor(err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
