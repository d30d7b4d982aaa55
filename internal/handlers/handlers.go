package handlers

import (
	"github.com/gofiber/fiber/v3"

	"crewbase/internal/email"
	"crewbase/internal/models"
)

// Notifier is the global email notifier instance.
// Set during application initialization.
var Notifier *email.Notifier

// SetNotifier sets the global email notifier.
func SetNotifier(n *email.Notifier) {
	Notifier = n
}

// validationError returns a 400 with the structured error envelope.
// attr may be empty for request-level errors.
func validationError(c fiber.Ctx, code, detail, attr string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ValidationError(code, detail, attr))
}

// permissionDenied returns a 403 with the structured error envelope.
func permissionDenied(c fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusForbidden).JSON(models.AuthenticationError(models.CodePermissionDenied, detail))
}

// serverError returns a 500 with the structured error envelope.
func serverError(c fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(models.APIError{
		Type:   models.ErrorTypeServer,
		Code:   models.CodeServerError,
		Detail: detail,
	})
}
