// Package httpx holds the fiber plumbing shared by the server and the API
// handler tests.
package httpx

import (
	"errors"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts internal errors to standard HTTP responses. With
// debug set, the wrapped cause is included in the body.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := c.Get("X-Request-ID")

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"code":       "FIBER_ERROR",
				"status":     fe.Code,
				"request_id": requestID,
			})
		}

		if e, ok := errx.As(err); ok {
			entry := logx.WithFields(logx.Fields{
				"path":       c.Path(),
				"method":     c.Method(),
				"code":       e.Code,
				"request_id": requestID,
			})
			if e.HTTPStatus >= fiber.StatusInternalServerError {
				entry.WithError(err).Error("request failed")
			} else {
				entry.Debug(e.Message)
			}

			response := fiber.Map{
				"error":      e.Message,
				"code":       e.Code,
				"type":       string(e.Type),
				"status":     e.HTTPStatus,
				"request_id": requestID,
			}
			if len(e.Details) > 0 {
				response["details"] = e.Details
			}
			if debug && e.Err != nil {
				response["underlying_error"] = e.Err.Error()
			}
			return c.Status(e.HTTPStatus).JSON(response)
		}

		logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"ip":         c.IP(),
			"request_id": requestID,
		}).Errorf("Request error: %v", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":      "Internal Server Error",
			"type":       "INTERNAL",
			"code":       "INTERNAL_ERROR",
			"message":    "An unexpected error occurred. Please contact support if the issue persists.",
			"request_id": requestID,
		})
	}
}

// NotFound handles unknown routes
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Get("X-Request-ID"),
	})
}
