package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthTimeFormat mirrors ISO-8601 with millisecond precision.
const HealthTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// HandleHealth reports liveness. It does not touch the database.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(HealthTimeFormat),
	})
}
