package serverutils

import "github.com/gofiber/fiber/v2"

// SuccessResponse is the ack envelope for endpoints that return no data of
// their own. Data-bearing endpoints use their DTOs directly, which carry
// their own `success` field.
func SuccessResponse(message string) fiber.Map {
	return fiber.Map{
		"success": true,
		"message": message,
	}
}

// ErrorResponse is the uniform failure envelope: a human-readable error
// string plus the status code echoed in the body.
func ErrorResponse(code int, message string) fiber.Map {
	return fiber.Map{
		"success": false,
		"code":    code,
		"error":   message,
	}
}
