package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const staffLocal = "staff"

var ErrNoStaff = errors.New("no authenticated staff")

func staffClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals(staffLocal).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// StaffID returns the id of the staff account that signed the request.
func StaffID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := staffClaims(c)
	if !ok {
		return uuid.Nil, ErrNoStaff
	}
	sub, _ := claims["sub"].(string)
	return uuid.Parse(sub)
}

// StaffRole returns the role claim of the request's token, or "".
func StaffRole(c *fiber.Ctx) string {
	claims, ok := staffClaims(c)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
