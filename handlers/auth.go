// handlers/auth.go
package handlers

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"carabin/models"
	"carabin/services"
)

type SignupRequest struct {
	Username string `json:"username"`
	Pin      string `json:"pin,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Pin      string `json:"pin,omitempty"`
}

type AuthResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token,omitempty"`
	Account *models.Account `json:"account,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Signup creates a new account and opens a session
func Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if req.Username == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Username required"})
	}
	if len(req.Username) > 32 {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Username too long"})
	}

	acct, err := ledger.Signup(req.Username, req.Pin)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateAccount) {
			return c.Status(409).JSON(AuthResponse{Success: false, Error: "Account already exists"})
		}
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to create account"})
	}

	token, err := generateToken(acct)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.JSON(AuthResponse{Success: true, Token: token, Account: acct})
}

// Login opens a session for an existing account. The bootstrap username is
// auto-created on its first login.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if req.Username == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Username required"})
	}

	acct, err := ledger.Login(req.Username, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return c.Status(404).JSON(AuthResponse{Success: false, Error: "Account not found"})
		case errors.Is(err, services.ErrInvalidPin):
			return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
		default:
			return c.Status(500).JSON(AuthResponse{Success: false, Error: "Login failed"})
		}
	}

	token, err := generateToken(acct)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.JSON(AuthResponse{Success: true, Token: token, Account: acct})
}

// Logout ends the session. Sessions are stateless JWTs, so this only tells
// the client to drop its token; no account record changes.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func generateToken(acct *models.Account) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")

	claims := jwt.MapClaims{
		"username":     acct.Username,
		"subscription": acct.SubscriptionStatus,
		"exp":          time.Now().Add(time.Hour * 720).Unix(), // 30 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
