// handlers/handlers.go - shared handler wiring
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"carabin/middleware"
	"carabin/models"
	"carabin/services"
)

var (
	ledger    *services.Ledger
	gate      *services.Gate
	articles  *services.ArticleService
	generator services.ContentGenerator
)

// Init wires the handler package to its services. Call once at startup,
// before registering routes.
func Init(l *services.Ledger, g *services.Gate, a *services.ArticleService, gen services.ContentGenerator) {
	ledger = l
	gate = g
	articles = a
	generator = gen
}

// currentAccount resolves the authenticated session to a fresh account
// snapshot (lazy monthly-reset applied).
func currentAccount(c *fiber.Ctx) (*models.Account, error) {
	username, err := middleware.GetUsername(c)
	if err != nil {
		return nil, err
	}
	acct, err := ledger.CurrentAccount(username)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return nil, fiber.NewError(404, "Account not found")
		}
		return nil, err
	}
	return acct, nil
}

// checkQuota applies the gate. A denied FREE account gets a 403 with the
// quota marker so the client can open the subscription flow.
func checkQuota(c *fiber.Ctx, acct *models.Account) (bool, error) {
	allowed, err := gate.CanPerformAction(acct)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, c.Status(403).JSON(fiber.Map{
			"success":         false,
			"error":           "Monthly free quota exhausted",
			"quota_exhausted": true,
			"limit":           services.FreeMonthlyLimit,
		})
	}
	return true, nil
}
