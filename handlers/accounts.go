// handlers/accounts.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"carabin/models"
)

// GetCurrentAccount returns the logged-in account snapshot
func GetCurrentAccount(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "account": acct})
}

// UpdateSettings replaces the account settings record
func UpdateSettings(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	var settings models.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	acct, err = ledger.UpdateSettings(acct, settings)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save settings"})
	}
	return c.JSON(fiber.Map{"success": true, "account": acct})
}

// UpgradeSubscription moves the account to PREMIUM. Billing happens with an
// external collaborator before the client calls this.
func UpgradeSubscription(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	acct, err = ledger.UpgradeSubscription(acct)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to upgrade subscription"})
	}
	return c.JSON(fiber.Map{"success": true, "account": acct})
}
