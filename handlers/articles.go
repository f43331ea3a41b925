// handlers/articles.go - quota-gated article reading
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"carabin/models"
)

// GetSpecialties lists the selectable specialties
func GetSpecialties(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "specialties": models.Specialties})
}

// GetRandomArticle fetches one article for a specialty. Gate check first,
// then fetch, then consume + history (the fetch itself never fails; offline
// fallback is marked in the title).
func GetRandomArticle(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	allowed, err := checkQuota(c, acct)
	if err != nil || !allowed {
		return err
	}

	article := articles.FetchRandom(c.Query("specialty", models.SpecialtyRandom))

	acct, err = gate.ConsumeAction(acct)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record usage"})
	}
	acct, err = ledger.RecordHistory(acct, article.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record history"})
	}

	return c.JSON(fiber.Map{"success": true, "article": article, "account": acct})
}

// GetArticleByID fetches one article by PMC id
func GetArticleByID(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	allowed, err := checkQuota(c, acct)
	if err != nil || !allowed {
		return err
	}

	article := articles.FetchByID(c.Params("id"))

	acct, err = gate.ConsumeAction(acct)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record usage"})
	}
	acct, err = ledger.RecordHistory(acct, article.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record history"})
	}

	return c.JSON(fiber.Map{"success": true, "article": article, "account": acct})
}
