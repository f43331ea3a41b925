// handlers/ecos.go - ECOS station simulation
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"carabin/models"
	"carabin/services"
)

type GenerateStationRequest struct {
	Type      string `json:"type"` // ANNONCE, DIAGNOSTIC, URGENCE, PREVENTION
	Specialty string `json:"specialty"`
}

var stationTypes = map[string]bool{
	"ANNONCE":    true,
	"DIAGNOSTIC": true,
	"URGENCE":    true,
	"PREVENTION": true,
}

// GenerateStation builds a simulated clinical exam station via the AI
// service. Quota-gated.
func GenerateStation(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req GenerateStationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if !stationTypes[req.Type] {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Unknown station type"})
	}
	specialty := req.Specialty
	if specialty == "" {
		specialty = "Médecine Générale"
	}

	allowed, err := checkQuota(c, acct)
	if err != nil || !allowed {
		return err
	}

	var station models.ECOSStation
	if err := generator.GenerateJSON(c.Context(), services.BuildECOSPrompt(req.Type, specialty), &station); err != nil {
		log.Printf("ECOS generation failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"success": false, "error": "Generation service unavailable"})
	}
	if station.ID == "" {
		station.ID = uuid.NewString()
	}

	acct, err = gate.ConsumeAction(acct)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record usage"})
	}

	return c.JSON(fiber.Map{"success": true, "station": station, "account": acct})
}
