// handlers/plan.go - study calendar
package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"carabin/models"
	"carabin/services"
)

type GeneratePlanRequest struct {
	Topic string `json:"topic"`
	Weeks int    `json:"weeks"`
}

// GetStudyPlan returns the full plan
func GetStudyPlan(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "study_plan": acct.StudyPlan})
}

// AddStudySession appends one manually created session
func AddStudySession(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	var session models.StudySession
	if err := c.BodyParser(&session); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if session.Date == "" || session.Topic == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Date and topic required"})
	}

	acct, err = ledger.AddStudySession(acct, session)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save session"})
	}
	return c.JSON(fiber.Map{"success": true, "study_plan": acct.StudyPlan})
}

// ToggleStudySession flips PENDING/DONE for one session
func ToggleStudySession(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	acct, err = ledger.ToggleStudySession(acct, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Session not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update session"})
	}
	return c.JSON(fiber.Map{"success": true, "study_plan": acct.StudyPlan})
}

// DeleteStudySession removes one session by id
func DeleteStudySession(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	acct, err = ledger.DeleteStudySession(acct, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Session not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete session"})
	}
	return c.JSON(fiber.Map{"success": true, "study_plan": acct.StudyPlan})
}

// GenerateStudyPlan replaces the plan with an AI-built batch. Planner use is
// free: only content-producing actions (articles, exams, stations) consume
// quota.
func GenerateStudyPlan(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req GeneratePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Topic == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Topic required"})
	}

	var sessions []models.StudySession
	if err := generator.GenerateJSON(c.Context(), services.BuildPlanPrompt(req.Topic, req.Weeks), &sessions); err != nil {
		log.Printf("Plan generation failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"success": false, "error": "Generation service unavailable"})
	}

	acct, err = ledger.ReplaceStudyPlan(acct, sessions)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save plan"})
	}
	return c.JSON(fiber.Map{"success": true, "study_plan": acct.StudyPlan})
}
