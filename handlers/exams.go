// handlers/exams.go - exam generation and result bookkeeping
package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"carabin/models"
	"carabin/services"
)

type GenerateExamRequest struct {
	ArticleID    string `json:"article_id"`
	Title        string `json:"title"`
	AbstractText string `json:"abstract_text"`
	Count        int    `json:"count"`
}

type ExamResultRequest struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// GenerateExam builds quiz questions from an article abstract via the AI
// service. Quota-gated.
func GenerateExam(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req GenerateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.AbstractText == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "abstract_text required"})
	}

	allowed, err := checkQuota(c, acct)
	if err != nil || !allowed {
		return err
	}

	article := &models.Article{ID: req.ArticleID, Title: req.Title, AbstractText: req.AbstractText}
	prompt := services.BuildExamPrompt(article, req.Count)

	var questions []models.QuizQuestion
	if err := generator.GenerateJSON(c.Context(), prompt, &questions); err != nil {
		log.Printf("Exam generation failed: %v", err)
		return c.Status(502).JSON(fiber.Map{"success": false, "error": "Generation service unavailable"})
	}

	acct, err = gate.ConsumeAction(acct)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record usage"})
	}

	return c.JSON(fiber.Map{"success": true, "questions": questions, "account": acct})
}

// RecordExamResult appends a finished exam and awards exp (score * 20)
func RecordExamResult(c *fiber.Ctx) error {
	acct, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req ExamResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Total <= 0 || req.Score < 0 || req.Score > req.Total {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid score"})
	}

	acct, err = ledger.RecordExamResult(acct, models.ExamResult{Score: req.Score, Total: req.Total})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to record result"})
	}

	return c.JSON(fiber.Map{"success": true, "account": acct})
}
