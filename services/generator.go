// services/generator.go - opaque AI generation facade (Gemini)
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"carabin/models"
)

// ContentGenerator is the opaque generation function the rest of the app
// sees: a prompt in, text or structured JSON out. Handlers and tests
// substitute stubs.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string, out any) error
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result == nil {
		return "", errors.New("no response generated")
	}
	text, err := result.Text()
	if err != nil {
		return "", fmt.Errorf("extract response text: %w", err)
	}
	if text == "" {
		return "", errors.New("empty response generated")
	}
	return text, nil
}

func (g *GeminiGenerator) GenerateJSON(ctx context.Context, prompt string, out any) error {
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return fmt.Errorf("generate content: %w", err)
	}
	if result == nil {
		return errors.New("no response generated")
	}
	text, err := result.Text()
	if err != nil {
		return fmt.Errorf("extract response text: %w", err)
	}
	// Models occasionally wrap JSON in a fenced block despite the MIME type
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("parse generated JSON: %w", err)
	}
	return nil
}

// DisabledGenerator stands in when no API key is configured. Every call
// fails, so generation endpoints degrade to 502 while the rest of the app
// keeps working.
type DisabledGenerator struct{}

func (DisabledGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("generation service not configured")
}

func (DisabledGenerator) GenerateJSON(ctx context.Context, prompt string, out any) error {
	return errors.New("generation service not configured")
}

// Prompt builders. The generation service is a collaborator, not the core:
// everything pedagogical lives in these instruction strings.

func BuildExamPrompt(article *models.Article, count int) string {
	if count <= 0 {
		count = 5
	}
	return fmt.Sprintf(`Tu es un enseignant de LCA (Lecture Critique d'Article) pour les EDN.
À partir de l'abstract suivant, génère %d questions au format JSON.
Chaque question est un objet {"t": énoncé, "r": "A" ou "B" (rang éducatif), "c": true/false (réponse), "e": explication courte, "type": "TF"}.
Réponds uniquement avec un tableau JSON.

Titre: %s
Abstract: %s`, count, article.Title, article.AbstractText)
}

func BuildECOSPrompt(stationType, specialty string) string {
	return fmt.Sprintf(`Tu es un concepteur de stations ECOS pour les étudiants en médecine (DFASM3).
Génère une station de type %s en %s, au format JSON avec les champs:
{"id", "title", "type", "context" (pour le candidat), "instruction" (pour le candidat),
"patientScript": {"name", "age", "history", "personality", "openingLine", "hiddenInfo"},
"grid": [{"category", "points": [...]}]}.
Réponds uniquement avec l'objet JSON.`, stationType, specialty)
}

func BuildPlanPrompt(topic string, weeks int) string {
	if weeks <= 0 {
		weeks = 2
	}
	return fmt.Sprintf(`Tu es un coach pédagogique pour étudiants en médecine.
Construis un planning de révision de %d semaines sur le thème "%s", au format JSON:
un tableau d'objets {"date": "YYYY-MM-DD", "topic", "focus", "type": "COURS"|"EXOS"|"ECOS"|"FLASHCARDS", "duration": minutes, "status": "PENDING"}.
Commence à la date d'aujourd'hui. Réponds uniquement avec le tableau JSON.`, weeks, topic)
}

func BuildCoachPrompt(history []string, message string) string {
	var b strings.Builder
	b.WriteString("Tu es un tuteur bienveillant de LCA et de méthodologie pour étudiants en médecine français (PASS à DFASM3). Réponds de façon concise et pédagogique.\n\n")
	for _, line := range history {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("Étudiant: ")
	b.WriteString(message)
	return b.String()
}
