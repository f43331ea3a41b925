// models/content.go - shapes produced by the AI generation service
package models

// QuizOption statuses for KFP questions. DISCORDANCE marks a dangerous
// answer (sudden-death rule in DFASM2 mode).
const (
	OptionCorrect     = "CORRECT"
	OptionNeutral     = "NEUTRAL"
	OptionDiscordance = "DISCORDANCE"
)

type QuizOption struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Status string `json:"status"`
}

// QuizQuestion keeps the compact field names the client expects.
type QuizQuestion struct {
	Text        string       `json:"t"`
	Rank        string       `json:"r"` // educational rank A or B
	Correct     *bool        `json:"c,omitempty"`
	Explanation string       `json:"e"`
	Type        string       `json:"type,omitempty"` // TF or KFP
	Options     []QuizOption `json:"options,omitempty"`
}

type PatientScript struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	History     string `json:"history"`
	Personality string `json:"personality"`
	OpeningLine string `json:"openingLine"`
	HiddenInfo  string `json:"hiddenInfo"`
}

type GridSection struct {
	Category string   `json:"category"`
	Points   []string `json:"points"`
}

// ECOSStation is a simulated clinical exam station.
type ECOSStation struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Type          string        `json:"type"` // ANNONCE, DIAGNOSTIC, URGENCE, PREVENTION
	Context       string        `json:"context"`
	Instruction   string        `json:"instruction"`
	PatientScript PatientScript `json:"patientScript"`
	Grid          []GridSection `json:"grid"`
}
