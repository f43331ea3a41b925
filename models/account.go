// models/account.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Subscription tiers
const (
	SubscriptionFree    = "FREE"
	SubscriptionPremium = "PREMIUM"
)

// Ranks, derived from exp (never stored as independent truth)
const (
	RankNovice     = "NOVICE"
	RankOperative  = "OPERATIVE"
	RankSpecialist = "SPECIALIST"
	RankElite      = "ELITE"
)

// Study session lifecycle
const (
	SessionPending = "PENDING"
	SessionDone    = "DONE"
)

type Settings struct {
	HighlightsEnabled bool `json:"highlightsEnabled"`
}

type ExamResult struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

type StudySession struct {
	ID       string `json:"id"`
	Date     string `json:"date"`  // ISO date YYYY-MM-DD
	Topic    string `json:"topic"` // ex: "Cardiologie"
	Focus    string `json:"focus"` // ex: "Insuffisance Cardiaque"
	Type     string `json:"type"`  // COURS, EXOS, ECOS, FLASHCARDS
	Duration int    `json:"duration"`
	Status   string `json:"status"` // PENDING or DONE
}

type Account struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	PinHash  string `json:"-"`

	// Gamification
	Rank string `gorm:"default:NOVICE" json:"rank"`
	Exp  int    `gorm:"default:0" json:"exp"`

	// Subscription & monthly metering
	SubscriptionStatus string    `gorm:"default:FREE" json:"subscriptionStatus"`
	UsageCount         int       `gorm:"default:0" json:"usageCount"`
	LastResetDate      time.Time `json:"lastResetDate"`

	// Embedded sequences, stored as JSON columns
	History     datatypes.JSONSlice[string]       `json:"history"`
	ExamResults datatypes.JSONSlice[ExamResult]   `json:"examResults"`
	StudyPlan   datatypes.JSONSlice[StudySession] `json:"studyPlan"`
	Settings    datatypes.JSONType[Settings]      `json:"settings"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

// RankForExp evaluates the highest threshold met.
func RankForExp(exp int) string {
	switch {
	case exp > 1000:
		return RankElite
	case exp > 500:
		return RankSpecialist
	case exp > 100:
		return RankOperative
	default:
		return RankNovice
	}
}
