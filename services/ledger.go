// services/ledger.go - account lifecycle and gamification bookkeeping
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"carabin/models"
)

var (
	ErrDuplicateAccount = errors.New("account already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidPin       = errors.New("invalid pin")
	ErrSessionNotFound  = errors.New("study session not found")
	ErrUsernameRequired = errors.New("username required")
)

const (
	// Exp awarded for reading a new article
	ArticleExpAward = 10
	// Exp awarded per point scored in an exam
	ExamExpPerPoint = 20
)

// AccountStore is the persistence the ledger runs on.
type AccountStore interface {
	Get(username string) (*models.Account, bool, error)
	Put(acct *models.Account) error
	Exists(username string) (bool, error)
}

// Ledger owns account lifecycle: signup/login, exp and rank progression,
// monthly usage metering, subscription tier, reading history, exam results
// and the study plan. Rank is always recomputed from exp on save, never
// trusted from storage.
type Ledger struct {
	store         AccountStore
	bootstrapUser string
}

// NewLedger creates a ledger. bootstrapUser is the one reserved username
// that is auto-provisioned on first login instead of requiring signup
// (demo-account seam); pass "" to disable it.
func NewLedger(store AccountStore, bootstrapUser string) *Ledger {
	return &Ledger{store: store, bootstrapUser: bootstrapUser}
}

func (l *Ledger) newAccount(username string) *models.Account {
	return &models.Account{
		Username:           username,
		Rank:               models.RankNovice,
		Exp:                0,
		SubscriptionStatus: models.SubscriptionFree,
		UsageCount:         0,
		LastResetDate:      time.Now(),
		History:            datatypes.JSONSlice[string]{},
		ExamResults:        datatypes.JSONSlice[models.ExamResult]{},
		StudyPlan:          datatypes.JSONSlice[models.StudySession]{},
		Settings:           datatypes.NewJSONType(models.Settings{HighlightsEnabled: true}),
	}
}

// Signup creates a fresh account with all counters zeroed. The pin is
// optional; when given it is bcrypt-hashed and required on later logins.
func (l *Ledger) Signup(username, pin string) (*models.Account, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}

	taken, err := l.store.Exists(username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateAccount
	}

	acct := l.newAccount(username)
	if pin != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash pin: %w", err)
		}
		acct.PinHash = string(hash)
	}

	if err := l.store.Put(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Login resolves an existing account. The bootstrap username is auto-created
// with default values on its first login attempt; every other unknown
// username fails with ErrAccountNotFound.
func (l *Ledger) Login(username, pin string) (*models.Account, error) {
	acct, found, err := l.store.Get(username)
	if err != nil {
		return nil, err
	}
	if !found {
		if l.bootstrapUser == "" || username != l.bootstrapUser {
			return nil, ErrAccountNotFound
		}
		acct = l.newAccount(username)
		if err := l.store.Put(acct); err != nil {
			return nil, err
		}
	}

	if acct.PinHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(acct.PinHash), []byte(pin)); err != nil {
			return nil, ErrInvalidPin
		}
	}

	acct, err = l.CheckAndResetUsage(acct)
	if err != nil {
		return nil, err
	}

	acct.LastLogin = time.Now()
	return l.Save(acct)
}

// CurrentAccount resolves the account behind an authenticated session and
// applies the lazy monthly-reset check.
func (l *Ledger) CurrentAccount(username string) (*models.Account, error) {
	acct, found, err := l.store.Get(username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAccountNotFound
	}
	return l.CheckAndResetUsage(acct)
}

// Save recomputes rank from exp and writes the account back.
func (l *Ledger) Save(acct *models.Account) (*models.Account, error) {
	acct.Rank = models.RankForExp(acct.Exp)
	if err := l.store.Put(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// CheckAndResetUsage zeroes the monthly counter when the wall-clock month or
// year differs from the recorded reset date. There is no background timer;
// the check runs lazily at every read/use site, so a session left open
// across a month boundary still gets a fresh quota.
func (l *Ledger) CheckAndResetUsage(acct *models.Account) (*models.Account, error) {
	now := time.Now()
	last := acct.LastResetDate
	if now.Month() != last.Month() || now.Year() != last.Year() {
		acct.UsageCount = 0
		acct.LastResetDate = now
		return l.Save(acct)
	}
	return acct, nil
}

// RecordHistory appends a consumed content id and awards exp. Re-consuming
// an id already present is a no-op: no write, no exp.
func (l *Ledger) RecordHistory(acct *models.Account, contentID string) (*models.Account, error) {
	for _, id := range acct.History {
		if id == contentID {
			return acct, nil
		}
	}
	acct.History = append(acct.History, contentID)
	acct.Exp += ArticleExpAward
	return l.Save(acct)
}

// RecordExamResult appends the result and awards score*20 exp.
func (l *Ledger) RecordExamResult(acct *models.Account, result models.ExamResult) (*models.Account, error) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Date == "" {
		result.Date = time.Now().Format(time.RFC3339)
	}
	acct.ExamResults = append(acct.ExamResults, result)
	acct.Exp += result.Score * ExamExpPerPoint
	return l.Save(acct)
}

// UpgradeSubscription moves the account to PREMIUM unconditionally. Payment
// verification belongs to the external billing collaborator.
func (l *Ledger) UpgradeSubscription(acct *models.Account) (*models.Account, error) {
	acct.SubscriptionStatus = models.SubscriptionPremium
	return l.Save(acct)
}

// UpdateSettings replaces the settings record.
func (l *Ledger) UpdateSettings(acct *models.Account, settings models.Settings) (*models.Account, error) {
	acct.Settings = datatypes.NewJSONType(settings)
	return l.Save(acct)
}

// AddStudySession appends one session to the study plan.
func (l *Ledger) AddStudySession(acct *models.Account, session models.StudySession) (*models.Account, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = models.SessionPending
	}
	acct.StudyPlan = append(acct.StudyPlan, session)
	return l.Save(acct)
}

// ToggleStudySession flips a session between PENDING and DONE.
func (l *Ledger) ToggleStudySession(acct *models.Account, sessionID string) (*models.Account, error) {
	for i := range acct.StudyPlan {
		if acct.StudyPlan[i].ID != sessionID {
			continue
		}
		if acct.StudyPlan[i].Status == models.SessionDone {
			acct.StudyPlan[i].Status = models.SessionPending
		} else {
			acct.StudyPlan[i].Status = models.SessionDone
		}
		return l.Save(acct)
	}
	return nil, ErrSessionNotFound
}

// DeleteStudySession removes one session by id.
func (l *Ledger) DeleteStudySession(acct *models.Account, sessionID string) (*models.Account, error) {
	kept := acct.StudyPlan[:0]
	removed := false
	for _, s := range acct.StudyPlan {
		if s.ID == sessionID {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return nil, ErrSessionNotFound
	}
	acct.StudyPlan = kept
	return l.Save(acct)
}

// ReplaceStudyPlan swaps the whole plan, as produced by the AI planner.
func (l *Ledger) ReplaceStudyPlan(acct *models.Account, sessions []models.StudySession) (*models.Account, error) {
	for i := range sessions {
		if sessions[i].ID == "" {
			sessions[i].ID = uuid.NewString()
		}
		if sessions[i].Status == "" {
			sessions[i].Status = models.SessionPending
		}
	}
	acct.StudyPlan = datatypes.JSONSlice[models.StudySession](sessions)
	return l.Save(acct)
}
