// database/store.go - gorm-backed account persistence
package database

import (
	"errors"

	"gorm.io/gorm"

	"carabin/models"
)

// AccountStore persists accounts keyed by username. It is the gorm
// implementation of the store the ledger consumes; tests substitute an
// in-memory map.
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Get resolves an account by username. The second return value reports
// whether the account exists; err is reserved for storage failures.
func (s *AccountStore) Get(username string) (*models.Account, bool, error) {
	var acct models.Account
	if err := s.db.Where("username = ?", username).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &acct, true, nil
}

// Put writes the account back unconditionally (last write wins).
func (s *AccountStore) Put(acct *models.Account) error {
	return s.db.Save(acct).Error
}

func (s *AccountStore) Exists(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Account{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
