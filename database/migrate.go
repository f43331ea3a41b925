// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"carabin/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(&models.Account{}); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ Migrations completed")
}

func createIndexes() {
	db := GetDB()

	db.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_rank ON accounts(rank)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_subscription ON accounts(subscription_status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_accounts_exp ON accounts(exp DESC)")
}
