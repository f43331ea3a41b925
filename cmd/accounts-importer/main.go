// accounts-importer seeds or restores accounts from a JSON export. Useful
// for moving data exported from the old localStorage-based client into the
// server database.
//
// Usage: accounts-importer [accounts.json]
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"carabin/database"
	"carabin/models"
)

func main() {
	path := "./accounts.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read JSON file:", err)
	}

	// The old client stored a single object: username -> account record
	var exported map[string]models.Account
	if err := json.Unmarshal(data, &exported); err != nil {
		log.Fatal("Failed to parse JSON file:", err)
	}

	database.InitDB()
	defer database.CloseDB()
	store := database.NewAccountStore(database.GetDB())

	imported, skipped := 0, 0
	for username, acct := range exported {
		acct.ID = 0
		acct.Username = username
		// Never trust the exported rank field
		acct.Rank = models.RankForExp(acct.Exp)

		exists, err := store.Exists(username)
		if err != nil {
			log.Fatalf("Failed to check %s: %v", username, err)
		}
		if exists {
			skipped++
			continue
		}
		if err := store.Put(&acct); err != nil {
			log.Fatalf("Failed to import %s: %v", username, err)
		}
		imported++
	}

	fmt.Printf("Imported %d accounts (%d already present)\n", imported, skipped)
}
