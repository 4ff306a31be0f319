package repository

import (
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema applies the embedded schema in a single transaction.
// Statements are idempotent (IF NOT EXISTS) so startup is safe to repeat.
func EnsureSchema() error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %v", err)
	}

	log.Println("Database schema is up to date")
	return nil
}
