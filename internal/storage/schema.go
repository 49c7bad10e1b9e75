package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go's open function.
func InitSchema(db *sql.DB) error {
	if err := createFacultyTable(db); err != nil {
		return err
	}
	return createComplaintsTable(db)
}

func createFacultyTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS faculty (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fname TEXT NOT NULL,
		lname TEXT NOT NULL,
		field TEXT NOT NULL,
		degree TEXT NOT NULL,
		gender TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_faculty_field ON faculty(field);
	CREATE INDEX IF NOT EXISTS idx_faculty_gender ON faculty(gender);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create faculty table: %w", err)
	}

	return nil
}

func createComplaintsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS complaints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issue TEXT NOT NULL,
		hostel TEXT NOT NULL,
		room_no TEXT NOT NULL,
		date TEXT NOT NULL,
		roll_no TEXT NOT NULL,
		solved INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_complaints_hostel ON complaints(hostel);
	CREATE INDEX IF NOT EXISTS idx_complaints_solved ON complaints(solved);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create complaints table: %w", err)
	}

	return nil
}
