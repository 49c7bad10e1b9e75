package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lnmiit-dev/campusbot-go/internal/stringutil"
)

// Similarity thresholds for fuzzy faculty lookups. Field and degree
// searches keep rows above the looser threshold, ranked descending and
// capped at 5; person-name lookup uses the stricter threshold and returns
// only the single best row.
const (
	FieldSimilarityFloor = 0.3
	NameSimilarityFloor  = 0.4
	MaxFuzzyResults      = 5
)

// FacultyMatch pairs a faculty row with its similarity score for a query.
type FacultyMatch struct {
	Faculty
	Similarity float64
}

// InsertComplaint stores a new complaint. The solved flag always starts false.
func (db *DB) InsertComplaint(ctx context.Context, c *Complaint) error {
	query := `
		INSERT INTO complaints (issue, hostel, room_no, date, roll_no, solved, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`
	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, c.Issue, c.Hostel, c.RoomNo, c.Date, c.RollNo, time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert complaint",
			"hostel", c.Hostel,
			"error", err)
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		c.ID = id
	}

	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "InsertComplaint",
			"duration_ms", duration.Milliseconds())
	}
	return nil
}

// ListComplaintsByHostel returns complaints filed for a single hostel block.
func (db *DB) ListComplaintsByHostel(ctx context.Context, hostel string) ([]*Complaint, error) {
	query := `
		SELECT id, issue, hostel, room_no, date, roll_no, solved, created_at
		FROM complaints
		WHERE hostel = ?
		ORDER BY created_at DESC
	`
	rows, err := db.conn.QueryContext(ctx, query, hostel)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints for %s: %w", hostel, err)
	}
	defer func() { _ = rows.Close() }()

	return scanComplaints(rows)
}

// ListAllComplaints returns every complaint on record, newest first.
func (db *DB) ListAllComplaints(ctx context.Context) ([]*Complaint, error) {
	query := `
		SELECT id, issue, hostel, room_no, date, roll_no, solved, created_at
		FROM complaints
		ORDER BY created_at DESC
	`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanComplaints(rows)
}

func scanComplaints(rows *sql.Rows) ([]*Complaint, error) {
	var out []*Complaint
	for rows.Next() {
		var c Complaint
		var solved int
		if err := rows.Scan(&c.ID, &c.Issue, &c.Hostel, &c.RoomNo, &c.Date, &c.RollNo, &solved, &c.Created); err != nil {
			return nil, fmt.Errorf("failed to scan complaint row: %w", err)
		}
		c.Solved = solved != 0
		out = append(out, &c)
	}
	return out, rows.Err()
}

// AllFaculty loads every faculty row. The table is small (a few hundred
// rows) so fuzzy ranking is computed in Go; SQLite has no pg_trgm.
func (db *DB) AllFaculty(ctx context.Context) ([]*Faculty, error) {
	query := `SELECT id, fname, lname, field, degree, gender FROM faculty`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load faculty: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Faculty
	for rows.Next() {
		var f Faculty
		if err := rows.Scan(&f.ID, &f.FName, &f.LName, &f.Field, &f.Degree, &f.Gender); err != nil {
			return nil, fmt.Errorf("failed to scan faculty row: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// FacultyByField returns faculty whose field of study fuzzily matches the
// query: trigram similarity above FieldSimilarityFloor, ranked descending,
// capped at MaxFuzzyResults.
func (db *DB) FacultyByField(ctx context.Context, field string) ([]FacultyMatch, error) {
	return db.fuzzyFaculty(ctx, field, func(f *Faculty) string { return f.Field })
}

// FacultyByDegree returns faculty whose degree fuzzily matches the query,
// with the same threshold and cap as FacultyByField.
func (db *DB) FacultyByDegree(ctx context.Context, degree string) ([]FacultyMatch, error) {
	return db.fuzzyFaculty(ctx, degree, func(f *Faculty) string { return f.Degree })
}

func (db *DB) fuzzyFaculty(ctx context.Context, query string, key func(*Faculty) string) ([]FacultyMatch, error) {
	all, err := db.AllFaculty(ctx)
	if err != nil {
		return nil, err
	}

	var matches []FacultyMatch
	for _, f := range all {
		sim := stringutil.TrigramSimilarity(key(f), query)
		if sim > FieldSimilarityFloor {
			matches = append(matches, FacultyMatch{Faculty: *f, Similarity: sim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > MaxFuzzyResults {
		matches = matches[:MaxFuzzyResults]
	}
	return matches, nil
}

// FacultyByName returns the single best fuzzy match for a person name
// (first plus last), or nil if no row matches at all. The caller decides
// between the detail reply and a confirmation prompt based on Similarity
// against NameSimilarityFloor.
func (db *DB) FacultyByName(ctx context.Context, name string) (*FacultyMatch, error) {
	all, err := db.AllFaculty(ctx)
	if err != nil {
		return nil, err
	}

	var best *FacultyMatch
	for _, f := range all {
		sim := stringutil.TrigramSimilarity(f.FullName(), name)
		if sim == 0 {
			continue
		}
		if best == nil || sim > best.Similarity {
			best = &FacultyMatch{Faculty: *f, Similarity: sim}
		}
	}
	return best, nil
}

// FacultyByGender returns faculty matching the gender exactly (case-insensitive).
func (db *DB) FacultyByGender(ctx context.Context, gender string) ([]*Faculty, error) {
	query := `SELECT id, fname, lname, field, degree, gender FROM faculty WHERE gender LIKE ?`
	rows, err := db.conn.QueryContext(ctx, query, gender)
	if err != nil {
		return nil, fmt.Errorf("failed to query faculty by gender: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Faculty
	for rows.Next() {
		var f Faculty
		if err := rows.Scan(&f.ID, &f.FName, &f.LName, &f.Field, &f.Degree, &f.Gender); err != nil {
			return nil, fmt.Errorf("failed to scan faculty row: %w", err)
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// SeedFaculty bulk-inserts faculty rows inside one transaction.
// Used by tests and the initial data import.
func (db *DB) SeedFaculty(ctx context.Context, rows []*Faculty) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO faculty (fname, lname, field, degree, gender) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range rows {
		if _, err := stmt.ExecContext(ctx, f.FName, f.LName, f.Field, f.Degree, f.Gender); err != nil {
			return fmt.Errorf("failed to seed faculty %s: %w", f.FullName(), err)
		}
	}

	return tx.Commit()
}
