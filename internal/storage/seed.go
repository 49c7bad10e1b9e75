package storage

import (
	"context"
	"fmt"
)

// CountFaculty returns the number of faculty rows.
func (db *DB) CountFaculty(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM faculty`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count faculty: %w", err)
	}
	return n, nil
}

// DefaultFaculty is the starter directory dataset, used when the
// faculty table is empty on first boot. Deployments replace it by
// loading the institute's directory export.
func DefaultFaculty() []*Faculty {
	return []*Faculty{
		{FName: "Rajbir", LName: "Kaur", Field: "Machine Learning", Degree: "PhD", Gender: "female"},
		{FName: "Sandeep", LName: "Saini", Field: "Embedded Systems", Degree: "PhD", Gender: "male"},
		{FName: "Preety", LName: "Singh", Field: "Computer Vision", Degree: "PhD", Gender: "female"},
		{FName: "Sakthi", LName: "Balan", Field: "Formal Languages", Degree: "PhD", Gender: "male"},
		{FName: "Subrat", LName: "Dash", Field: "Data Mining", Degree: "PhD", Gender: "male"},
		{FName: "Kusum", LName: "Lata", Field: "VLSI Design", Degree: "PhD", Gender: "female"},
		{FName: "Ravi", LName: "Gorthi", Field: "Software Engineering", Degree: "PhD", Gender: "male"},
		{FName: "Soumitra", LName: "Debnath", Field: "Signal Processing", Degree: "M.Tech", Gender: "male"},
	}
}

// EnsureFacultySeed loads the default directory when the table is empty.
func (db *DB) EnsureFacultySeed(ctx context.Context) error {
	n, err := db.CountFaculty(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.SeedFaculty(ctx, DefaultFaculty())
}
