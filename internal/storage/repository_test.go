package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = db.SeedFaculty(context.Background(), []*Faculty{
		{FName: "Rajbir", LName: "Kaur", Field: "Machine Learning", Degree: "PhD", Gender: "female"},
		{FName: "Anil", LName: "Sharma", Field: "Computer Networks", Degree: "PhD", Gender: "male"},
		{FName: "Meera", LName: "Joshi", Field: "Quantum Physics", Degree: "MSc", Gender: "female"},
		{FName: "Vikram", LName: "Rao", Field: "Machine Design", Degree: "MTech", Gender: "male"},
	})
	require.NoError(t, err)
	return db
}

func TestFacultyByField(t *testing.T) {
	db := newSeededDB(t)

	matches, err := db.FacultyByField(context.Background(), "machine learning")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	assert.Equal(t, "Machine Learning", matches[0].Faculty.Field)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Similarity, matches[i-1].Similarity)
	}
	for _, m := range matches {
		assert.Greater(t, m.Similarity, FieldSimilarityFloor)
	}
}

func TestFacultyByFieldNoMatch(t *testing.T) {
	db := newSeededDB(t)

	matches, err := db.FacultyByField(context.Background(), "marine biology oceanography")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFacultyByFieldCap(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows := make([]*Faculty, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, &Faculty{
			FName: "Test", LName: "Member",
			Field: "Machine Learning", Degree: "PhD", Gender: "male",
		})
	}
	require.NoError(t, db.SeedFaculty(context.Background(), rows))

	matches, err := db.FacultyByField(context.Background(), "machine learning")
	require.NoError(t, err)
	assert.Len(t, matches, MaxFuzzyResults)
}

func TestFacultyByDegree(t *testing.T) {
	db := newSeededDB(t)

	matches, err := db.FacultyByDegree(context.Background(), "phd")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.Equal(t, "PhD", m.Faculty.Degree)
	}
}

func TestFacultyByName(t *testing.T) {
	db := newSeededDB(t)

	t.Run("exact name", func(t *testing.T) {
		best, err := db.FacultyByName(context.Background(), "Rajbir Kaur")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, "Rajbir Kaur", best.Faculty.FullName())
		assert.Greater(t, best.Similarity, NameSimilarityFloor)
	})

	t.Run("misspelled name still matches", func(t *testing.T) {
		best, err := db.FacultyByName(context.Background(), "Rajbir Kour")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, "Rajbir Kaur", best.Faculty.FullName())
		assert.Greater(t, best.Similarity, NameSimilarityFloor)
	})

	t.Run("weak match stays below confirm floor", func(t *testing.T) {
		best, err := db.FacultyByName(context.Background(), "Raj")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.LessOrEqual(t, best.Similarity, NameSimilarityFloor)
	})

	t.Run("no overlap at all", func(t *testing.T) {
		best, err := db.FacultyByName(context.Background(), "Zzyzx Qwfp")
		require.NoError(t, err)
		assert.Nil(t, best)
	})
}

func TestFacultyByGender(t *testing.T) {
	db := newSeededDB(t)

	rows, err := db.FacultyByGender(context.Background(), "female")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, f := range rows {
		assert.Equal(t, "female", f.Gender)
	}
}

func TestComplaintRoundTrip(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := &Complaint{
		Issue:  "water cooler broken",
		Hostel: "BH3",
		RoomNo: "210",
		Date:   "2024-05-01",
		RollNo: "BH3",
	}
	require.NoError(t, db.InsertComplaint(context.Background(), c))
	assert.NotZero(t, c.ID)

	byHostel, err := db.ListComplaintsByHostel(context.Background(), "BH3")
	require.NoError(t, err)
	require.Len(t, byHostel, 1)
	assert.Equal(t, c.Issue, byHostel[0].Issue)
	assert.False(t, byHostel[0].Solved)

	other, err := db.ListComplaintsByHostel(context.Background(), "BH1")
	require.NoError(t, err)
	assert.Empty(t, other)

	all, err := db.ListAllComplaints(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestEnsureFacultySeedIsIdempotent(t *testing.T) {
	db, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.EnsureFacultySeed(context.Background()))
	first, err := db.CountFaculty(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, first)

	require.NoError(t, db.EnsureFacultySeed(context.Background()))
	second, err := db.CountFaculty(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
