package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/realcheck/internal/database"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := database.OpenMigrated(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPredictionRepoInsertList(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := NewPredictionRepo(testDB(t))

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, Prediction{ID: "a", ImageName: "beach.jpg", MediaType: "image/jpeg", Label: "real", Confidence: 0.91, CreatedAt: base}))
	require.NoError(t, repo.Insert(ctx, Prediction{ID: "b", ImageName: "robot.png", MediaType: "image/png", Label: "fake", Confidence: 0.77, Explanation: "texture", CreatedAt: base.Add(time.Hour)}))

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "texture", all[0].Explanation)
	require.InDelta(t, 0.77, all[0].Confidence, 1e-9)
	require.True(t, all[0].CreatedAt.Equal(base.Add(time.Hour)))

	one, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestPredictionRepoSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepo(testDB(t))
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	rows := []Prediction{
		{ID: "1", ImageName: "holiday.jpg", MediaType: "image/jpeg", Label: "real", Confidence: 0.8, CreatedAt: base},
		{ID: "2", ImageName: "portrait.png", MediaType: "image/png", Label: "AI-generated", Confidence: 0.95, CreatedAt: base.Add(time.Minute)},
		{ID: "3", ImageName: "sunset.png", MediaType: "image/png", Label: "real", Confidence: 0.6, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, p := range rows {
		require.NoError(t, repo.Insert(ctx, p))
	}

	got, err := repo.Search(ctx, "ai-gen", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].ID)

	// one edit away from "holiday"
	got, err = repo.Search(ctx, "holyday", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "1", got[0].ID)

	got, err = repo.Search(ctx, "REAL", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "3", got[0].ID)

	got, err = repo.Search(ctx, "zzzzzzzz", 0)
	require.NoError(t, err)
	require.Empty(t, got)

	got, err = repo.Search(ctx, "  ", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

func TestPredictionRepoClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepo(testDB(t))
	require.NoError(t, repo.Insert(ctx, Prediction{ID: "x", ImageName: "a.png", MediaType: "image/png", Label: "real"}))

	removed, err := repo.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPredictionRepoInsertDefaultsCreatedAt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewPredictionRepo(testDB(t))

	before := database.Now()
	require.NoError(t, repo.Insert(ctx, Prediction{ID: "x", ImageName: "cat.png", MediaType: "image/png", Label: "real", Confidence: 1.5}))
	after := database.Now()

	rows, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0].CreatedAt
	require.Zero(t, got.Nanosecond())
	require.False(t, got.Before(before))
	require.False(t, got.After(after))
	require.InDelta(t, 1.5, rows[0].Confidence, 1e-9)
}
