package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/realcheck/internal/database"
	"github.com/jask/realcheck/internal/database/repository"
	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/upload"
	"github.com/jask/realcheck/internal/widget"
)

var _ widget.Recorder = (*HistoryService)(nil)

func TestHistoryServiceRecord(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := &HistoryService{Predictions: repository.NewPredictionRepo(db), Endpoint: "http://localhost:5000/api/predict"}
	f := upload.File{Name: "dog.jpg", MediaType: "image/jpeg", Data: []byte("jpegdata")}
	require.NoError(t, svc.Record(ctx, f, predict.Result{Label: "real", Confidence: 0.88, Explanation: " fur detail "}))
	t.Log("recorded")

	rows, err := svc.Recent(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0]
	require.NotEmpty(t, got.ID)
	require.Equal(t, "dog.jpg", got.ImageName)
	require.Equal(t, "image/jpeg", got.MediaType)
	require.Equal(t, int64(8), got.ImageBytes)
	require.Equal(t, "fur detail", got.Explanation)
	require.Equal(t, "http://localhost:5000/api/predict", got.Endpoint)
	require.InDelta(t, 0.88, got.Confidence, 1e-9)

	rows, err = svc.Recent(ctx, "dob", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	removed, err := svc.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
}

func TestHistoryServiceNilIsNoop(t *testing.T) {
	var svc *HistoryService
	require.NoError(t, svc.Record(context.Background(), upload.File{}, predict.Result{}))
}
