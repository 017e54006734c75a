package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/realcheck/internal/database/repository"
	"github.com/jask/realcheck/internal/predict"
	"github.com/jask/realcheck/internal/upload"
)

// HistoryService stores successful predictions. It satisfies widget.Recorder.
type HistoryService struct {
	Predictions *repository.PredictionRepo
	Endpoint    string
}

func (s *HistoryService) Record(ctx context.Context, f upload.File, res predict.Result) error {
	if s == nil || s.Predictions == nil {
		return nil
	}
	return s.Predictions.Insert(ctx, repository.Prediction{
		ID:          uuid.NewString(),
		ImageName:   f.Name,
		MediaType:   f.MediaType,
		ImageBytes:  int64(f.Size()),
		Label:       res.Label,
		Confidence:  res.Confidence,
		Explanation: strings.TrimSpace(res.Explanation),
		Endpoint:    s.Endpoint,
	})
}

// Recent lists the newest predictions, optionally filtered by a fuzzy query.
func (s *HistoryService) Recent(ctx context.Context, query string, limit int) ([]repository.Prediction, error) {
	if strings.TrimSpace(query) != "" {
		return s.Predictions.Search(ctx, query, limit)
	}
	return s.Predictions.List(ctx, limit)
}

// Clear removes all stored predictions.
func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	return s.Predictions.Clear(ctx)
}
