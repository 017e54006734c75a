package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/jask/realcheck/internal/database"
)

// searchWindow bounds how many recent rows a fuzzy search scores.
const searchWindow = 500

// Prediction is one stored prediction.
type Prediction struct {
	ID          string
	ImageName   string
	MediaType   string
	ImageBytes  int64
	Label       string
	Confidence  float64 // normalized, 1.0 is 100%
	Explanation string
	Endpoint    string
	CreatedAt   time.Time
}

// PredictionRepo handles the predictions table.
type PredictionRepo struct {
	db *sql.DB
}

func NewPredictionRepo(db *sql.DB) *PredictionRepo { return &PredictionRepo{db: db} }

func (r *PredictionRepo) Insert(ctx context.Context, p Prediction) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = database.Now()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO predictions(
	 id, image_name, media_type, image_bytes, label, confidence, explanation, endpoint, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		p.ID, p.ImageName, p.MediaType, p.ImageBytes, p.Label, p.Confidence, p.Explanation, p.Endpoint, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// List returns the newest predictions first. limit <= 0 means no limit.
func (r *PredictionRepo) List(ctx context.Context, limit int) ([]Prediction, error) {
	q := `SELECT id, image_name, media_type, image_bytes, label, confidence, explanation, endpoint, created_at
	FROM predictions ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.ID, &p.ImageName, &p.MediaType, &p.ImageBytes, &p.Label,
			&p.Confidence, &p.Explanation, &p.Endpoint, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Search matches query against image names and labels. Substring matches
// rank first; near misses on the image name (a few edits away) follow.
func (r *PredictionRepo) Search(ctx context.Context, query string, limit int) ([]Prediction, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return r.List(ctx, limit)
	}
	recent, err := r.List(ctx, searchWindow)
	if err != nil {
		return nil, err
	}

	type scored struct {
		p     Prediction
		score int
		order int
	}
	maxDist := len(query) / 3
	if maxDist < 1 {
		maxDist = 1
	}
	var hits []scored
	for i, p := range recent {
		name := strings.ToLower(p.ImageName)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		label := strings.ToLower(p.Label)
		switch {
		case strings.Contains(name, query) || strings.Contains(label, query):
			hits = append(hits, scored{p: p, score: 0, order: i})
		default:
			d := levenshtein.ComputeDistance(query, stem)
			if ld := levenshtein.ComputeDistance(query, label); ld < d {
				d = ld
			}
			if d <= maxDist {
				hits = append(hits, scored{p: p, score: d, order: i})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].order < hits[j].order
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Prediction, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.p)
	}
	return out, nil
}

func (r *PredictionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n)
	return n, err
}

// Clear deletes every stored prediction and reports how many were removed.
func (r *PredictionRepo) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM predictions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
