// internal/stats/store.go
package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"jobless/internal/models"
	"jobless/internal/scoring"

	"github.com/google/uuid"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
)

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS assessments (
		id                      UUID PRIMARY KEY,
		risk_level              TEXT NOT NULL,
		replacement_probability INTEGER NOT NULL,
		industry                TEXT NOT NULL,
		lang                    TEXT NOT NULL,
		created_at              TIMESTAMPTZ NOT NULL
	)`

// Store keeps anonymous assessment rows in postgres.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock stamps created_at from now instead of the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the assessments table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("%w: create schema: %v", ErrQueryExecutionFailed, err)
	}
	return nil
}

// Record inserts one assessment and returns the stored row.
func (s *Store) Record(ctx context.Context, industry, lang string, out scoring.Output) (*models.AssessmentRecord, error) {
	rec := &models.AssessmentRecord{
		ID:                     uuid.New().String(),
		RiskLevel:              out.RiskLevel.String(),
		ReplacementProbability: out.ReplacementProbability,
		Industry:               scoring.LookupIndustry(industry).Key,
		Lang:                   lang,
		CreatedAt:              s.now().UTC().Format(time.RFC3339),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessments (
			id, risk_level, replacement_probability, industry, lang, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID,
		rec.RiskLevel,
		rec.ReplacementProbability,
		rec.Industry,
		rec.Lang,
		rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}
	return rec, nil
}

// Distribution aggregates stored assessments per risk level. Every level is present
// in the result, lowest first, even when its count is zero.
func (s *Store) Distribution(ctx context.Context) (*models.RiskDistribution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT risk_level, COUNT(*), COALESCE(AVG(replacement_probability), 0)
		FROM assessments
		GROUP BY risk_level`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	defer rows.Close()

	counts := make(map[string]models.LevelCount)
	for rows.Next() {
		var lc models.LevelCount
		if err := rows.Scan(&lc.RiskLevel, &lc.Count, &lc.AverageProbability); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrQueryExecutionFailed, err)
		}
		counts[lc.RiskLevel] = lc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}

	dist := &models.RiskDistribution{Levels: make([]models.LevelCount, 0, len(scoring.RiskLevels))}
	var weighted float64
	for _, level := range scoring.RiskLevels {
		lc, ok := counts[level.String()]
		if !ok {
			lc = models.LevelCount{RiskLevel: level.String()}
		}
		lc.AverageProbability = round1(lc.AverageProbability)
		dist.Levels = append(dist.Levels, lc)
		dist.Total += lc.Count
		weighted += counts[level.String()].AverageProbability * float64(lc.Count)
	}
	if dist.Total > 0 {
		dist.AverageProbability = round1(weighted / float64(dist.Total))
	}
	return dist, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
