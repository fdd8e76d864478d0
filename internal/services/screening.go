package services

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"fraud-screen/internal/catalog"
	"fraud-screen/internal/models"
	"fraud-screen/internal/observability"
	"fraud-screen/internal/scoring"
)

// Screening is the request-facing scoring service. It wraps a Scorer with
// tracing, logging and counters; the scorer itself is immutable.
type Screening struct {
	scorer   *scoring.Scorer
	logger   *slog.Logger
	loadedAt time.Time

	submissions     atomic.Int64
	fraudulent      atomic.Int64
	legitimate      atomic.Int64
	validationFails atomic.Int64
	unknownCategory atomic.Int64
	internalFails   atomic.Int64
}

func NewScreening(scorer *scoring.Scorer, logger *slog.Logger) *Screening {
	return &Screening{
		scorer:   scorer,
		logger:   logger,
		loadedAt: time.Now(),
	}
}

// Score runs one submission through the scorer.
func (s *Screening) Score(ctx context.Context, rec models.TransactionRecord) (models.Verdict, error) {
	_, span := observability.StartSpan(ctx, "score")
	span.SetTag("merchant", rec.Merchant)
	span.SetTag("category", rec.Category)

	s.submissions.Add(1)
	requestID := observability.GetRequestID(ctx)

	verdict, err := s.scorer.Score(rec)
	if err != nil {
		span.SetError(err)
		span.Finish()
		s.countError(err)
		s.logger.Warn("scoring rejected",
			"error", err,
			"request_id", requestID,
			span.Attrs(),
		)
		return models.Verdict{}, err
	}

	if verdict.Fraud {
		s.fraudulent.Add(1)
	} else {
		s.legitimate.Add(1)
	}

	span.SetTag("label", verdict.Label)
	span.Finish()
	s.logger.Info("transaction scored",
		"label", verdict.Label,
		"confidence", verdict.ConfidenceText(),
		"request_id", requestID,
		span.Attrs(),
	)

	return verdict, nil
}

func (s *Screening) countError(err error) {
	var (
		ve  *scoring.ValidationError
		uce *scoring.UnknownCategoryError
	)
	switch {
	case errors.As(err, &ve):
		s.validationFails.Add(1)
	case errors.As(err, &uce):
		s.unknownCategory.Add(1)
	default:
		s.internalFails.Add(1)
	}
}

func (s *Screening) Catalogs() *catalog.Catalogs {
	return s.scorer.Bundle().Catalogs
}

// VocabularyGaps reports catalog entries the encoders cannot encode.
func (s *Screening) VocabularyGaps() map[string][]string {
	return s.scorer.Bundle().VocabularyGaps()
}

func (s *Screening) Schema() scoring.Schema {
	return s.scorer.Bundle().Schema
}

// SchemaInfo describes the loaded model for the schema endpoint.
type SchemaInfo struct {
	Name        string   `json:"name"`
	Columns     []string `json:"columns"`
	Categorical []string `json:"categorical"`
	Classes     []int    `json:"classes"`
	Depth       int      `json:"depth"`
	Leaves      int      `json:"leaves"`
}

func (s *Screening) SchemaInfo() SchemaInfo {
	b := s.scorer.Bundle()
	return SchemaInfo{
		Name:        b.Schema.Name,
		Columns:     b.Schema.Columns,
		Categorical: b.Schema.Categorical,
		Classes:     b.Model.Classes,
		Depth:       b.Model.Depth(),
		Leaves:      b.Model.LeafCount(),
	}
}

// Stats is for monitoring only.
func (s *Screening) Stats() map[string]any {
	return map[string]any{
		"loaded_at":         s.loadedAt,
		"schema":            s.scorer.Bundle().Schema.Name,
		"submissions":       s.submissions.Load(),
		"fraudulent":        s.fraudulent.Load(),
		"legitimate":        s.legitimate.Load(),
		"validation_errors": s.validationFails.Load(),
		"unknown_category":  s.unknownCategory.Load(),
		"internal_errors":   s.internalFails.Load(),
	}
}
