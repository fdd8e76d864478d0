package services

import (
	"context"
	"log/slog"
	"time"

	"fraud-screen/internal/config"
	"fraud-screen/internal/scoring"
)

// LoadScreening resolves the configured schema, loads every artifact within
// the configured timeout and returns a ready Screening. Catalog entries the
// encoders cannot encode are logged as warnings rather than rejected.
func LoadScreening(ctx context.Context, cfg config.ArtifactsConfig, logger *slog.Logger) (*Screening, error) {
	schema, err := scoring.SchemaByName(cfg.Schema)
	if err != nil {
		return nil, &scoring.ArtifactLoadError{Artifact: "schema", Err: err}
	}

	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	start := time.Now()
	bundle, err := scoring.LoadBundle(ctx, schema, scoring.Paths{
		Model:      cfg.ModelFile,
		Encoders:   cfg.EncodersFile,
		CatalogDir: cfg.CatalogDir,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("artifacts loaded",
		"schema", schema.Name,
		"model", cfg.ModelFile,
		"depth", bundle.Model.Depth(),
		"leaves", bundle.Model.LeafCount(),
		"duration", time.Since(start),
	)

	for col, values := range bundle.VocabularyGaps() {
		logger.Warn("catalog entries missing from encoder",
			"column", col,
			"values", values,
		)
	}

	return NewScreening(scoring.NewScorer(bundle), logger), nil
}
