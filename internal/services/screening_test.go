package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fraud-screen/internal/config"
	"fraud-screen/internal/models"
	"fraud-screen/internal/scoring"
)

func newTestScreening(t *testing.T) *Screening {
	t.Helper()
	dir := filepath.Join("..", "..", "artifacts")
	bundle, err := scoring.LoadBundle(context.Background(), scoring.GeoSchema, scoring.Paths{
		Model:      filepath.Join(dir, "decision_tree_classifier.json"),
		Encoders:   filepath.Join(dir, "label_encoders.json"),
		CatalogDir: dir,
	})
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewScreening(scoring.NewScorer(bundle), logger)
}

func testRecord() models.TransactionRecord {
	return models.TransactionRecord{
		Merchant:       "fraud_Kirlin and Sons",
		Category:       "grocery_pos",
		Amount:         50,
		Gender:         "M",
		Job:            "Mechanical engineer",
		State:          "NC",
		Zip:            28654,
		CityPopulation: 50000,
		Age:            35,
		Customer:       &models.Coordinates{Latitude: 35.22, Longitude: -80.84},
		MerchantLoc:    &models.Coordinates{Latitude: 35.23, Longitude: -80.83},
		Timestamp:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestScreening_Score(t *testing.T) {
	s := newTestScreening(t)

	v, err := s.Score(context.Background(), testRecord())
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if v.Label != models.LabelLegitimate {
		t.Errorf("expected legitimate, got %q", v.Label)
	}

	rec := testRecord()
	rec.Amount = 900
	rec.Category = "travel"
	v, err = s.Score(context.Background(), rec)
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !v.Fraud {
		t.Error("expected fraudulent verdict")
	}
}

func TestScreening_Stats(t *testing.T) {
	s := newTestScreening(t)
	ctx := context.Background()

	s.Score(ctx, testRecord())

	bad := testRecord()
	bad.Age = 121
	s.Score(ctx, bad)

	unknown := testRecord()
	unknown.State = "ZZ"
	s.Score(ctx, unknown)

	stats := s.Stats()
	checks := map[string]int64{
		"submissions":       3,
		"legitimate":        1,
		"fraudulent":        0,
		"validation_errors": 1,
		"unknown_category":  1,
		"internal_errors":   0,
	}
	for key, want := range checks {
		if got := stats[key].(int64); got != want {
			t.Errorf("stats[%q] = %d, want %d", key, got, want)
		}
	}
	if stats["schema"] != "geo" {
		t.Errorf("unexpected schema %v", stats["schema"])
	}
}

func TestScreening_SchemaInfo(t *testing.T) {
	s := newTestScreening(t)
	info := s.SchemaInfo()

	if info.Name != "geo" || len(info.Columns) != 18 {
		t.Errorf("unexpected schema info %+v", info)
	}
	if info.Depth != 2 || info.Leaves != 4 {
		t.Errorf("unexpected tree shape depth=%d leaves=%d", info.Depth, info.Leaves)
	}
	if s.Catalogs().List("merchants").Len() == 0 {
		t.Error("expected merchants catalog")
	}
}

func artifactsConfig(schema string) config.ArtifactsConfig {
	dir := filepath.Join("..", "..", "artifacts")
	return config.ArtifactsConfig{
		ModelFile:    filepath.Join(dir, "decision_tree_classifier.json"),
		EncodersFile: filepath.Join(dir, "label_encoders.json"),
		CatalogDir:   dir,
		Schema:       schema,
		LoadTimeout:  5 * time.Second,
	}
}

func TestLoadScreening(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s, err := LoadScreening(context.Background(), artifactsConfig("geo"), logger)
	if err != nil {
		t.Fatalf("LoadScreening() failed: %v", err)
	}
	if s.Schema().Name != "geo" {
		t.Errorf("unexpected schema %q", s.Schema().Name)
	}
}

func TestLoadScreening_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name     string
		cfg      config.ArtifactsConfig
		artifact string
	}{
		{"unknown schema", artifactsConfig("polar"), "schema"},
		{"schema mismatch", artifactsConfig("compact"), "model"},
		{"missing model", func() config.ArtifactsConfig {
			c := artifactsConfig("geo")
			c.ModelFile = filepath.Join(t.TempDir(), "missing.json")
			return c
		}(), "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScreening(context.Background(), tt.cfg, logger)
			var le *scoring.ArtifactLoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected ArtifactLoadError, got %v", err)
			}
			if le.Artifact != tt.artifact {
				t.Errorf("artifact = %q, want %q", le.Artifact, tt.artifact)
			}
		})
	}
}
