package scoring

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"fraud-screen/internal/catalog"
	"fraud-screen/internal/model"
)

const (
	artifactModel    = "model"
	artifactEncoders = "encoders"
)

// fraudClass is the positive class label.
const fraudClass = 1

// Bundle is the immutable set of artifacts a Scorer works against. It is
// shared read-only by every request.
type Bundle struct {
	Schema   Schema
	Model    *model.DecisionTree
	Encoders model.Encoders
	Catalogs *catalog.Catalogs
}

// Paths locates the artifact files on disk.
type Paths struct {
	Model      string
	Encoders   string
	CatalogDir string
}

// NewBundle checks that the artifacts are mutually compatible with schema:
// the model's feature names equal the schema columns, there is exactly one
// encoder per categorical column, and the model knows the fraud class.
func NewBundle(schema Schema, tree *model.DecisionTree, encoders model.Encoders, catalogs *catalog.Catalogs) (*Bundle, error) {
	if catalogs == nil {
		return nil, &ArtifactLoadError{Artifact: "catalogs", Err: errors.New("no catalogs")}
	}
	if err := schema.checkFeatureNames(tree.FeatureNames); err != nil {
		return nil, &ArtifactLoadError{Artifact: artifactModel, Err: err}
	}
	if tree.ClassIndex(fraudClass) < 0 {
		return nil, &ArtifactLoadError{Artifact: artifactModel, Err: fmt.Errorf("model has no class %d", fraudClass)}
	}
	if err := schema.checkEncoderColumns(encoders.Columns()); err != nil {
		return nil, &ArtifactLoadError{Artifact: artifactEncoders, Err: err}
	}

	return &Bundle{
		Schema:   schema,
		Model:    tree,
		Encoders: encoders,
		Catalogs: catalogs,
	}, nil
}

// LoadBundle reads every artifact concurrently and validates the result.
// Any failure is an *ArtifactLoadError.
func LoadBundle(ctx context.Context, schema Schema, paths Paths) (*Bundle, error) {
	var (
		tree     *model.DecisionTree
		encoders model.Encoders
		mu       sync.Mutex
		lists    = make(map[catalog.Name][]string, len(catalog.All))
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := model.LoadTree(paths.Model)
		if err != nil {
			return &ArtifactLoadError{Artifact: artifactModel, Path: paths.Model, Err: err}
		}
		tree = t
		return nil
	})

	g.Go(func() error {
		e, err := model.LoadEncoders(paths.Encoders)
		if err != nil {
			return &ArtifactLoadError{Artifact: artifactEncoders, Path: paths.Encoders, Err: err}
		}
		encoders = e
		return nil
	})

	for _, name := range catalog.All {
		path := filepath.Join(paths.CatalogDir, catalog.Files[name])
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values, err := catalog.LoadFile(path)
			if err != nil {
				return &ArtifactLoadError{Artifact: string(name) + " catalog", Path: path, Err: err}
			}
			mu.Lock()
			lists[name] = values
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var le *ArtifactLoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &ArtifactLoadError{Artifact: "bundle", Err: err}
	}

	catalogs, err := catalog.New(lists)
	if err != nil {
		return nil, &ArtifactLoadError{Artifact: "catalogs", Path: paths.CatalogDir, Err: err}
	}

	b, err := NewBundle(schema, tree, encoders, catalogs)
	if err != nil {
		var le *ArtifactLoadError
		if errors.As(err, &le) {
			switch le.Artifact {
			case artifactModel:
				le.Path = paths.Model
			case artifactEncoders:
				le.Path = paths.Encoders
			}
		}
		return nil, err
	}
	return b, nil
}

// VocabularyGaps lists catalog entries the encoders cannot encode, per
// column. Such entries can be selected in the form but always fail to score.
func (b *Bundle) VocabularyGaps() map[string][]string {
	gaps := make(map[string][]string)
	for col, name := range catalogFor {
		enc, ok := b.Encoders[col]
		if !ok {
			continue
		}
		for _, v := range b.Catalogs.List(name).Values() {
			if _, ok := enc.Transform(v); !ok {
				gaps[col] = append(gaps[col], v)
			}
		}
	}
	return gaps
}
