package scoring

import (
	"fmt"

	"fraud-screen/internal/catalog"
	"fraud-screen/internal/models"
)

// Scorer turns a TransactionRecord into a Verdict. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	bundle *Bundle
}

func NewScorer(b *Bundle) *Scorer {
	return &Scorer{bundle: b}
}

func (s *Scorer) Bundle() *Bundle {
	return s.bundle
}

// CheckCatalogs rejects categorical values that are not in the loaded
// catalogs.
func (s *Scorer) CheckCatalogs(rec models.TransactionRecord) error {
	checks := []struct {
		column string
		name   catalog.Name
		value  string
	}{
		{ColMerchant, catalog.Merchants, rec.Merchant},
		{ColCategory, catalog.Categories, rec.Category},
		{ColState, catalog.States, rec.State},
		{ColJob, catalog.Jobs, rec.Job},
	}

	for _, c := range checks {
		if !s.bundle.Catalogs.Contains(c.name, c.value) {
			return &UnknownCategoryError{Column: c.column, Value: c.value}
		}
	}
	return nil
}

// Score validates, encodes and classifies rec.
func (s *Scorer) Score(rec models.TransactionRecord) (models.Verdict, error) {
	if err := Validate(rec, s.bundle.Schema); err != nil {
		return models.Verdict{}, err
	}
	if err := s.CheckCatalogs(rec); err != nil {
		return models.Verdict{}, err
	}

	vec, err := s.bundle.Encode(rec)
	if err != nil {
		return models.Verdict{}, err
	}

	return s.Classify(vec)
}

// Classify runs the classifier on an already encoded row.
func (s *Scorer) Classify(vec models.EncodedFeatureVector) (models.Verdict, error) {
	tree := s.bundle.Model

	label, err := tree.Predict(vec.Values)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("predict: %w", err)
	}

	proba, err := tree.PredictProba(vec.Values)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("predict proba: %w", err)
	}

	return NewVerdict(label, proba[tree.ClassIndex(fraudClass)]), nil
}

// NewVerdict maps a raw classifier label and the fraud-class probability to
// the user-facing verdict.
func NewVerdict(label int, fraudProbability float64) models.Verdict {
	if label == fraudClass {
		return models.Verdict{
			Fraud:       true,
			Label:       models.LabelFraudulent,
			Confidence:  fraudProbability * 100,
			Probability: fraudProbability,
		}
	}
	return models.Verdict{
		Fraud:       false,
		Label:       models.LabelLegitimate,
		Confidence:  (1 - fraudProbability) * 100,
		Probability: fraudProbability,
	}
}
