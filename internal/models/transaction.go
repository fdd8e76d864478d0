package models

import (
	"strconv"
	"time"
)

// Coordinates is a point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"long"`
}

// TransactionRecord is one human-entered submission. It is built per request
// and never mutated after parsing.
type TransactionRecord struct {
	Merchant       string       `json:"merchant"`
	Category       string       `json:"category"`
	Amount         float64      `json:"amt"`
	Gender         string       `json:"gender"`
	Job            string       `json:"job"`
	State          string       `json:"state"`
	Zip            int          `json:"zip"`
	CityPopulation int          `json:"city_pop"`
	Age            int          `json:"age"`
	Customer       *Coordinates `json:"customer,omitempty"`
	MerchantLoc    *Coordinates `json:"merchant_location,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}

// EncodedFeatureVector is the numeric row handed to the classifier. Values
// are ordered as Columns.
type EncodedFeatureVector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Value returns the value of the named column.
func (v EncodedFeatureVector) Value(column string) (float64, bool) {
	for i, c := range v.Columns {
		if c == column {
			return v.Values[i], true
		}
	}
	return 0, false
}

const (
	LabelFraudulent = "fraudulent"
	LabelLegitimate = "legitimate"
)

type Verdict struct {
	Fraud       bool    `json:"fraud"`
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Probability float64 `json:"fraud_probability"`
}

// ConfidenceText formats the confidence with two decimals, e.g. "99.48".
func (v Verdict) ConfidenceText() string {
	return strconv.FormatFloat(v.Confidence, 'f', 2, 64)
}
