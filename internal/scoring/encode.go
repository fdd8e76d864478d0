package scoring

import (
	"fmt"
	"slices"

	"fraud-screen/internal/models"
)

// rawRow holds the pre-encoding value of every known column. Categorical
// columns hold strings, everything else float64.
func rawRow(rec models.TransactionRecord) map[string]any {
	ts := rec.Timestamp
	row := map[string]any{
		ColMerchant: rec.Merchant,
		ColCategory: rec.Category,
		ColAmount:   rec.Amount,
		ColGender:   rec.Gender,
		ColState:    rec.State,
		ColZip:      float64(rec.Zip),
		ColCityPop:  float64(rec.CityPopulation),
		ColJob:      rec.Job,
		// calendar fields as entered, no timezone conversion
		ColDay:    float64(ts.Day()),
		ColMonth:  float64(int(ts.Month())),
		ColYear:   float64(ts.Year()),
		ColHour:   float64(ts.Hour()),
		ColMinute: float64(ts.Minute()),
		ColAge:    float64(rec.Age),
	}
	if rec.Customer != nil {
		row[ColLat] = rec.Customer.Latitude
		row[ColLong] = rec.Customer.Longitude
	}
	if rec.MerchantLoc != nil {
		row[ColMerchLat] = rec.MerchantLoc.Latitude
		row[ColMerchLong] = rec.MerchantLoc.Longitude
	}
	return row
}

// Encode builds the classifier input row for rec in schema order,
// substituting each categorical value with its encoder code.
func (b *Bundle) Encode(rec models.TransactionRecord) (models.EncodedFeatureVector, error) {
	row := rawRow(rec)
	values := make([]float64, len(b.Schema.Columns))

	for i, col := range b.Schema.Columns {
		raw, ok := row[col]
		if !ok {
			return models.EncodedFeatureVector{}, &ValidationError{Field: col, Reason: "is required by the model"}
		}

		switch v := raw.(type) {
		case string:
			enc, ok := b.Encoders[col]
			if !ok {
				return models.EncodedFeatureVector{}, fmt.Errorf("no encoder for column %q", col)
			}
			code, ok := enc.Transform(v)
			if !ok {
				return models.EncodedFeatureVector{}, &UnknownCategoryError{Column: col, Value: v}
			}
			values[i] = float64(code)
		case float64:
			values[i] = v
		}
	}

	return models.EncodedFeatureVector{
		Columns: slices.Clone(b.Schema.Columns),
		Values:  values,
	}, nil
}

// Decode maps the categorical codes of vec back to their strings.
func (b *Bundle) Decode(vec models.EncodedFeatureVector) (map[string]string, error) {
	out := make(map[string]string, len(b.Schema.Categorical))
	for _, col := range b.Schema.Categorical {
		v, ok := vec.Value(col)
		if !ok {
			return nil, fmt.Errorf("column %q missing from vector", col)
		}
		s, ok := b.Encoders[col].InverseTransform(int(v))
		if !ok {
			return nil, fmt.Errorf("column %q: code %v out of range", col, v)
		}
		out[col] = s
	}
	return out, nil
}
