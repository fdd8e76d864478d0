package scoring

import (
	"math"

	"fraud-screen/internal/models"
)

const (
	MinAge = 0
	MaxAge = 120
	MinZip = 10000
)

var genders = []string{"M", "F"}

// Genders returns the accepted gender codes.
func Genders() []string {
	return []string{genders[0], genders[1]}
}

// Validate checks numeric and enum bounds. It never looks at catalogs or
// encoders.
func Validate(rec models.TransactionRecord, schema Schema) error {
	if math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0) || rec.Amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	if rec.Gender != genders[0] && rec.Gender != genders[1] {
		return &ValidationError{Field: "gender", Reason: "must be M or F"}
	}
	if rec.Zip < MinZip {
		return &ValidationError{Field: "zip", Reason: "must be at least 10000"}
	}
	if rec.CityPopulation < 0 {
		return &ValidationError{Field: "city_pop", Reason: "must not be negative"}
	}
	if rec.Age < MinAge || rec.Age > MaxAge {
		return &ValidationError{Field: "age", Reason: "must be between 0 and 120"}
	}
	if rec.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Reason: "is required"}
	}

	if err := validateCoordinates("customer", rec.Customer); err != nil {
		return err
	}
	if err := validateCoordinates("merchant_location", rec.MerchantLoc); err != nil {
		return err
	}

	if schema.HasGeo() {
		if rec.Customer == nil {
			return &ValidationError{Field: "customer", Reason: "coordinates are required by the model"}
		}
		if rec.MerchantLoc == nil {
			return &ValidationError{Field: "merchant_location", Reason: "coordinates are required by the model"}
		}
	}

	return nil
}

func validateCoordinates(field string, c *models.Coordinates) error {
	if c == nil {
		return nil
	}
	if math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90 {
		return &ValidationError{Field: field + ".lat", Reason: "must be between -90 and 90"}
	}
	if math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180 {
		return &ValidationError{Field: field + ".long", Reason: "must be between -180 and 180"}
	}
	return nil
}
