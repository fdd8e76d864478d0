package scoring

import (
	"fmt"
	"slices"

	"fraud-screen/internal/catalog"
)

// Column names as recorded by the classifier at fit time.
const (
	ColMerchant  = "merchant"
	ColCategory  = "category"
	ColAmount    = "amt"
	ColGender    = "gender"
	ColState     = "state"
	ColZip       = "zip"
	ColLat       = "lat"
	ColLong      = "long"
	ColCityPop   = "city_pop"
	ColJob       = "job"
	ColMerchLat  = "merch_lat"
	ColMerchLong = "merch_long"
	ColDay       = "day"
	ColMonth     = "month"
	ColYear      = "year"
	ColHour      = "hour"
	ColMinute    = "minute"
	ColAge       = "age"
)

// Schema is the exact, ordered input layout of a classifier.
type Schema struct {
	Name        string
	Columns     []string
	Categorical []string
}

var categoricalColumns = []string{ColMerchant, ColCategory, ColGender, ColState, ColJob}

// GeoSchema includes customer and merchant coordinates.
var GeoSchema = Schema{
	Name: "geo",
	Columns: []string{
		ColMerchant, ColCategory, ColAmount, ColGender, ColState, ColZip,
		ColLat, ColLong, ColCityPop, ColJob, ColMerchLat, ColMerchLong,
		ColDay, ColMonth, ColYear, ColHour, ColMinute, ColAge,
	},
	Categorical: categoricalColumns,
}

// CompactSchema omits every coordinate column.
var CompactSchema = Schema{
	Name: "compact",
	Columns: []string{
		ColMerchant, ColCategory, ColAmount, ColGender, ColState, ColZip,
		ColCityPop, ColJob,
		ColDay, ColMonth, ColYear, ColHour, ColMinute, ColAge,
	},
	Categorical: categoricalColumns,
}

// SchemaByName resolves a configured schema name.
func SchemaByName(name string) (Schema, error) {
	switch name {
	case GeoSchema.Name:
		return GeoSchema, nil
	case CompactSchema.Name:
		return CompactSchema, nil
	default:
		return Schema{}, fmt.Errorf("unknown schema %q", name)
	}
}

func (s Schema) HasGeo() bool {
	return slices.Contains(s.Columns, ColLat)
}

// catalogFor maps categorical columns to the catalog that bounds them.
// Gender is a fixed enum and has no catalog.
var catalogFor = map[string]catalog.Name{
	ColMerchant: catalog.Merchants,
	ColCategory: catalog.Categories,
	ColState:    catalog.States,
	ColJob:      catalog.Jobs,
}

// checkFeatureNames verifies that the classifier was fit on exactly this
// schema, column for column.
func (s Schema) checkFeatureNames(names []string) error {
	if len(names) != len(s.Columns) {
		return fmt.Errorf("model expects %d features, schema %s has %d", len(names), s.Name, len(s.Columns))
	}
	for i, col := range s.Columns {
		if names[i] != col {
			return fmt.Errorf("feature %d: model expects %q, schema %s has %q", i, names[i], s.Name, col)
		}
	}
	return nil
}

// checkEncoderColumns verifies that there is exactly one encoder per
// categorical column.
func (s Schema) checkEncoderColumns(columns []string) error {
	want := slices.Sorted(slices.Values(s.Categorical))
	if !slices.Equal(want, columns) {
		return fmt.Errorf("encoders cover %v, schema %s needs %v", columns, s.Name, want)
	}
	return nil
}
