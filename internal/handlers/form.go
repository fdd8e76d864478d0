package handlers

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fraud-screen/internal/models"
	"fraud-screen/internal/scoring"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// FormInput is a submission as raw strings, whether it came from an HTML
// form or from Datastar signals. Values are trimmed.
type FormInput struct {
	Merchant  string
	Category  string
	Amount    string
	Gender    string
	Job       string
	State     string
	Zip       string
	CityPop   string
	Age       string
	Lat       string
	Long      string
	MerchLat  string
	MerchLong string
	Date      string
	Time      string
}

// FormInputFromValues reads a submission from url-encoded form values.
func FormInputFromValues(v url.Values) FormInput {
	get := func(key string) string { return strings.TrimSpace(v.Get(key)) }
	return FormInput{
		Merchant:  get("merchant"),
		Category:  get("category"),
		Amount:    get("amt"),
		Gender:    get("gender"),
		Job:       get("job"),
		State:     get("state"),
		Zip:       get("zip"),
		CityPop:   get("city_pop"),
		Age:       get("age"),
		Lat:       get("lat"),
		Long:      get("long"),
		MerchLat:  get("merch_lat"),
		MerchLong: get("merch_long"),
		Date:      get("date"),
		Time:      get("time"),
	}
}

// signalField is one Datastar signal. Bound number inputs arrive as JSON
// numbers, everything else as strings. Objects and arrays are not form
// fields and read as empty.
type signalField string

func (s *signalField) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch v := v.(type) {
	case string:
		*s = signalField(v)
	case json.Number:
		*s = signalField(v.String())
	case bool:
		*s = signalField(strconv.FormatBool(v))
	default:
		*s = ""
	}
	return nil
}

// FormInputFromSignals reads a submission from decoded Datastar signals.
// Signals that are not form fields are ignored.
func FormInputFromSignals(signals map[string]signalField) FormInput {
	v := make(url.Values, len(signals))
	for key, s := range signals {
		v.Set(key, string(s))
	}
	return FormInputFromValues(v)
}

// DefaultFormInput is what the form shows before the first submission.
func DefaultFormInput(now time.Time) FormInput {
	return FormInput{
		Amount:    "50.00",
		Gender:    "M",
		Zip:       "28654",
		CityPop:   "50000",
		Age:       "35",
		Lat:       "35.22",
		Long:      "-80.84",
		MerchLat:  "35.23",
		MerchLong: "-80.83",
		Date:      now.Format(dateLayout),
		Time:      now.Format(timeLayout),
	}
}

// Values returns the input keyed by form field name.
func (in FormInput) Values() map[string]string {
	return map[string]string{
		"merchant":   in.Merchant,
		"category":   in.Category,
		"amt":        in.Amount,
		"gender":     in.Gender,
		"job":        in.Job,
		"state":      in.State,
		"zip":        in.Zip,
		"city_pop":   in.CityPop,
		"age":        in.Age,
		"lat":        in.Lat,
		"long":       in.Long,
		"merch_lat":  in.MerchLat,
		"merch_long": in.MerchLong,
		"date":       in.Date,
		"time":       in.Time,
	}
}

// Record converts the raw input into a typed record. Malformed numbers and
// dates are reported as *scoring.ValidationError; range checks are left to
// the scorer.
func (in FormInput) Record() (models.TransactionRecord, error) {
	amount, err := parseFloat("amount", in.Amount)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	zip, err := parseInt("zip", in.Zip)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	cityPop, err := parseInt("city_pop", in.CityPop)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	age, err := parseInt("age", in.Age)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	customer, err := parseCoordinates("customer", in.Lat, in.Long)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	merchantLoc, err := parseCoordinates("merchant_location", in.MerchLat, in.MerchLong)
	if err != nil {
		return models.TransactionRecord{}, err
	}
	ts, err := parseTimestamp(in.Date, in.Time)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	return models.TransactionRecord{
		Merchant:       in.Merchant,
		Category:       in.Category,
		Amount:         amount,
		Gender:         in.Gender,
		Job:            in.Job,
		State:          in.State,
		Zip:            zip,
		CityPopulation: cityPop,
		Age:            age,
		Customer:       customer,
		MerchantLoc:    merchantLoc,
		Timestamp:      ts,
	}, nil
}

func parseFloat(field, s string) (float64, error) {
	if s == "" {
		return 0, &scoring.ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &scoring.ValidationError{Field: field, Reason: "must be a number"}
	}
	return v, nil
}

func parseInt(field, s string) (int, error) {
	if s == "" {
		return 0, &scoring.ValidationError{Field: field, Reason: "is required"}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &scoring.ValidationError{Field: field, Reason: "must be a whole number"}
	}
	return v, nil
}

// parseCoordinates returns nil when both parts are empty.
func parseCoordinates(field, lat, long string) (*models.Coordinates, error) {
	if lat == "" && long == "" {
		return nil, nil
	}
	la, err := parseFloat(field+".lat", lat)
	if err != nil {
		return nil, err
	}
	lo, err := parseFloat(field+".long", long)
	if err != nil {
		return nil, err
	}
	return &models.Coordinates{Latitude: la, Longitude: lo}, nil
}

// parseTimestamp combines the date and time inputs. The result carries the
// entered calendar fields unchanged.
func parseTimestamp(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, &scoring.ValidationError{Field: "date", Reason: "is required"}
	}
	if clock == "" {
		return time.Time{}, &scoring.ValidationError{Field: "time", Reason: "is required"}
	}

	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, &scoring.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	c, err := time.Parse(timeLayout, clock)
	if err != nil {
		c, err = time.Parse(timeLayout+":05", clock)
		if err != nil {
			return time.Time{}, &scoring.ValidationError{Field: "time", Reason: "must be HH:MM"}
		}
	}

	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, time.UTC), nil
}
