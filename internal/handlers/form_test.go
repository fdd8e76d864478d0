package handlers

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fraud-screen/internal/scoring"
)

func TestFormInput_Record(t *testing.T) {
	in := FormInputFromValues(exampleForm())

	rec, err := in.Record()
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	if rec.Amount != 50 || rec.Zip != 28654 || rec.CityPopulation != 50000 || rec.Age != 35 {
		t.Errorf("unexpected numeric fields %+v", rec)
	}
	if rec.Customer == nil || rec.Customer.Latitude != 35.22 || rec.Customer.Longitude != -80.84 {
		t.Errorf("unexpected customer coordinates %+v", rec.Customer)
	}
	if rec.MerchantLoc == nil || rec.MerchantLoc.Latitude != 35.23 {
		t.Errorf("unexpected merchant coordinates %+v", rec.MerchantLoc)
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !rec.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp, want)
	}
}

func TestFormInput_Record_OptionalCoordinates(t *testing.T) {
	in := FormInputFromValues(exampleForm())
	in.Lat, in.Long = "", ""

	rec, err := in.Record()
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if rec.Customer != nil {
		t.Error("expected no customer coordinates")
	}
}

func TestFormInput_Record_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormInput)
		field  string
	}{
		{"empty amount", func(in *FormInput) { in.Amount = "" }, "amount"},
		{"text amount", func(in *FormInput) { in.Amount = "abc" }, "amount"},
		{"decimal zip", func(in *FormInput) { in.Zip = "28654.5" }, "zip"},
		{"text age", func(in *FormInput) { in.Age = "old" }, "age"},
		{"half coordinates", func(in *FormInput) { in.Long = "" }, "customer.long"},
		{"bad date", func(in *FormInput) { in.Date = "01/01/2024" }, "date"},
		{"missing time", func(in *FormInput) { in.Time = "" }, "time"},
		{"bad time", func(in *FormInput) { in.Time = "noon" }, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := FormInputFromValues(exampleForm())
			tt.mutate(&in)

			_, err := in.Record()
			var ve *scoring.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestParseTimestamp_Seconds(t *testing.T) {
	ts, err := parseTimestamp("2024-02-29", "23:59:30")
	if err != nil {
		t.Fatalf("parseTimestamp() failed: %v", err)
	}
	if ts.Day() != 29 || ts.Month() != time.February || ts.Hour() != 23 || ts.Minute() != 59 {
		t.Errorf("unexpected timestamp %v", ts)
	}
}

func TestDefaultFormInput(t *testing.T) {
	in := DefaultFormInput(time.Date(2024, 5, 6, 7, 8, 0, 0, time.UTC))
	if in.Date != "2024-05-06" || in.Time != "07:08" {
		t.Errorf("unexpected date/time %q %q", in.Date, in.Time)
	}
	if in.Values()["amt"] != "50.00" {
		t.Errorf("unexpected default amount %q", in.Amount)
	}
}

func TestFormInputFromSignals(t *testing.T) {
	raw := `{"amt":50,"zip":28654,"lat":-80.5,"merchant":"  fraud_Kirlin and Sons ",
		"age":null,"scoring":true,"verdict":{"label":"legitimate"},"job":["a"]}`

	var signals map[string]signalField
	if err := json.Unmarshal([]byte(raw), &signals); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	in := FormInputFromSignals(signals)

	tests := []struct {
		got, want string
	}{
		{in.Amount, "50"},
		{in.Zip, "28654"},
		{in.Lat, "-80.5"},
		{in.Merchant, "fraud_Kirlin and Sons"},
		{in.Age, ""},
		{in.Job, ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
