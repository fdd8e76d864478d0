package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func exampleForm() url.Values {
	return url.Values{
		"merchant":   {"fraud_Kirlin and Sons"},
		"category":   {"grocery_pos"},
		"amt":        {"50.00"},
		"gender":     {"M"},
		"job":        {"Mechanical engineer"},
		"state":      {"NC"},
		"zip":        {"28654"},
		"city_pop":   {"50000"},
		"age":        {"35"},
		"lat":        {"35.22"},
		"long":       {"-80.84"},
		"merch_lat":  {"35.23"},
		"merch_long": {"-80.83"},
		"date":       {"2024-01-01"},
		"time":       {"12:00"},
	}
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewSSEHandlers(t *testing.T) {
	screening := createTestScreening(t)
	logger := testLogger()

	handlers := NewSSEHandlers(screening, logger)

	if handlers == nil {
		t.Fatal("NewSSEHandlers() returned nil")
	}

	if handlers.screening != screening {
		t.Error("NewSSEHandlers() should set screening field")
	}

	if handlers.logger != logger {
		t.Error("NewSSEHandlers() should set logger field")
	}
}

func TestSSEHandlers_HandleScore_Form(t *testing.T) {
	handlers := NewSSEHandlers(createTestScreening(t), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleScore(w, postForm("/sse/score", exampleForm()))

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	// Check SSE headers (DataStar sets these)
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected content-type to contain 'text/event-stream', got %q", ct)
	}

	body := w.Body.String()
	expected := []string{
		"datastar-patch-elements",
		`id="result"`,
		"<strong>Legitimate</strong> with 99.48% confidence.",
		"datastar-patch-signals",
		`"label":"legitimate"`,
	}
	for _, content := range expected {
		if !strings.Contains(body, content) {
			t.Errorf("expected SSE body to contain %q, got %s", content, body)
		}
	}
}

func TestSSEHandlers_HandleScore_Signals(t *testing.T) {
	handlers := NewSSEHandlers(createTestScreening(t), testLogger())

	signals := `{"merchant":"fraud_Kirlin and Sons","category":"travel","amt":"900","gender":"F",
		"job":"Nurse, adult","state":"CA","zip":"90210","city_pop":"3900000","age":"41",
		"lat":"34.05","long":"-118.24","merch_lat":"34.1","merch_long":"-118.3",
		"date":"2024-06-15","time":"23:10"}`
	req := httptest.NewRequest(http.MethodPost, "/sse/score", strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handlers.HandleScore(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "<strong>Fraudulent</strong> with 90.00% confidence.") {
		t.Errorf("expected fraudulent verdict, got %s", body)
	}
}

func TestSSEHandlers_HandleScore_RecoverableErrors(t *testing.T) {
	handlers := NewSSEHandlers(createTestScreening(t), testLogger())

	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"unknown merchant", "merchant", "fraud_Nobody", `data-field="merchant"`},
		{"age too high", "age", "121", `data-field="age"`},
		{"amount not a number", "amt", "fifty", `data-field="amount"`},
		{"zip too low", "zip", "9999", `data-field="zip"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := exampleForm()
			form.Set(tt.field, tt.value)

			w := httptest.NewRecorder()
			handlers.HandleScore(w, postForm("/sse/score", form))

			body := w.Body.String()
			if !strings.Contains(body, "result-warning") || !strings.Contains(body, tt.want) {
				t.Errorf("expected error panel with %s, got %s", tt.want, body)
			}
			if !strings.Contains(body, `"verdict":null`) {
				t.Errorf("expected verdict signal to be cleared, got %s", body)
			}
		})
	}
}

func TestSSEHandlers_HandleScore_BadSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestScreening(t), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/sse/score", strings.NewReader(`{"amt": [`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handlers.HandleScore(w, req)

	if !strings.Contains(w.Body.String(), "The submission could not be read") {
		t.Errorf("expected bad request panel, got %s", w.Body.String())
	}
}

func TestSSEHandlers_HandleScore_NumericSignals(t *testing.T) {
	handlers := NewSSEHandlers(createTestScreening(t), testLogger())

	signals := `{"merchant":"fraud_Kirlin and Sons","category":"grocery_pos","amt":50,"gender":"M",
		"job":"Mechanical engineer","state":"NC","zip":28654,"city_pop":50000,"age":35,
		"lat":35.22,"long":-80.84,"merch_lat":35.23,"merch_long":-80.83,
		"date":"2024-01-01","time":"12:00","scoring":true,"verdict":{"label":"fraudulent"}}`
	req := httptest.NewRequest(http.MethodPost, "/sse/score", strings.NewReader(signals))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handlers.HandleScore(w, req)

	body := w.Body.String()
	if !strings.Contains(body, "<strong>Legitimate</strong> with 99.48% confidence.") {
		t.Errorf("expected legitimate verdict, got %s", body)
	}
	if strings.Contains(body, "scoring") {
		t.Errorf("scoring signal belongs to the client indicator, got %s", body)
	}
}
