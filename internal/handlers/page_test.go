package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPageHandlers_HandleForm(t *testing.T) {
	handlers := NewPageHandlers(createTestScreening(t), testLogger())
	handlers.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	handlers.HandleForm(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}

	body := w.Body.String()
	expected := []string{
		`<option value="fraud_Kirlin and Sons" selected>`,
		`<option value="grocery_pos" selected>`,
		`name="date" value="2024-01-01"`,
		`name="time" value="12:00"`,
		`name="zip" value="28654"`,
		`name="lat"`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestPageHandlers_HandleSubmit(t *testing.T) {
	handlers := NewPageHandlers(createTestScreening(t), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSubmit(w, postForm("/", exampleForm()))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "<strong>Legitimate</strong> with 99.48% confidence.") {
		t.Error("expected legitimate verdict on page")
	}
}

func TestPageHandlers_HandleSubmit_KeepsInputOnError(t *testing.T) {
	handlers := NewPageHandlers(createTestScreening(t), testLogger())

	form := exampleForm()
	form.Set("state", "ZZ")
	form.Set("amt", "75.25")

	w := httptest.NewRecorder()
	handlers.HandleSubmit(w, postForm("/", form))

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `data-field="state"`) {
		t.Error("expected error panel for state")
	}
	if !strings.Contains(body, `name="amt" value="75.25"`) {
		t.Error("expected entered amount to be kept")
	}
}

func TestPageHandlers_HandleSubmit_EmptyCategoricalStaysEmpty(t *testing.T) {
	handlers := NewPageHandlers(createTestScreening(t), testLogger())

	form := exampleForm()
	form.Set("merchant", "")

	w := httptest.NewRecorder()
	handlers.HandleSubmit(w, postForm("/", form))

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `data-field="merchant"`) {
		t.Error("expected error panel for merchant")
	}
	if strings.Contains(body, `<option value="fraud_Kirlin and Sons" selected>`) {
		t.Error("empty merchant must not be replaced by the catalog default")
	}
	if !strings.Contains(body, `<option value="grocery_pos" selected>`) {
		t.Error("expected submitted category to stay selected")
	}
}
