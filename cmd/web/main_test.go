package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fraud-screen/internal/config"
	"fraud-screen/internal/services"
)

const recordJSON = `{
	"merchant": "fraud_Kirlin and Sons",
	"category": "grocery_pos",
	"amt": 50.00,
	"gender": "M",
	"job": "Mechanical engineer",
	"state": "NC",
	"zip": 28654,
	"city_pop": 50000,
	"age": 35,
	"customer": {"lat": 35.22, "long": -80.84},
	"merchant_location": {"lat": 35.23, "long": -80.83},
	"timestamp": "2024-01-01T12:00:00Z"
}`

func testConfig() *config.Config {
	dir := filepath.Join("..", "..", "artifacts")
	return &config.Config{
		Artifacts: config.ArtifactsConfig{
			ModelFile:    filepath.Join(dir, "decision_tree_classifier.json"),
			EncodersFile: filepath.Join(dir, "label_encoders.json"),
			CatalogDir:   dir,
			Schema:       "geo",
			LoadTimeout:  5 * time.Second,
		},
		Security: config.SecurityConfig{
			MaxBodyBytes:   1 << 10,
			AllowedOrigins: []string{"http://localhost:8501"},
			TrustedProxies: []string{"127.0.0.1"},
		},
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := testConfig()

	screening, err := services.LoadScreening(context.Background(), cfg.Artifacts, logger)
	if err != nil {
		t.Fatalf("load screening: %v", err)
	}
	return newHandler(cfg, screening, logger)
}

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

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/api/catalogs", http.StatusOK, "application/json"},
		{"/api/schema", http.StatusOK, "application/json"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			handler.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}

			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

func TestServer_APIScore(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/score", strings.NewReader(recordJSON))
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	data, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response")
	}
	if data["label"] != "legitimate" || data["fraud"] != false {
		t.Errorf("unexpected verdict %v", data)
	}
}

func TestServer_SSEScore(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/sse/score", strings.NewReader(exampleForm().Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("content-type = %q, should contain 'text/event-stream'", ct)
	}
	if !strings.Contains(w.Body.String(), "99.48% confidence") {
		t.Errorf("expected verdict in stream, got %s", w.Body.String())
	}
}

func TestServer_FormSubmit(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(exampleForm().Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "<strong>Legitimate</strong>") {
		t.Error("expected verdict on page")
	}
}

func TestServer_BodyLimit(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"merchant": "` + strings.Repeat("x", 4<<10) + `"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/score", strings.NewReader(body))
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// Test error handling for invalid methods and paths
func TestServer_ErrorHandling(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"GET", "/api/score", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
		{"GET", "/sse/score", http.StatusMethodNotAllowed},
		{"GET", "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			handler.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestServer_SecurityHeaders(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://cdn.jsdelivr.net") {
		t.Errorf("unexpected CSP %q", csp)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}
}
