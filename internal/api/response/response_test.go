package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/breatheroute/phri/internal/api/middleware"
	"github.com/breatheroute/phri/internal/api/models"
	"github.com/breatheroute/phri/internal/api/response"
)

// requestWithContext returns a request that has passed through the RequestID
// middleware, so its context carries an ID.
func requestWithContext(t *testing.T, method, path string) *http.Request {
	t.Helper()
	var processed *http.Request
	handler := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		processed = r
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, path, http.NoBody))
	return processed
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) models.Problem {
	t.Helper()
	var p models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode problem: %v", err)
	}
	return p
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req := requestWithContext(t, http.MethodGet, "/test")
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]string{"message": "hello"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-Id"); got != middleware.GetRequestID(req.Context()) {
		t.Errorf("expected X-Request-Id %q, got %q", middleware.GetRequestID(req.Context()), got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
}

func TestJSON_WithoutRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody), http.StatusOK, nil)

	if got := rec.Header().Get("X-Request-Id"); got != "" {
		t.Errorf("expected no X-Request-Id header, got %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got %q", rec.Body.String())
	}
}

func TestProblemResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter, *http.Request)
		status int
		typ    string
	}{
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			response.BadRequest(w, r, "invalid", []models.FieldError{{Field: "routes", Message: "too many"}})
		}, http.StatusBadRequest, models.ProblemTypeValidation},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			response.NotFound(w, r, "no such resource")
		}, http.StatusNotFound, models.ProblemTypeNotFound},
		{"method not allowed", response.MethodNotAllowed, http.StatusMethodNotAllowed, models.ProblemTypeNotFound},
		{"unprocessable", func(w http.ResponseWriter, r *http.Request) {
			response.Unprocessable(w, r, "no routes")
		}, http.StatusUnprocessableEntity, models.ProblemTypeUnprocessable},
		{"too large", func(w http.ResponseWriter, r *http.Request) {
			response.PayloadTooLarge(w, r, "body too large")
		}, http.StatusRequestEntityTooLarge, models.ProblemTypeTooLarge},
		{"internal", func(w http.ResponseWriter, r *http.Request) {
			response.InternalError(w, r, "failed")
		}, http.StatusInternalServerError, models.ProblemTypeInternal},
		{"unavailable", func(w http.ResponseWriter, r *http.Request) {
			response.ServiceUnavailable(w, r, "draining")
		}, http.StatusServiceUnavailable, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithContext(t, http.MethodPost, "/v1/routes:compare")
			rec := httptest.NewRecorder()

			tt.write(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("expected problem content type, got %q", ct)
			}
			p := decodeProblem(t, rec)
			if p.Type != tt.typ {
				t.Errorf("expected type %q, got %q", tt.typ, p.Type)
			}
			if p.Instance != "/v1/routes:compare" {
				t.Errorf("expected instance /v1/routes:compare, got %q", p.Instance)
			}
			if p.TraceID != middleware.GetRequestID(req.Context()) {
				t.Errorf("expected traceId %q, got %q", middleware.GetRequestID(req.Context()), p.TraceID)
			}
		})
	}
}
