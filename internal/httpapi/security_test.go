package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMiddlewareSetsSecurityHeaders(t *testing.T) {
	ta := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()

	ta.handler.ServeHTTP(res, req)

	if got := res.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options nosniff, got %q", got)
	}
	if got := res.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected X-Frame-Options DENY, got %q", got)
	}
	if got := res.Header().Get("Referrer-Policy"); got == "" {
		t.Fatalf("expected Referrer-Policy to be set")
	}
}

func TestJSONBodyTooLargeRejected(t *testing.T) {
	ta := newTestAPI(t)
	veryLong := strings.Repeat("a", (1<<20)+1024)
	body := fmt.Sprintf(`{"username":"%s","password":"x"}`, veryLong)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()

	ta.handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for too large body, got %d", res.Code)
	}
}

func TestCSRFTokenValidityWindow(t *testing.T) {
	ta := newTestAPI(t)
	api := ta.api

	current := api.generateCSRFToken()
	if !api.validateCSRFToken(current) {
		t.Fatalf("expected current token to validate")
	}

	prevBucket := time.Now().UTC().Truncate(time.Hour).Unix() - 3600
	previous := api.csrfTokenForHour(prevBucket)
	if !api.validateCSRFToken(previous) {
		t.Fatalf("expected previous-hour token to validate")
	}

	staleBucket := prevBucket - 3600
	stale := api.csrfTokenForHour(staleBucket)
	if api.validateCSRFToken(stale) {
		t.Fatalf("expected two-hour-old token to be rejected")
	}

	if api.validateCSRFToken("") || api.validateCSRFToken("bogus") {
		t.Fatalf("expected empty and bogus tokens to be rejected")
	}
}

func TestOptionsRequestShortCircuits(t *testing.T) {
	ta := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/purchase", nil)
	res := httptest.NewRecorder()

	ta.handler.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", res.Code)
	}
}
