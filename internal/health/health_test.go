package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleHealthcheck_AllEnabled(t *testing.T) {
	s := NewServer("127.0.0.1", 0)

	req := httptest.NewRequest(http.MethodGet, healthcheckPath, nil)
	rec := httptest.NewRecorder()
	s.handleHealthcheck(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body checkResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Service != "http" || !body.Data[0].Enabled {
		t.Fatalf("body.Data = %+v, want the pre-registered http check enabled", body.Data)
	}
}

func TestHandleHealthcheck_OneDisabledReturns503(t *testing.T) {
	s := NewServer("127.0.0.1", 0)
	s.RegisterCheck("bus", func(context.Context) bool { return false })

	req := httptest.NewRequest(http.MethodGet, healthcheckPath, nil)
	rec := httptest.NewRecorder()
	s.handleHealthcheck(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Code != "UNAVAILABLE" {
		t.Fatalf("body.Data = %+v, want a single UNAVAILABLE error entry", body.Data)
	}
}

func TestRegisterCheck_OverwritesExisting(t *testing.T) {
	s := NewServer("127.0.0.1", 0)
	s.RegisterCheck("http", func(context.Context) bool { return false })

	req := httptest.NewRequest(http.MethodGet, healthcheckPath, nil)
	rec := httptest.NewRecorder()
	s.handleHealthcheck(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d after overwriting the http check", rec.Code, http.StatusServiceUnavailable)
	}
}
