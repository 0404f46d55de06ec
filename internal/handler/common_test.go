package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/dcortes/mechanic-shop-api/internal/model"
	"github.com/dcortes/mechanic-shop-api/internal/service"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetMechanicID(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(7), 7, false},
		{"float64", float64(7), 7, false},
		{"string", "7", 7, false},
		{"bad_string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			if tt.value != nil {
				c.Set("mechanic_id", tt.value)
			}
			got, err := getMechanicID(c)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  uint64
		valid bool
	}{
		{"valid", "42", 42, true},
		{"zero", "0", 0, false},
		{"not_a_number", "abc", 0, false},
		{"negative", "-1", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			c.SetParamNames("id")
			c.SetParamValues(tt.raw)
			got, ok := pathID(c, "id")
			if ok != tt.valid {
				t.Fatalf("expected valid=%v, got %v", tt.valid, ok)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestServiceErrStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrTicketNotFound, http.StatusNotFound},
		{service.ErrPartNotFound, http.StatusNotFound},
		{service.ErrMechanicNotFound, http.StatusNotFound},
		{service.ErrPartNotOnTicket, http.StatusNotFound},
		{service.ErrInvalidQuantity, http.StatusBadRequest},
		{service.ErrInsufficientStock, http.StatusBadRequest},
		{service.ErrExceedsTicketQuantity, http.StatusBadRequest},
		{service.ErrAlreadyAssigned, http.StatusBadRequest},
		{service.ErrNotAssigned, http.StatusBadRequest},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := serviceErrStatus(tt.err)
			if status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, status)
			}
			if status == http.StatusInternalServerError && msg != "database error" {
				t.Errorf("expected generic database error message, got %q", msg)
			}
		})
	}
}

func TestNewTicketResp(t *testing.T) {
	price := decimal.NewFromFloat(47.50)
	summary := "Brake Pad (x4)"
	done := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)

	resp := newTicketResp(&model.ServiceTicket{
		ID:                 3,
		CustomerID:         9,
		VehicleMake:        "Toyota",
		VehicleModel:       "Corolla",
		VehicleYear:        2021,
		ServiceDescription: "Brakes",
		Status:             model.StatusComplete,
		Price:              &price,
		PartsSummary:       &summary,
		DateCreated:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompletedAt:        &done,
	})

	if resp.Price == nil || *resp.Price != 47.5 {
		t.Errorf("unexpected price: %v", resp.Price)
	}
	if resp.PartsSummary == nil || *resp.PartsSummary != summary {
		t.Errorf("unexpected summary: %v", resp.PartsSummary)
	}
	if resp.DateCreated != "2026-03-01" {
		t.Errorf("unexpected date_created: %q", resp.DateCreated)
	}
	if resp.CompletedAt == nil || *resp.CompletedAt != "2026-03-02T15:04:05Z" {
		t.Errorf("unexpected completed_at: %v", resp.CompletedAt)
	}

	// A fresh ticket carries neither price nor summary nor completion.
	bare := newTicketResp(&model.ServiceTicket{
		ID:          4,
		Status:      model.StatusPending,
		DateCreated: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if bare.Price != nil || bare.PartsSummary != nil || bare.CompletedAt != nil {
		t.Errorf("expected nil price/summary/completed_at on a fresh ticket")
	}
}
