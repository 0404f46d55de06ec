package repository

import (
	"testing"
	"time"

	"github.com/dcortes/mechanic-shop-api/internal/model"
)

func TestCompletionDate(t *testing.T) {
	stamped := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		currentStatus string
		currentDate   *time.Time
		newStatus     string
		wantDate      *time.Time
		wantFresh     bool
	}{
		{
			name:          "pending_to_complete_stamps",
			currentStatus: model.StatusPending,
			newStatus:     model.StatusComplete,
			wantFresh:     true,
		},
		{
			name:          "in_progress_to_complete_stamps",
			currentStatus: model.StatusInProgress,
			newStatus:     model.StatusComplete,
			wantFresh:     true,
		},
		{
			name:          "repeat_complete_keeps_original_date",
			currentStatus: model.StatusComplete,
			currentDate:   &stamped,
			newStatus:     model.StatusComplete,
			wantDate:      &stamped,
		},
		{
			name:          "reopening_preserves_date",
			currentStatus: model.StatusComplete,
			currentDate:   &stamped,
			newStatus:     model.StatusPending,
			wantDate:      &stamped,
		},
		{
			name:          "non_complete_update_keeps_nil",
			currentStatus: model.StatusPending,
			newStatus:     model.StatusInProgress,
			wantDate:      nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := &model.ServiceTicket{
				ID:          1,
				Status:      tt.currentStatus,
				CompletedAt: tt.currentDate,
			}
			got := completionDate(current, tt.newStatus)
			if tt.wantFresh {
				if got == nil {
					t.Fatal("expected a freshly stamped completion date")
				}
				if since := time.Since(*got); since < 0 || since > time.Minute {
					t.Errorf("stamped date not current: %s", got)
				}
				return
			}
			if tt.wantDate == nil {
				if got != nil {
					t.Errorf("expected nil completion date, got %s", got)
				}
				return
			}
			if got == nil || !got.Equal(*tt.wantDate) {
				t.Errorf("expected %s to be preserved, got %v", tt.wantDate, got)
			}
		})
	}
}
