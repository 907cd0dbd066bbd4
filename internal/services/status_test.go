package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"crewclock-backend/internal/models"
)

func testWorker(rate float64) *models.Worker {
	return &models.Worker{
		ID:         uuid.New(),
		FullName:   "Test Worker",
		Role:       models.RoleWorker,
		HourlyRate: rate,
	}
}

func TestProjectWorker_LocationHiddenOnceClosed(t *testing.T) {
	base := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	out := base.Add(8 * time.Hour)

	closed := &models.Session{
		InTime:   base,
		OutTime:  &out,
		Location: &models.GeoPoint{Lat: 1, Lng: 1},
	}

	status := projectWorker(testWorker(10), []*models.Session{closed})

	if status.Presence != models.PresenceOffDuty {
		t.Errorf("Expected presence %q, got %q", models.PresenceOffDuty, status.Presence)
	}
	if status.LastLocation != nil {
		t.Errorf("Expected closed session's location hidden, got %+v", status.LastLocation)
	}
}

func TestProjectWorker_ActiveWithFix(t *testing.T) {
	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	open := &models.Session{
		InTime:   base,
		Location: &models.GeoPoint{Lat: 35.37, Lng: -119.02},
	}

	status := projectWorker(testWorker(10), []*models.Session{open})

	if status.Presence != models.PresenceActive {
		t.Errorf("Expected presence %q, got %q", models.PresenceActive, status.Presence)
	}
	if status.LastLocation == nil || status.LastLocation.Lat != 35.37 {
		t.Errorf("Expected open session's location, got %+v", status.LastLocation)
	}
}

func TestProjectWorker_ActiveWithoutFixIsDistinct(t *testing.T) {
	open := &models.Session{InTime: time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)}

	status := projectWorker(testWorker(10), []*models.Session{open})

	if status.Presence != models.PresenceActiveNoFix {
		t.Errorf("Expected presence %q, got %q", models.PresenceActiveNoFix, status.Presence)
	}
	if status.LastLocation != nil {
		t.Errorf("Expected no location, got %+v", status.LastLocation)
	}
}

func TestProjectWorker_PayFromClosedSessionsOnly(t *testing.T) {
	base := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	mondayOut := base.Add(8*time.Hour + 30*time.Minute)

	sessions := []*models.Session{
		// Monday 08:00–16:30, counts for 8.5h.
		{InTime: base, OutTime: &mondayOut},
		// Tuesday open session: active but contributes no paid time.
		{InTime: base.AddDate(0, 0, 1), Location: &models.GeoPoint{Lat: 2, Lng: 3}},
	}

	status := projectWorker(testWorker(20), sessions)

	if status.Presence != models.PresenceActive {
		t.Errorf("Expected presence %q, got %q", models.PresenceActive, status.Presence)
	}
	if status.TotalSeconds != 30600 {
		t.Errorf("Expected 30600 worked seconds, got %d", status.TotalSeconds)
	}
	if status.TotalHours != 8.5 {
		t.Errorf("Expected 8.5 hours, got %v", status.TotalHours)
	}
	if status.TotalPay != 170 {
		t.Errorf("Expected pay 170, got %v", status.TotalPay)
	}
}

func TestProjectWorker_CorruptIntervalExcludedFromPay(t *testing.T) {
	base := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	unattendedOut := base.Add(26 * time.Hour) // forgot to clock out
	tuesdayIn := base.AddDate(0, 0, 1)
	tuesdayOut := tuesdayIn.Add(2 * time.Hour)

	sessions := []*models.Session{
		{InTime: base, OutTime: &unattendedOut},
		{InTime: tuesdayIn, OutTime: &tuesdayOut},
	}

	status := projectWorker(testWorker(15), sessions)

	if status.TotalSeconds != 7200 {
		t.Errorf("Expected 7200 seconds (corrupt interval dropped), got %d", status.TotalSeconds)
	}
	if status.TotalPay != 30 {
		t.Errorf("Expected pay 30, got %v", status.TotalPay)
	}
}

func TestProjectWorker_NoSessions(t *testing.T) {
	status := projectWorker(testWorker(10), nil)

	if status.Presence != models.PresenceOffDuty {
		t.Errorf("Expected presence %q, got %q", models.PresenceOffDuty, status.Presence)
	}
	if status.TotalSeconds != 0 || status.TotalPay != 0 {
		t.Errorf("Expected zero totals, got %d seconds / %v pay", status.TotalSeconds, status.TotalPay)
	}
}
