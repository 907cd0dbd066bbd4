package services

import (
	"testing"
	"time"

	"crewclock-backend/internal/models"
)

func closedSession(in, out time.Time) *models.Session {
	return &models.Session{InTime: in, OutTime: &out, DayFinished: true}
}

func TestSumWorkedSeconds(t *testing.T) {
	base := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC) // Monday 08:00

	tests := []struct {
		name     string
		sessions []*models.Session
		expected int64
	}{
		{
			"empty set",
			nil,
			0,
		},
		{
			"monday full shift",
			[]*models.Session{closedSession(base, base.Add(8*time.Hour+30*time.Minute))},
			30600,
		},
		{
			"floors partial seconds",
			[]*models.Session{closedSession(base, base.Add(125*time.Second+900*time.Millisecond))},
			125,
		},
		{
			"open session skipped",
			[]*models.Session{{InTime: base}},
			0,
		},
		{
			"out before in skipped",
			[]*models.Session{closedSession(base, base.Add(-time.Hour))},
			0,
		},
		{
			"zero-length skipped",
			[]*models.Session{closedSession(base, base)},
			0,
		},
		{
			"interval at twelve hours dropped, not capped",
			[]*models.Session{closedSession(base, base.Add(12*time.Hour))},
			0,
		},
		{
			"interval beyond twelve hours dropped",
			[]*models.Session{closedSession(base, base.Add(37*time.Hour))},
			0,
		},
		{
			"just under twelve hours counts",
			[]*models.Session{closedSession(base, base.Add(12*time.Hour-time.Second))},
			43199,
		},
		{
			"corrupt interval excluded from an otherwise valid sum",
			[]*models.Session{
				closedSession(base, base.Add(2*time.Hour)),
				closedSession(base, base.Add(13*time.Hour)),
				closedSession(base.Add(3*time.Hour), base.Add(4*time.Hour)),
			},
			3 * 3600,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SumWorkedSeconds(tc.sessions)
			if got != tc.expected {
				t.Errorf("Expected %d seconds, got %d", tc.expected, got)
			}
		})
	}
}

func TestWeekDates(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected []string
	}{
		{
			"wednesday mid-week",
			time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
			[]string{"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28", "2026-08-29"},
		},
		{
			"monday start of week",
			time.Date(2026, 8, 24, 0, 30, 0, 0, time.UTC),
			[]string{"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28", "2026-08-29"},
		},
		{
			"sunday looks back at the worked week",
			time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
			[]string{"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28", "2026-08-29"},
		},
		{
			"week spanning a month boundary",
			time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
			[]string{"2026-08-31", "2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04", "2026-09-05"},
		},
		{
			"week spanning a year boundary",
			time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
			[]string{"2025-12-29", "2025-12-30", "2025-12-31", "2026-01-01", "2026-01-02", "2026-01-03"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WeekDates(tc.now, time.UTC)
			if len(got) != 6 {
				t.Fatalf("Expected 6 working days, got %d", len(got))
			}
			for i, date := range tc.expected {
				if got[i] != date {
					t.Errorf("Day %d: expected %s, got %s", i, date, got[i])
				}
			}
		})
	}
}

func TestWeekDates_TimezoneMatters(t *testing.T) {
	// 2026-08-25 02:00 UTC is still Monday evening in Los Angeles, so the
	// business week must anchor on the local calendar, not UTC.
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	now := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)
	got := WeekDates(now, la)
	if got[0] != "2026-08-24" {
		t.Errorf("Expected Monday 2026-08-24, got %s", got[0])
	}
}

func TestWorkDate(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	// Just past midnight UTC is still the previous calendar day locally.
	now := time.Date(2026, 8, 25, 1, 30, 0, 0, time.UTC)
	if got := WorkDate(now, la); got != "2026-08-24" {
		t.Errorf("Expected 2026-08-24, got %s", got)
	}
	if got := WorkDate(now, time.UTC); got != "2026-08-25" {
		t.Errorf("Expected 2026-08-25, got %s", got)
	}
}
