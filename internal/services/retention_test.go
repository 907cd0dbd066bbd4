package services

import (
	"testing"
	"time"
)

func TestSweepDue(t *testing.T) {
	// 2026-08-28 is a Friday.
	tests := []struct {
		name      string
		now       time.Time
		day       time.Weekday
		hour      int
		lastSwept string
		expected  bool
	}{
		{
			name:     "Friday after the window opens",
			now:      time.Date(2026, 8, 28, 15, 30, 0, 0, time.UTC),
			day:      time.Friday,
			hour:     15,
			expected: true,
		},
		{
			name:     "Friday exactly at the hour",
			now:      time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC),
			day:      time.Friday,
			hour:     15,
			expected: true,
		},
		{
			name:     "Friday before the hour",
			now:      time.Date(2026, 8, 28, 14, 59, 0, 0, time.UTC),
			day:      time.Friday,
			hour:     15,
			expected: false,
		},
		{
			name:     "wrong weekday",
			now:      time.Date(2026, 8, 27, 16, 0, 0, 0, time.UTC),
			day:      time.Friday,
			hour:     15,
			expected: false,
		},
		{
			name:      "already swept today",
			now:       time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC),
			day:       time.Friday,
			hour:      15,
			lastSwept: "2026-08-28",
			expected:  false,
		},
		{
			name:      "swept a week ago",
			now:       time.Date(2026, 8, 28, 16, 0, 0, 0, time.UTC),
			day:       time.Friday,
			hour:      15,
			lastSwept: "2026-08-21",
			expected:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sweepDue(tt.now, time.UTC, tt.day, tt.hour, tt.lastSwept)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSweepDue_UsesBusinessTimezone(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	// Saturday 00:30 UTC is still Friday 17:30 in Los Angeles.
	now := time.Date(2026, 8, 29, 0, 30, 0, 0, time.UTC)
	if !sweepDue(now, la, time.Friday, 15, "") {
		t.Error("Expected sweep due in business timezone, got not due")
	}
	if sweepDue(now, time.UTC, time.Friday, 15, "") {
		t.Error("Expected sweep not due in UTC, got due")
	}
}
