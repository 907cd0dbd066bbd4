package models

import (
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a single location fix captured at clock-in.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Session is one clock-in/clock-out record for a worker on a given date.
// OutTime is nil while the worker is on the clock.
type Session struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	DisplayName string     `json:"display_name"`
	WorkDate    string     `json:"date"` // YYYY-MM-DD in the business timezone
	InTime      time.Time  `json:"in_time"`
	OutTime     *time.Time `json:"out_time,omitempty"`
	Location    *GeoPoint  `json:"location,omitempty"`
	DayFinished bool       `json:"day_finished"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOpen reports whether the worker is still on the clock for this session.
func (s *Session) IsOpen() bool {
	return s.OutTime == nil
}

// DaySummary is one weekly-history row: a working day and its summed duration.
type DaySummary struct {
	Date         string `json:"date"`
	Weekday      string `json:"weekday"`
	TotalSeconds int64  `json:"total_seconds"`
}

// WeeklyTimesheet is the Monday..Saturday view for a single worker.
type WeeklyTimesheet struct {
	UserID       uuid.UUID    `json:"user_id"`
	Days         []DaySummary `json:"days"`
	TotalSeconds int64        `json:"total_seconds"`
}

// Worker presence for the supervisor view. Location is only ever populated
// from a session that is currently open.
const (
	PresenceActive      = "active"
	PresenceActiveNoFix = "active_no_fix"
	PresenceOffDuty     = "off_duty"
)

type WorkerStatus struct {
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Presence     string    `json:"presence"`
	LastLocation *GeoPoint `json:"last_location,omitempty"`
	TotalSeconds int64     `json:"total_seconds"`
	TotalHours   float64   `json:"total_hours"`
	TotalPay     float64   `json:"total_pay"`
}
