package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crewclock-backend/internal/models"
	"crewclock-backend/internal/repository"
)

// Intervals at or beyond 12 hours are treated as corrupt or unattended
// clock-outs and contribute nothing to the sums.
const maxSessionSeconds = 43200

var workingDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// SumWorkedSeconds totals the worked time of the given sessions. A session
// counts only when it is closed, out_time is after in_time, and the interval
// is strictly under maxSessionSeconds; anything else is skipped, not capped.
func SumWorkedSeconds(sessions []*models.Session) int64 {
	var total int64
	for _, s := range sessions {
		if s.OutTime == nil {
			continue
		}
		diff := s.OutTime.Sub(s.InTime)
		if diff <= 0 {
			continue
		}
		secs := int64(diff / time.Second)
		if secs >= maxSessionSeconds {
			continue
		}
		total += secs
	}
	return total
}

// WorkDate formats an instant as the YYYY-MM-DD partition key in the
// business timezone.
func WorkDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// WeekDates enumerates the six working days (Monday..Saturday) of the week
// containing now. On Sunday the window is the week just worked, not the
// one ahead.
func WeekDates(now time.Time, loc *time.Location) []string {
	local := now.In(loc)
	offset := int(local.Weekday()) - 1
	if local.Weekday() == time.Sunday {
		offset = 6
	}
	monday := local.AddDate(0, 0, -offset)

	dates := make([]string, 0, len(workingDays))
	for i := 0; i < len(workingDays); i++ {
		dates = append(dates, monday.AddDate(0, 0, i).Format("2006-01-02"))
	}
	return dates
}

type TimesheetService struct {
	sessions *repository.SessionRepo
	loc      *time.Location
	now      func() time.Time
}

func NewTimesheetService(sessions *repository.SessionRepo, loc *time.Location) *TimesheetService {
	return &TimesheetService{sessions: sessions, loc: loc, now: time.Now}
}

// WeeklyTimesheet computes the Monday..Saturday buckets for a worker from
// the current week's sessions. Only fully closed sessions count; the week
// total is the sum of the six buckets.
func (s *TimesheetService) WeeklyTimesheet(ctx context.Context, userID uuid.UUID) (*models.WeeklyTimesheet, error) {
	dates := WeekDates(s.now(), s.loc)

	sessions, err := s.sessions.ListByUserAndDates(ctx, userID, dates)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*models.Session, len(dates))
	for _, session := range sessions {
		byDate[session.WorkDate] = append(byDate[session.WorkDate], session)
	}

	sheet := &models.WeeklyTimesheet{
		UserID: userID,
		Days:   make([]models.DaySummary, 0, len(dates)),
	}
	for i, date := range dates {
		daySecs := SumWorkedSeconds(byDate[date])
		sheet.Days = append(sheet.Days, models.DaySummary{
			Date:         date,
			Weekday:      workingDays[i],
			TotalSeconds: daySecs,
		})
		sheet.TotalSeconds += daySecs
	}
	return sheet, nil
}

// SessionsForDay returns a worker's sessions for a single date, for the day
// detail view.
func (s *TimesheetService) SessionsForDay(ctx context.Context, userID uuid.UUID, workDate string) ([]*models.Session, error) {
	if workDate == "" {
		workDate = WorkDate(s.now(), s.loc)
	}
	return s.sessions.ListByUserAndDate(ctx, userID, workDate)
}
