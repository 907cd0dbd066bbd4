package services

import (
	"context"
	"log"
	"time"

	"crewclock-backend/internal/repository"
)

const retentionPollInterval = 1 * time.Hour

// RetentionSweeper clears out past weeks' closed sessions once a week, after
// the configured local sweep time. The current week is always kept: the
// weekly view and the supervisor board only ever read that far back.
type RetentionSweeper struct {
	sessions  *repository.SessionRepo
	loc       *time.Location
	sweepDay  time.Weekday
	sweepHour int
	lastSwept string
	stopChan  chan struct{}
	now       func() time.Time
}

func NewRetentionSweeper(sessions *repository.SessionRepo, loc *time.Location, sweepDay time.Weekday, sweepHour int) *RetentionSweeper {
	return &RetentionSweeper{
		sessions:  sessions,
		loc:       loc,
		sweepDay:  sweepDay,
		sweepHour: sweepHour,
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}
}

func (s *RetentionSweeper) Start() {
	if s.sessions == nil {
		return
	}
	go s.loop()
	log.Printf("Retention sweeper started (%s %02d:00 %s)", s.sweepDay, s.sweepHour, s.loc)
}

func (s *RetentionSweeper) Stop() {
	select {
	case <-s.stopChan:
		return
	default:
		close(s.stopChan)
	}
}

func (s *RetentionSweeper) loop() {
	// Check on startup as well as by interval.
	s.sweep(context.Background())

	ticker := time.NewTicker(retentionPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep(context.Background())
		}
	}
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	now := s.now()
	if !sweepDue(now, s.loc, s.sweepDay, s.sweepHour, s.lastSwept) {
		return
	}

	cutoff := WeekDates(now, s.loc)[0] // current week's Monday
	purged, err := s.sessions.PurgeBefore(ctx, cutoff)
	if err != nil {
		log.Printf("retention sweep: purge failed: %v", err)
		return
	}

	s.lastSwept = WorkDate(now, s.loc)
	log.Printf("retention sweep: purged %d sessions dated before %s", purged, cutoff)
}

// sweepDue reports whether the weekly sweep window has opened and has not
// already run today.
func sweepDue(now time.Time, loc *time.Location, day time.Weekday, hour int, lastSwept string) bool {
	local := now.In(loc)
	if local.Weekday() != day || local.Hour() < hour {
		return false
	}
	return lastSwept != local.Format("2006-01-02")
}
