package services

import (
	"time"

	"dirpurge/internal/models"
)

// Session pins the calendar date of one invocation. Every "today" check in
// a run compares against the same date even if the run crosses midnight.
type Session struct {
	clock func() time.Time
	today string
}

func NewSession() *Session {
	return NewSessionWithClock(time.Now)
}

func NewSessionWithClock(clock func() time.Time) *Session {
	return &Session{clock: clock, today: clock().Local().Format(models.DateLayout)}
}

// Now returns the zone-aware instant of a deletion attempt.
func (s *Session) Now() time.Time {
	return s.clock().Local()
}

func (s *Session) Today() string {
	return s.today
}
