// Package dashboard shows the usage of every configured test environment.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/lmsenv/internal/api"
)

// Status is the state shown on an environment card.
type Status int

const (
	StatusLoading Status = iota
	StatusClean
	StatusInUse
	StatusNeedsCleanup
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "Clean"
	case StatusInUse:
		return "In Use"
	case StatusNeedsCleanup:
		return "Needs Cleanup"
	case StatusError:
		return "Error"
	default:
		return "Loading"
	}
}

// Classify derives the card status from a status report. Any subaccount or
// course makes an environment in use; a needs-cleanup report wins over both.
func Classify(s *api.EnvironmentStatus) Status {
	if s == nil {
		return StatusError
	}
	status := StatusClean
	if s.Subaccounts > 0 || s.Courses > 0 {
		status = StatusInUse
	}
	if s.Status == api.StatusNeedsCleanup {
		status = StatusNeedsCleanup
	}
	return status
}

// HumanizeActivity describes how long ago t was, in whole hours or days.
func HumanizeActivity(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	default:
		return fmt.Sprintf("%d days ago", hours/24)
	}
}

// Card is what the dashboard knows about one environment.
type Card struct {
	Environment  string
	Status       Status
	Subaccounts  int
	Courses      int
	LastActivity string
	Err          error
}

// apply folds a fetch result into the card. A failed fetch only flags the
// card; the counts of the last good report stay visible.
func (c *Card) apply(s *api.EnvironmentStatus, err error, now time.Time) {
	if err == nil && s == nil {
		err = errors.New("empty status report")
	}
	if err != nil {
		c.Status = StatusError
		c.Err = err
		return
	}
	c.Err = nil
	c.Status = Classify(s)
	c.Subaccounts = s.Subaccounts
	c.Courses = s.Courses
	if s.LastActivity != nil {
		c.LastActivity = HumanizeActivity(*s.LastActivity, now)
	}
}
