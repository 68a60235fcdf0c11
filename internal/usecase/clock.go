package usecase

import (
	"context"
	"time"

	"outpatient-registration/internal/scheduling"

	"cloud.google.com/go/civil"
	"gorm.io/gorm"
)

// Clock tells usecases what day it is at the clinic.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

// Today returns the current civil date in the clinic time zone.
func (c Clock) Today() civil.Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return scheduling.Today(now(), c.Location)
}

// dateColumn converts a civil date to the value bound to DATE columns.
func dateColumn(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// withContext binds ctx to db for read paths; a nil db stays nil.
func withContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db == nil {
		return nil
	}
	return db.WithContext(ctx)
}
