package application

import (
	"time"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

// inBirthdayWindow compares month and day independently against the
// window bounds. A window crossing a month or year boundary therefore
// misses dates inside it: for 10/30..11/06 a 10/31 birthday is dropped
// because 31 > 6. Kept as is for API compatibility; see
// inCalendarWindow for the interval test.
func inBirthdayWindow(birthday, today, end time.Time) bool {
	m, d := birthday.Month(), birthday.Day()
	return m >= today.Month() && d >= today.Day() &&
		m <= end.Month() && d <= end.Day()
}

// inCalendarWindow reports whether the next anniversary of birthday,
// counted from today, falls on or before end. Handles month and year
// rollover. A Feb 29 birthday is celebrated on Mar 1 in common years.
func inCalendarWindow(birthday, today, end time.Time) bool {
	today = helpers.DateOf(today)
	end = helpers.DateOf(end)
	next := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(today) {
		next = time.Date(today.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	}
	return !next.After(end)
}

func filterBirthdays(all []entity.Contact, today, end time.Time, match func(b, today, end time.Time) bool) []entity.Contact {
	out := make([]entity.Contact, 0)
	for _, c := range all {
		if match(c.BirthdayDate, today, end) {
			out = append(out, c)
		}
	}
	return out
}
