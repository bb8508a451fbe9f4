// Package dates holds the calendar arithmetic shared by the list and calendar views.
// All functions are pure; "local time" means the location carried by the reference time.
package dates

import (
	"time"

	"todoCalendar/internal/models/todo"
)

const daysPerWeek = 7

// StartOfMonth returns midnight of the first day of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// AddMonths shifts t by n calendar months, clamping the day to the target month's length
// (Jan 31 + 1 month is the last day of February, not early March).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysInMonth(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// MonthGrid returns every day from the Sunday on or before the first of ref's month
// through the Saturday on or after its last day.
func MonthGrid(ref time.Time) []time.Time {
	first := StartOfMonth(ref)
	last := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, first.Location())

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	days := make([]time.Time, 0, 6*daysPerWeek)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// SameDay compares calendar dates, reading a in b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func SameMonth(a, b time.Time) bool {
	ay, am, _ := a.In(b.Location()).Date()
	by, bm, _ := b.Date()
	return ay == by && am == bm
}

// BucketByDay keeps the todos due on day, in their original order.
func BucketByDay(todos []todo.Todo, day time.Time) []todo.Todo {
	var bucket []todo.Todo
	for _, t := range todos {
		if t.DueDate == nil {
			continue
		}
		if SameDay(*t.DueDate, day) {
			bucket = append(bucket, t)
		}
	}
	return bucket
}
