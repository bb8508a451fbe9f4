package dates

import (
	"fmt"
	"time"
)

type Urgency string

const (
	Overdue Urgency = "overdue"
	DueSoon Urgency = "due_soon"
	Normal  Urgency = "normal"
)

// DueSoonWindow is the span before a deadline in which a todo counts as due soon.
const DueSoonWindow = 24 * time.Hour

// Classify is the single urgency rule for badges and notifications:
// no time left is overdue, less than DueSoonWindow left is due soon.
func Classify(due, now time.Time) Urgency {
	remaining := due.Sub(now)
	switch {
	case remaining <= 0:
		return Overdue
	case remaining < DueSoonWindow:
		return DueSoon
	default:
		return Normal
	}
}

// WholeHours is the remaining time truncated to full hours.
func WholeHours(due, now time.Time) int {
	return int(due.Sub(now) / time.Hour)
}

const (
	MsgPastDue        = "past due"
	MsgWithinHour     = "within an hour"
	MsgHoursRemaining = "%d hours remaining"
	MsgDaysRemaining  = "%d days remaining"
)

// FormatRemainingWith renders the remaining time through sprintf, so a localized printer
// can reuse the same decision. Message keys are the Msg* constants.
func FormatRemainingWith(sprintf func(format string, args ...any) string, due, now time.Time) string {
	hours := WholeHours(due, now)
	switch Classify(due, now) {
	case Overdue:
		return sprintf(MsgPastDue)
	case DueSoon:
		if hours < 1 {
			return sprintf(MsgWithinHour)
		}
		return sprintf(MsgHoursRemaining, hours)
	default:
		return sprintf(MsgDaysRemaining, hours/24)
	}
}

func FormatRemaining(due, now time.Time) string {
	return FormatRemainingWith(fmt.Sprintf, due, now)
}

func BadgeColor(u Urgency) string {
	switch u {
	case Overdue:
		return "bg-red-500"
	case DueSoon:
		return "bg-orange-500"
	default:
		return "bg-blue-500"
	}
}
