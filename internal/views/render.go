package views

import (
	"time"

	"todoCalendar/internal/dates"
	"todoCalendar/internal/locale"
	"todoCalendar/internal/models/todo"

	"github.com/google/uuid"
)

type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

type UrgencyBadge struct {
	Level dates.Urgency `json:"level"`
	Text  string        `json:"text"`
	Color string        `json:"color"`
}

type Item struct {
	ID        uuid.UUID     `json:"id"`
	Text      string        `json:"text"`
	Completed bool          `json:"completed"`
	Category  string        `json:"category"`
	Color     string        `json:"color"`
	Badge     *Badge        `json:"badge,omitempty"`
	DueDate   *time.Time    `json:"due_date,omitempty"`
	DueText   string        `json:"due_text,omitempty"`
	Urgency   *UrgencyBadge `json:"urgency,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// CategoryBadge is nil for values outside the known set.
func CategoryBadge(p *locale.Printer, value string) *Badge {
	c, ok := todo.LookupCategory(value)
	if !ok {
		return nil
	}
	return &Badge{Text: p.Sprintf(c.Label), Color: c.Color}
}

// Urgency renders the due badge; only incomplete todos with a due date get one.
func Urgency(p *locale.Printer, t todo.Todo, now time.Time) *UrgencyBadge {
	if t.Completed || t.DueDate == nil {
		return nil
	}
	level := dates.Classify(*t.DueDate, now)
	return &UrgencyBadge{
		Level: level,
		Text:  p.Remaining(*t.DueDate, now),
		Color: dates.BadgeColor(level),
	}
}

func RenderItem(p *locale.Printer, t todo.Todo, now time.Time, loc *time.Location) Item {
	item := Item{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Category:  t.Category,
		Color:     todo.CategoryColor(t.Category),
		Badge:     CategoryBadge(p, t.Category),
		Urgency:   Urgency(p, t, now),
		CreatedAt: t.CreatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.In(loc)
		item.DueDate = &due
		item.DueText = p.Date(locale.MsgDueDateShape, due)
	}
	return item
}

// CategoryOptions lists the closed category set with localized labels.
func CategoryOptions(p *locale.Printer) []todo.Category {
	out := todo.Categories()
	for i := range out {
		out[i].Label = p.Sprintf(out[i].Label)
	}
	return out
}
