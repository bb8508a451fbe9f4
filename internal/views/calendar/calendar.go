package calendar

import (
	"context"
	"sync"
	"time"

	"todoCalendar/internal/dates"
	"todoCalendar/internal/locale"
	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/todo"
	"todoCalendar/internal/notify"
	"todoCalendar/internal/service"
	"todoCalendar/internal/session"
	"todoCalendar/internal/views"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxCellTodos is how many todos a day cell shows before collapsing the rest.
const MaxCellTodos = 3

type CellTodo struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	Color     string    `json:"color"`
}

type Cell struct {
	Date     string     `json:"date"`
	Day      int        `json:"day"`
	InMonth  bool       `json:"in_month"`
	IsToday  bool       `json:"is_today"`
	Todos    []CellTodo `json:"todos"`
	Overflow int        `json:"overflow"`
}

type Model struct {
	Month    string   `json:"month"`
	Title    string   `json:"title"`
	Weekdays []string `json:"weekdays"`
	Cells    []Cell   `json:"cells"`
	Selected *Detail  `json:"selected,omitempty"`
}

type Detail struct {
	ID            uuid.UUID  `json:"id"`
	Text          string     `json:"text"`
	Completed     bool       `json:"completed"`
	Status        string     `json:"status"`
	Category      string     `json:"category"`
	CategoryLabel string     `json:"category_label,omitempty"`
	Color         string     `json:"color"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	DueText       string     `json:"due_text,omitempty"`
	Remaining     string     `json:"remaining,omitempty"`
}

type View struct {
	mtx     sync.Mutex
	store   views.Store
	auth    views.Auth
	notes   *notify.Queue
	printer *locale.Printer
	now     func() time.Time
	loc     *time.Location

	month    time.Time
	holder   uuid.UUID
	todos    views.Collection
	selected *uuid.UUID
}

type Option func(*View)

func WithClock(now func() time.Time) Option {
	return func(v *View) {
		v.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(v *View) {
		if loc != nil {
			v.loc = loc
		}
	}
}

func New(store views.Store, auth views.Auth, notes *notify.Queue, printer *locale.Printer, opts ...Option) *View {
	v := &View{
		store:   store,
		auth:    auth,
		notes:   notes,
		printer: printer,
		now:     time.Now,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.month = dates.StartOfMonth(v.now().In(v.loc))
	return v
}

// Mount загружает задачи с дедлайном; показываемый месяц не меняется.
func (v *View) Mount(ctx context.Context) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	owner, err := views.Owner(v.auth)
	if err != nil {
		return err
	}

	todos, err := v.store.List(ctx, owner, todo.ListOptions{
		OnlyWithDueDate: true,
		OrderBy:         todo.OrderDueAsc,
	})
	if err != nil {
		logger.Warn("View: Календарь не загружен", zap.Error(err))
		v.todos.Clear()
		v.notes.Error(v.printer.Sprintf(locale.MsgLoadFailed))
		return err
	}

	v.todos.Replace(todos)
	return nil
}

func (v *View) Month() time.Time {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	return v.month
}

func (v *View) Prev() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	v.month = dates.AddMonths(v.month, -1)
}

func (v *View) Next() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	v.month = dates.AddMonths(v.month, 1)
}

func (v *View) Today() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	v.month = dates.StartOfMonth(v.now().In(v.loc))
}

func (v *View) Render() Model {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	now := v.now().In(v.loc)
	all := v.todos.All()
	grid := dates.MonthGrid(v.month)

	cells := make([]Cell, 0, len(grid))
	for _, day := range grid {
		bucket := dates.BucketByDay(all, day)
		cell := Cell{
			Date:    day.Format(time.DateOnly),
			Day:     day.Day(),
			InMonth: dates.SameMonth(day, v.month),
			IsToday: dates.SameDay(day, now),
			Todos:   []CellTodo{},
		}
		for i, t := range bucket {
			if i == MaxCellTodos {
				cell.Overflow = len(bucket) - MaxCellTodos
				break
			}
			cell.Todos = append(cell.Todos, CellTodo{
				ID:        t.ID,
				Text:      t.Text,
				Completed: t.Completed,
				Color:     todo.CategoryColor(t.Category),
			})
		}
		cells = append(cells, cell)
	}

	m := Model{
		Month:    v.month.Format("2006-01"),
		Title:    v.printer.Date(locale.MsgMonthTitleShape, v.month),
		Weekdays: v.printer.Weekdays(),
		Cells:    cells,
	}
	if d, ok := v.detail(now); ok {
		m.Selected = &d
	}
	return m
}

// Select открывает карточку задачи.
func (v *View) Select(id uuid.UUID) (Detail, error) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	if _, ok := v.todos.Find(id); !ok {
		return Detail{}, service.NewNotFound("todo", id.String())
	}
	v.selected = &id
	d, _ := v.detail(v.now())
	return d, nil
}

func (v *View) Selected() (Detail, bool) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	return v.detail(v.now())
}

func (v *View) Close() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	v.selected = nil
}

// ToggleSelected меняет статус открытой задачи; карточка остаётся открытой.
func (v *View) ToggleSelected(ctx context.Context) (Detail, error) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	if v.selected == nil {
		return Detail{}, service.NewNotFound("selection", "")
	}
	owner, err := views.Owner(v.auth)
	if err != nil {
		return Detail{}, err
	}

	if _, err := views.Toggle(ctx, v.store, owner, &v.todos, *v.selected); err != nil {
		if !service.IsKind(err, service.KindNotFound) {
			v.notes.Error(v.printer.Sprintf(locale.MsgToggleFailed))
		}
		return Detail{}, err
	}

	d, _ := v.detail(v.now())
	return d, nil
}

func (v *View) Reset() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.clear()
}

func (v *View) clear() {
	v.todos.Clear()
	v.selected = nil
}

// syncHolder сбрасывает данные, загруженные для другого пользователя.
func (v *View) syncHolder() {
	if who := views.Holder(v.auth); who != v.holder {
		v.clear()
		v.holder = who
	}
}

func (v *View) OnSessionChange(state session.State) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	who := uuid.Nil
	if state.Authenticated() {
		who = state.Identity.ID
	}
	if who == uuid.Nil || who != v.holder {
		v.clear()
		v.holder = who
	}
}

func (v *View) detail(now time.Time) (Detail, bool) {
	if v.selected == nil {
		return Detail{}, false
	}
	t, ok := v.todos.Find(*v.selected)
	if !ok {
		return Detail{}, false
	}

	d := Detail{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Status:    v.printer.Sprintf(locale.MsgIncomplete),
		Category:  t.Category,
		Color:     todo.CategoryColor(t.Category),
	}
	if t.Completed {
		d.Status = v.printer.Sprintf(locale.MsgCompleted)
	}
	if badge := views.CategoryBadge(v.printer, t.Category); badge != nil {
		d.CategoryLabel = badge.Text
	}
	if t.DueDate != nil {
		due := t.DueDate.In(v.loc)
		d.DueDate = &due
		d.DueText = v.printer.Date(locale.MsgDueDateShape, due)
		d.Remaining = v.printer.Remaining(due, now)
	}
	return d, true
}
