package list

import (
	"context"
	"sort"
	"strings"
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

const FilterAll = "all"

type SortMode string

const (
	SortNewest     SortMode = "newest"
	SortOldest     SortMode = "oldest"
	SortCompleted  SortMode = "completed"
	SortIncomplete SortMode = "incomplete"
)

const dueSoonBannerDuration = 5 * time.Second

func ParseFilter(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == FilterAll {
		return FilterAll, nil
	}
	if _, ok := todo.LookupCategory(raw); !ok {
		return "", service.NewValidationError("filter", "Unknown category: "+raw)
	}
	return raw, nil
}

func ParseSort(raw string) (SortMode, error) {
	switch strings.TrimSpace(raw) {
	case "", string(SortNewest):
		return SortNewest, nil
	case string(SortOldest):
		return SortOldest, nil
	case string(SortCompleted), "completed-first":
		return SortCompleted, nil
	case string(SortIncomplete), "incomplete-first":
		return SortIncomplete, nil
	default:
		return "", service.NewValidationError("sort", "Unknown sort mode: "+raw)
	}
}

type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
}

type Model struct {
	Filter     string          `json:"filter"`
	Sort       SortMode        `json:"sort"`
	Items      []views.Item    `json:"items"`
	Stats      Stats           `json:"stats"`
	Empty      string          `json:"empty,omitempty"`
	Categories []todo.Category `json:"categories"`
}

type View struct {
	mtx     sync.Mutex
	store   views.Store
	auth    views.Auth
	notes   *notify.Queue
	printer *locale.Printer
	now     func() time.Time
	loc     *time.Location

	holder uuid.UUID
	todos  views.Collection
	filter string
	sort   SortMode
	seen   map[uuid.UUID]struct{}
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
		filter:  FilterAll,
		sort:    SortNewest,
		seen:    make(map[uuid.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount загружает задачи владельца, новые первыми.
func (v *View) Mount(ctx context.Context) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	owner, err := views.Owner(v.auth)
	if err != nil {
		return err
	}

	todos, err := v.store.List(ctx, owner, todo.ListOptions{OrderBy: todo.OrderCreatedDesc})
	if err != nil {
		logger.Warn("View: Список не загружен", zap.Error(err))
		v.todos.Clear()
		v.notes.Error(v.printer.Sprintf(locale.MsgLoadFailed))
		return err
	}

	v.todos.Replace(todos)
	v.scanDueSoon()
	return nil
}

func (v *View) SetFilter(filter string) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	v.filter = filter
}

func (v *View) SetSort(mode SortMode) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	v.sort = mode
}

func (v *View) Visible() []todo.Todo {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	return v.visible()
}

func (v *View) visible() []todo.Todo {
	out := make([]todo.Todo, 0, v.todos.Len())
	for _, t := range v.todos.All() {
		if v.filter == FilterAll || t.Category == v.filter {
			out = append(out, t)
		}
	}

	switch v.sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortCompleted:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Completed && !out[j].Completed
		})
	case SortIncomplete:
		sort.SliceStable(out, func(i, j int) bool {
			return !out[i].Completed && out[j].Completed
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func (v *View) Stats() Stats {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()
	return statsOf(v.visible())
}

func statsOf(todos []todo.Todo) Stats {
	s := Stats{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			s.Completed++
		}
	}
	s.Incomplete = s.Total - s.Completed
	return s
}

func (v *View) Model() Model {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	now := v.now()
	visible := v.visible()
	items := make([]views.Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, views.RenderItem(v.printer, t, now, v.loc))
	}

	m := Model{
		Filter:     v.filter,
		Sort:       v.sort,
		Items:      items,
		Stats:      statsOf(visible),
		Categories: views.CategoryOptions(v.printer),
	}
	if len(items) == 0 {
		if v.filter == FilterAll {
			m.Empty = v.printer.Sprintf(locale.MsgEmptyAll)
		} else {
			m.Empty = v.printer.Sprintf(locale.MsgEmptyCategory)
		}
	}
	return m
}

// Add создаёт задачу после повторной проверки сессии.
func (v *View) Add(ctx context.Context, text, category string, due *time.Time) (*todo.Todo, error) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, service.NewValidationError("text", "Todo text is required")
	}

	who, err := v.auth.Validate(ctx)
	if err != nil {
		if service.IsKind(err, service.KindAuth) {
			v.notes.Error(v.printer.Sprintf(locale.MsgSignInRequired))
		} else {
			v.notes.Error(v.printer.Sprintf(locale.MsgAddFailed, service.MessageOf(err, err.Error())))
		}
		return nil, err
	}

	created, err := v.store.Create(ctx, todo.Build(who.ID, text,
		todo.WithCategory(category),
		todo.WithDueDate(due),
	))
	if err != nil {
		v.notes.Error(v.printer.Sprintf(locale.MsgAddFailed, service.MessageOf(err, err.Error())))
		return nil, err
	}

	v.todos.Prepend(*created)
	v.notes.Success(v.printer.Sprintf(locale.MsgTodoAdded))
	v.scanDueSoon()
	return created, nil
}

func (v *View) Toggle(ctx context.Context, id uuid.UUID) (todo.Todo, error) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	owner, err := views.Owner(v.auth)
	if err != nil {
		return todo.Todo{}, err
	}

	updated, err := views.Toggle(ctx, v.store, owner, &v.todos, id)
	if err != nil {
		if !service.IsKind(err, service.KindNotFound) {
			v.notes.Error(v.printer.Sprintf(locale.MsgToggleFailed))
		}
		return updated, err
	}

	v.scanDueSoon()
	return updated, nil
}

func (v *View) Delete(ctx context.Context, id uuid.UUID) error {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.syncHolder()

	owner, err := views.Owner(v.auth)
	if err != nil {
		return err
	}
	if _, ok := v.todos.Find(id); !ok {
		return service.NewNotFound("todo", id.String())
	}

	if err := v.store.Remove(ctx, owner, id); err != nil {
		v.notes.Error(v.printer.Sprintf(locale.MsgDeleteFailed))
		return err
	}

	v.todos.Remove(id)
	v.notes.Success(v.printer.Sprintf(locale.MsgTodoDeleted))
	v.scanDueSoon()
	return nil
}

// Reset очищает состояние при смене пользователя.
func (v *View) Reset() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.clear()
}

func (v *View) clear() {
	v.todos.Clear()
	v.seen = make(map[uuid.UUID]struct{})
}

// syncHolder сбрасывает данные, загруженные для другого пользователя.
func (v *View) syncHolder() {
	if who := views.Holder(v.auth); who != v.holder {
		v.clear()
		v.holder = who
	}
}

// OnSessionChange подписывается на провайдер сессии.
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

// scanDueSoon предупреждает один раз за сессию о каждой задаче, срок которой меньше суток.
func (v *View) scanDueSoon() {
	now := v.now()
	for _, t := range v.todos.All() {
		if t.Completed || t.DueDate == nil {
			continue
		}
		if _, ok := v.seen[t.ID]; ok {
			continue
		}
		if dates.Classify(*t.DueDate, now) != dates.DueSoon {
			continue
		}

		description := v.printer.Sprintf(locale.MsgLessThanHour)
		if hours := dates.WholeHours(*t.DueDate, now); hours >= 1 {
			description = v.printer.Sprintf(locale.MsgHoursLeft, hours)
		}

		v.notes.Warning(v.printer.Sprintf(locale.MsgDueSoonTitle, t.Text),
			notify.WithDescription(description),
			notify.WithDuration(dueSoonBannerDuration))
		v.seen[t.ID] = struct{}{}
	}
}
