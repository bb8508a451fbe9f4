package calendar_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"todoCalendar/internal/locale"
	"todoCalendar/internal/models/todo"
	"todoCalendar/internal/models/user"
	"todoCalendar/internal/notify"
	"todoCalendar/internal/repository/inmemory"
	"todoCalendar/internal/service"
	"todoCalendar/internal/session"
	"todoCalendar/internal/views/calendar"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type staticAuth struct {
	who user.Identity
}

func (a staticAuth) State() session.State {
	who := a.who
	return session.State{Status: session.StatusAuthenticated, Identity: &who}
}

func (a staticAuth) Validate(ctx context.Context) (user.Identity, error) {
	return a.who, nil
}

type brokenStore struct {
	*service.TodoStore
	err error
}

func (s *brokenStore) List(ctx context.Context, owner uuid.UUID, opts todo.ListOptions) ([]todo.Todo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.TodoStore.List(ctx, owner, opts)
}

func (s *brokenStore) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	if s.err != nil {
		return s.err
	}
	return s.TodoStore.SetCompleted(ctx, owner, id, completed)
}

type fixture struct {
	view  *calendar.View
	store *brokenStore
	owner uuid.UUID
	notes *notify.Queue
}

func newFixture(t *testing.T, loc *time.Location) *fixture {
	t.Helper()
	owner := uuid.New()
	f := &fixture{
		store: &brokenStore{TodoStore: service.NewTodoStore(inmemory.NewTodoStorage())},
		owner: owner,
		notes: notify.NewQueue(8),
	}
	f.view = calendar.New(f.store, staticAuth{who: user.Identity{ID: owner}}, f.notes, locale.MustNew("en"),
		calendar.WithClock(func() time.Time { return now }),
		calendar.WithLocation(loc))
	return f
}

func (f *fixture) create(t *testing.T, text string, due *time.Time, opts ...todo.NewTodoOption) *todo.Todo {
	t.Helper()
	opts = append(opts, todo.WithDueDate(due))
	created, err := f.store.Create(context.Background(), todo.Build(f.owner, text, opts...))
	require.NoError(t, err)
	return created
}

func cellFor(t *testing.T, m calendar.Model, date string) calendar.Cell {
	t.Helper()
	for _, c := range m.Cells {
		if c.Date == date {
			return c
		}
	}
	t.Fatalf("нет ячейки %s", date)
	return calendar.Cell{}
}

func TestRenderGrid(t *testing.T) {
	f := newFixture(t, time.UTC)
	m := f.view.Render()

	assert.Equal(t, "2026-10", m.Month)
	assert.Equal(t, "October 2026", m.Title)
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, m.Weekdays)
	require.Len(t, m.Cells, 35)
	assert.Equal(t, "2026-09-27", m.Cells[0].Date)
	assert.False(t, m.Cells[0].InMonth)
	assert.Equal(t, "2026-10-31", m.Cells[34].Date)

	today := cellFor(t, m, "2026-10-14")
	assert.True(t, today.IsToday)
	assert.True(t, today.InMonth)
	assert.NotNil(t, today.Todos)
}

func TestMountBucketsAndOverflow(t *testing.T) {
	f := newFixture(t, time.UTC)
	for i := 0; i < 5; i++ {
		due := time.Date(2026, 10, 20, 8+i, 0, 0, 0, time.UTC)
		f.create(t, string(rune('a'+i)), &due, todo.WithCategory(todo.CategoryWork))
	}
	f.create(t, "undated", nil)

	require.NoError(t, f.view.Mount(context.Background()))
	cell := cellFor(t, f.view.Render(), "2026-10-20")

	require.Len(t, cell.Todos, calendar.MaxCellTodos)
	assert.Equal(t, "a", cell.Todos[0].Text)
	assert.Equal(t, "bg-blue-500", cell.Todos[0].Color)
	assert.Equal(t, 2, cell.Overflow)
}

func TestBucketsUseDisplayLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	f := newFixture(t, seoul)

	// 20:00 UTC 15-го в Сеуле уже 16-е
	due := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	f.create(t, "late", &due)

	require.NoError(t, f.view.Mount(context.Background()))
	m := f.view.Render()
	assert.Empty(t, cellFor(t, m, "2026-10-15").Todos)
	assert.Len(t, cellFor(t, m, "2026-10-16").Todos, 1)
}

func TestNavigation(t *testing.T) {
	f := newFixture(t, time.UTC)

	f.view.Next()
	assert.Equal(t, time.November, f.view.Month().Month())
	f.view.Next()
	f.view.Next()
	assert.Equal(t, 2027, f.view.Month().Year())
	assert.Equal(t, time.January, f.view.Month().Month())

	// Mount не сбрасывает месяц
	require.NoError(t, f.view.Mount(context.Background()))
	assert.Equal(t, time.January, f.view.Month().Month())

	f.view.Prev()
	assert.Equal(t, time.December, f.view.Month().Month())
	assert.Equal(t, "December 2026", f.view.Render().Title)

	f.view.Today()
	assert.Equal(t, time.October, f.view.Month().Month())
	assert.Equal(t, 2026, f.view.Month().Year())
}

func TestSelectAndToggle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.UTC)
	due := now.Add(5 * time.Hour)
	created := f.create(t, "Dentist", &due, todo.WithCategory(todo.CategoryHealth))
	require.NoError(t, f.view.Mount(ctx))

	d, err := f.view.Select(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", d.Text)
	assert.Equal(t, "Health", d.CategoryLabel)
	assert.Equal(t, "Incomplete", d.Status)
	assert.Equal(t, "October 14, 2026 14:00", d.DueText)
	assert.Equal(t, "5 hours remaining", d.Remaining)

	d, err = f.view.ToggleSelected(ctx)
	require.NoError(t, err)
	assert.True(t, d.Completed)
	assert.Equal(t, "Completed", d.Status)

	// карточка остаётся открытой с новым состоянием, ячейка тоже обновлена
	m := f.view.Render()
	require.NotNil(t, m.Selected)
	assert.True(t, m.Selected.Completed)
	assert.True(t, cellFor(t, m, "2026-10-14").Todos[0].Completed)

	f.view.Close()
	_, open := f.view.Selected()
	assert.False(t, open)
	_, err = f.view.ToggleSelected(ctx)
	assert.True(t, service.IsKind(err, service.KindNotFound))
}

func TestToggleSelectedFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.UTC)
	due := now.Add(48 * time.Hour)
	created := f.create(t, "x", &due)
	require.NoError(t, f.view.Mount(ctx))
	_, err := f.view.Select(created.ID)
	require.NoError(t, err)

	f.store.err = service.NewWriteError("the data store is unavailable", errors.New("down"))
	_, err = f.view.ToggleSelected(ctx)
	assert.True(t, service.IsKind(err, service.KindWrite))

	d, open := f.view.Selected()
	require.True(t, open)
	assert.False(t, d.Completed)
	assert.Equal(t, "Failed to change status.", f.notes.Drain()[0].Title)
}

func TestSelectUnknown(t *testing.T) {
	f := newFixture(t, time.UTC)
	_, err := f.view.Select(uuid.New())
	assert.True(t, service.IsKind(err, service.KindNotFound))
}

func TestMountFailureAndReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.UTC)
	due := now.Add(time.Hour)
	created := f.create(t, "x", &due)
	require.NoError(t, f.view.Mount(ctx))
	_, err := f.view.Select(created.ID)
	require.NoError(t, err)

	f.view.OnSessionChange(session.State{Status: session.StatusAnonymous})
	m := f.view.Render()
	assert.Nil(t, m.Selected)
	assert.Empty(t, cellFor(t, m, "2026-10-14").Todos)

	f.store.err = errors.New("down")
	assert.Error(t, f.view.Mount(ctx))
	assert.Equal(t, "Failed to load todos.", f.notes.Drain()[0].Title)
}
