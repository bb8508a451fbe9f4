package workspace_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"todoCalendar/internal/identity"
	"todoCalendar/internal/models/todo"
	"todoCalendar/internal/repository/inmemory"
	"todoCalendar/internal/service"
	"todoCalendar/internal/session"
	"todoCalendar/internal/views/calendar"
	"todoCalendar/internal/views/list"
	"todoCalendar/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newRegistry(t *testing.T) (*workspace.Registry, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)}
	idp := identity.New(inmemory.NewUserStorage(), inmemory.NewSessionStorage(), []byte("secret"),
		identity.WithClock(c.Now),
		identity.WithBcryptCost(bcrypt.MinCost))
	_, err := idp.SignUp(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)

	reg := workspace.NewRegistry(workspace.Deps{
		Identity: idp,
		Store:    service.NewTodoStore(inmemory.NewTodoStorage()),
		Now:      c.Now,
	})
	t.Cleanup(reg.Close)
	return reg, c
}

func signedIn(t *testing.T, reg *workspace.Registry) *workspace.Workspace {
	t.Helper()
	ws, created := reg.GetOrCreate("")
	require.True(t, created)
	_, err := ws.Provider.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	return ws
}

func cell(m calendar.Model, date string) calendar.Cell {
	for _, c := range m.Cells {
		if c.Date == date {
			return c
		}
	}
	return calendar.Cell{}
}

func TestBuyMilkAppearsInBothViews(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)
	ws := signedIn(t, reg)

	tomorrow := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	_, err := ws.List.Add(ctx, "Buy milk", todo.CategoryShopping, &tomorrow)
	require.NoError(t, err)

	require.NoError(t, ws.List.Mount(ctx))
	require.NoError(t, ws.Calendar.Mount(ctx))

	for _, filter := range []string{todo.CategoryShopping, list.FilterAll} {
		ws.List.SetFilter(filter)
		visible := ws.List.Visible()
		require.Len(t, visible, 1, filter)
		assert.Equal(t, "Buy milk", visible[0].Text)
		assert.False(t, visible[0].Completed)
	}

	c := cell(ws.Calendar.Render(), "2026-10-15")
	require.Len(t, c.Todos, 1)
	assert.Equal(t, "Buy milk", c.Todos[0].Text)
	assert.False(t, c.Todos[0].Completed)
}

func TestDeleteRemovesFromBothViews(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)
	ws := signedIn(t, reg)

	due := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
	created, err := ws.List.Add(ctx, "Call mom", todo.CategoryPersonal, &due)
	require.NoError(t, err)
	require.NoError(t, ws.Calendar.Mount(ctx))
	require.Len(t, cell(ws.Calendar.Render(), "2026-10-20").Todos, 1)

	require.NoError(t, ws.List.Delete(ctx, created.ID))
	assert.Empty(t, ws.List.Visible())

	require.NoError(t, ws.Calendar.Mount(ctx))
	assert.Empty(t, cell(ws.Calendar.Render(), "2026-10-20").Todos)
}

func TestSignOutResetsViews(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)
	ws := signedIn(t, reg)

	due := time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC)
	created, err := ws.List.Add(ctx, "Soon", "", &due)
	require.NoError(t, err)
	require.NoError(t, ws.Calendar.Mount(ctx))
	_, err = ws.Calendar.Select(created.ID)
	require.NoError(t, err)

	assert.Equal(t, session.LoginRoute, ws.Provider.SignOut(ctx))

	assert.Eventually(t, func() bool {
		_, open := ws.Calendar.Selected()
		return !open && len(ws.List.Visible()) == 0
	}, time.Second, 10*time.Millisecond)

	// после повторного входа предупреждение о сроке показывается снова
	ws.Notes.Drain()
	_, err = ws.Provider.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, ws.List.Mount(ctx))

	var warnings int
	for _, n := range ws.Notes.Drain() {
		if n.Title == "Due soon: Soon" {
			warnings++
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestAddAfterSessionExpiry(t *testing.T) {
	ctx := context.Background()
	reg, c := newRegistry(t)
	ws := signedIn(t, reg)

	c.Advance(25 * time.Hour)

	_, err := ws.List.Add(ctx, "late", "", nil)
	assert.True(t, service.IsKind(err, service.KindAuth))
	assert.Equal(t, session.StatusAnonymous, ws.Provider.State().Status)
}

func TestRegistryGetOrCreateAndSweep(t *testing.T) {
	reg, c := newRegistry(t)

	ws, created := reg.GetOrCreate("")
	require.True(t, created)
	assert.Equal(t, workspace.ThemeSystem, ws.Theme())

	same, created := reg.GetOrCreate(ws.ID)
	assert.False(t, created)
	assert.Same(t, ws, same)

	_, created = reg.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.Equal(t, 2, reg.Len())

	c.Advance(30 * time.Minute)
	_, ok := reg.Get(ws.ID)
	require.True(t, ok)

	c.Advance(45 * time.Minute)
	assert.Equal(t, 1, reg.Sweep(time.Hour))
	_, ok = reg.Get(ws.ID)
	assert.True(t, ok)

	c.Advance(2 * time.Hour)
	assert.Equal(t, 1, reg.Sweep(time.Hour))
	assert.Equal(t, 0, reg.Len())
}

func TestParseTheme(t *testing.T) {
	for _, raw := range []string{"light", "DARK", " system "} {
		_, err := workspace.ParseTheme(raw)
		assert.NoError(t, err, raw)
	}
	_, err := workspace.ParseTheme("sepia")
	assert.True(t, service.IsKind(err, service.KindValidation))

	reg, _ := newRegistry(t)
	ws, _ := reg.GetOrCreate("")
	ws.SetTheme(workspace.ThemeDark)
	assert.Equal(t, workspace.ThemeDark, ws.Theme())
}

func TestSwitchingUserClearsViews(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)
	ws := signedIn(t, reg)

	due := time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
	created, err := ws.List.Add(ctx, "ada secret", todo.CategoryWork, &due)
	require.NoError(t, err)
	require.NoError(t, ws.Calendar.Mount(ctx))
	_, err = ws.Calendar.Select(created.ID)
	require.NoError(t, err)

	_, err = ws.Provider.SignUp(ctx, "bob@example.com", "secret2")
	require.NoError(t, err)
	_, err = ws.Provider.SignIn(ctx, "bob@example.com", "secret2")
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", ws.Provider.State().Identity.Email)

	// маршруты без повторной загрузки не должны показывать чужие задачи
	ws.Calendar.Next()
	ws.Calendar.Today()
	m := ws.Calendar.Render()
	assert.Nil(t, m.Selected)
	assert.Empty(t, cell(m, "2026-10-20").Todos)
	_, open := ws.Calendar.Selected()
	assert.False(t, open)

	ws.List.SetFilter(list.FilterAll)
	assert.Empty(t, ws.List.Visible())

	_, err = ws.Calendar.ToggleSelected(ctx)
	assert.True(t, service.IsKind(err, service.KindNotFound))

	// после загрузки видны только задачи bob
	require.NoError(t, ws.List.Mount(ctx))
	require.NoError(t, ws.Calendar.Mount(ctx))
	assert.Empty(t, ws.List.Visible())
	assert.Empty(t, cell(ws.Calendar.Render(), "2026-10-20").Todos)
}
