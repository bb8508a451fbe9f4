// Package workspace keeps one application session per client: its session
// provider, both views, the banner queue and the theme preference.
package workspace

import (
	"strings"
	"sync"
	"time"

	"todoCalendar/internal/locale"
	"todoCalendar/internal/logger"
	"todoCalendar/internal/notify"
	"todoCalendar/internal/service"
	"todoCalendar/internal/session"
	"todoCalendar/internal/views"
	"todoCalendar/internal/views/calendar"
	"todoCalendar/internal/views/list"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CookieName = "todocal_ws"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func ParseTheme(raw string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(raw))); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	default:
		return "", service.NewValidationError("theme", "Theme must be light, dark or system")
	}
}

type Workspace struct {
	ID       string
	Provider *session.Provider
	List     *list.View
	Calendar *calendar.View
	Notes    *notify.Queue

	mtx         sync.Mutex
	theme       Theme
	lastSeen    time.Time
	unsubscribe []func()
}

func (w *Workspace) Theme() Theme {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.theme
}

func (w *Workspace) SetTheme(t Theme) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.theme = t
}

func (w *Workspace) touch(now time.Time) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.lastSeen = now
}

func (w *Workspace) idleSince() time.Time {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return w.lastSeen
}

func (w *Workspace) Close() {
	for _, unsubscribe := range w.unsubscribe {
		unsubscribe()
	}
	w.Provider.Close()
}

type Deps struct {
	Identity session.IdentityService
	Store    views.Store
	Printer  *locale.Printer
	Location *time.Location
	Now      func() time.Time
	// NotesCapacity bounds each banner queue.
	NotesCapacity int
}

type Registry struct {
	deps  Deps
	mtx   sync.Mutex
	items map[string]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Printer == nil {
		deps.Printer = locale.MustNew("en")
	}
	return &Registry{
		deps:  deps,
		items: make(map[string]*Workspace),
	}
}

func (r *Registry) newWorkspace() *Workspace {
	notes := notify.NewQueue(r.deps.NotesCapacity)
	provider := session.NewProvider(r.deps.Identity)

	ws := &Workspace{
		ID:       uuid.NewString(),
		Provider: provider,
		Notes:    notes,
		List: list.New(r.deps.Store, provider, notes, r.deps.Printer,
			list.WithClock(r.deps.Now),
			list.WithLocation(r.deps.Location)),
		Calendar: calendar.New(r.deps.Store, provider, notes, r.deps.Printer,
			calendar.WithClock(r.deps.Now),
			calendar.WithLocation(r.deps.Location)),
		theme:    ThemeSystem,
		lastSeen: r.deps.Now(),
	}
	ws.unsubscribe = []func(){
		provider.Subscribe(ws.List.OnSessionChange),
		provider.Subscribe(ws.Calendar.OnSessionChange),
	}
	return ws
}

// GetOrCreate возвращает рабочее пространство по id cookie или создаёт новое.
func (r *Registry) GetOrCreate(id string) (*Workspace, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if ws, ok := r.items[id]; ok && id != "" {
		ws.touch(r.deps.Now())
		return ws, false
	}

	ws := r.newWorkspace()
	r.items[ws.ID] = ws
	logger.Debug("Workspace: Создано рабочее пространство", zap.String("workspace_id", ws.ID))
	return ws, true
}

func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	ws, ok := r.items[id]
	if ok {
		ws.touch(r.deps.Now())
	}
	return ws, ok
}

func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.items)
}

// Sweep закрывает пространства, простаивающие дольше idle.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.deps.Now()

	r.mtx.Lock()
	var stale []*Workspace
	for id, ws := range r.items {
		if now.Sub(ws.idleSince()) > idle {
			stale = append(stale, ws)
			delete(r.items, id)
		}
	}
	r.mtx.Unlock()

	for _, ws := range stale {
		ws.Close()
	}
	if len(stale) > 0 {
		logger.Info("Workspace: Удалены неактивные пространства", zap.Int("count", len(stale)))
	}
	return len(stale)
}

func (r *Registry) Close() {
	r.mtx.Lock()
	items := r.items
	r.items = make(map[string]*Workspace)
	r.mtx.Unlock()

	for _, ws := range items {
		ws.Close()
	}
}
