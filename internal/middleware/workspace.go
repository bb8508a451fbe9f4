package middleware

import (
	"context"
	"net/http"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/session"
	"todoCalendar/internal/workspace"

	"go.uber.org/zap"
)

const (
	workspaceKey contextKey = "workspace"

	TokenCookie = "todocal_token"
)

type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// Workspace привязывает запрос к рабочему пространству клиента по cookie
// и восстанавливает сессию из сохранённого токена, пока она неизвестна.
func Workspace(reg *workspace.Registry, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(workspace.CookieName); err == nil {
				id = c.Value
			}

			ws, created := reg.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     workspace.CookieName,
					Value:    ws.ID,
					Path:     "/",
					MaxAge:   int(opts.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if ws.Provider.State().Status == session.StatusUnknown {
				var token string
				if c, err := r.Cookie(TokenCookie); err == nil {
					token = c.Value
				}
				if err := ws.Provider.Load(r.Context(), token); err != nil {
					logger.Warn("HTTP: Сессия не восстановлена", zap.Error(err),
						zap.String("request_id", GetRequestID(r.Context())))
				}
			}

			ctx := context.WithValue(r.Context(), workspaceKey, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WorkspaceFrom(ctx context.Context) (*workspace.Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey).(*workspace.Workspace)
	return ws, ok
}

// RequireSession пропускает только вошедших пользователей.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := WorkspaceFrom(r.Context())
		if !ok {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "workspace is missing"})
			return
		}

		switch ws.Provider.State().Status {
		case session.StatusUnknown:
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "loading"})
		case session.StatusAnonymous:
			writeJSON(w, http.StatusUnauthorized, map[string]any{"redirect": session.LoginRoute})
		default:
			next.ServeHTTP(w, r)
		}
	})
}
