package handlers

import (
	"net/http"

	"todoCalendar/internal/handlers/dto"
	"todoCalendar/internal/locale"
	"todoCalendar/internal/logger"
	"todoCalendar/internal/middleware"

	"go.uber.org/zap"
)

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	var req dto.CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	sess, err := ws.Provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    sess.AccessToken,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("HTTP: Пользователь вошёл", zap.String("user_id", sess.User.ID.String()))
	writeFields(w, http.StatusOK,
		kv("user", sess.User),
		kv("expires_at", sess.ExpiresAt),
	)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	var req dto.CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	created, err := ws.Provider.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	writeFields(w, http.StatusCreated,
		kv("message", h.printer.Sprintf(locale.MsgSignedUp)),
		kv("user", created),
	)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	redirect := ws.Provider.SignOut(r.Context())

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeFields(w, http.StatusOK, kv("redirect", redirect))
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	state := ws.Provider.State()
	writeBody(w, http.StatusOK, dto.SessionResponse{
		Status: string(state.Status),
		User:   state.Identity,
	})
}
