package handlers

import (
	"net/http"

	"todoCalendar/internal/handlers/dto"
	"todoCalendar/internal/workspace"
)

func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspaceOf(w, r); ok {
		writeFields(w, http.StatusOK,
			kv("notifications", dto.FromNotificationList(ws.Notes.Drain())))
	}
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspaceOf(w, r); ok {
		writeFields(w, http.StatusOK, kv("theme", ws.Theme()))
	}
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	var req dto.ThemeRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	theme, err := workspace.ParseTheme(req.Theme)
	if err != nil {
		respondError(w, err)
		return
	}

	ws.SetTheme(theme)
	writeFields(w, http.StatusOK, kv("theme", theme))
}
