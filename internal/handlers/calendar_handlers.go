package handlers

import (
	"net/http"

	"todoCalendar/internal/service"
)

func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	if err := ws.Calendar.Mount(r.Context()); err != nil {
		if service.IsKind(err, service.KindFetch) {
			writeFields(w, http.StatusBadGateway,
				kv("error", service.MessageOf(err, "")),
				kv("view", ws.Calendar.Render()),
			)
			return
		}
		respondError(w, err)
		return
	}

	writeBody(w, http.StatusOK, ws.Calendar.Render())
}

func (h *Handler) CalendarPrev(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspaceOf(w, r); ok {
		ws.Calendar.Prev()
		writeBody(w, http.StatusOK, ws.Calendar.Render())
	}
}

func (h *Handler) CalendarNext(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspaceOf(w, r); ok {
		ws.Calendar.Next()
		writeBody(w, http.StatusOK, ws.Calendar.Render())
	}
}

func (h *Handler) CalendarToday(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspaceOf(w, r); ok {
		ws.Calendar.Today()
		writeBody(w, http.StatusOK, ws.Calendar.Render())
	}
}

func (h *Handler) SelectCalendarTodo(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	id, err := todoID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := ws.Calendar.Select(id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeBody(w, http.StatusOK, detail)
}

func (h *Handler) CloseCalendarSelection(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspaceOf(w, r); ok {
		ws.Calendar.Close()
		writeBody(w, http.StatusOK, ws.Calendar.Render())
	}
}

func (h *Handler) ToggleCalendarSelection(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	detail, err := ws.Calendar.ToggleSelected(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeBody(w, http.StatusOK, detail)
}
