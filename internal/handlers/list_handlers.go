package handlers

import (
	"net/http"

	"todoCalendar/internal/handlers/dto"
	"todoCalendar/internal/service"
	"todoCalendar/internal/views/list"
)

func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	if err := ws.List.Mount(r.Context()); err != nil {
		if service.IsKind(err, service.KindFetch) {
			writeFields(w, http.StatusBadGateway,
				kv("error", service.MessageOf(err, "")),
				kv("view", ws.List.Model()),
			)
			return
		}
		respondError(w, err)
		return
	}

	writeBody(w, http.StatusOK, ws.List.Model())
}

func (h *Handler) SetListFilter(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	var req dto.FilterRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	filter, err := list.ParseFilter(req.Filter)
	if err != nil {
		respondError(w, err)
		return
	}

	ws.List.SetFilter(filter)
	writeBody(w, http.StatusOK, ws.List.Model())
}

func (h *Handler) SetListSort(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	var req dto.SortRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	mode, err := list.ParseSort(req.Sort)
	if err != nil {
		respondError(w, err)
		return
	}

	ws.List.SetSort(mode)
	writeBody(w, http.StatusOK, ws.List.Model())
}

func (h *Handler) AddTodo(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	created, err := ws.List.Add(r.Context(), req.Text, req.Category, req.DueDate)
	if err != nil {
		respondError(w, err)
		return
	}

	writeFields(w, http.StatusCreated,
		kv("todo", created),
		kv("view", ws.List.Model()),
	)
}

func (h *Handler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	id, err := todoID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	updated, err := ws.List.Toggle(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeFields(w, http.StatusOK,
		kv("todo", updated),
		kv("view", ws.List.Model()),
	)
}

func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspaceOf(w, r)
	if !ok {
		return
	}

	id, err := todoID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := ws.List.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	writeFields(w, http.StatusOK, kv("view", ws.List.Model()))
}
