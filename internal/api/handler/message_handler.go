package handler

import (
	"encoding/json"
	"net/http"

	"messagely/internal/api/middleware"
	"messagely/internal/app/service"
	"messagely/internal/common"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

func (h *MessageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Post("/", h.create)
	r.Post("/{id}/read", h.markRead)
}

type createMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

func (h *MessageHandler) get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	message, err := h.messageService.Get(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"message": message})
}

func (h *MessageHandler) create(w http.ResponseWriter, r *http.Request) {
	fromUsername, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	message, err := h.messageService.Create(r.Context(), fromUsername, req.ToUsername, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]any{"message": message})
}

func (h *MessageHandler) markRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	receipt, err := h.messageService.MarkRead(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]any{"message": receipt})
}
