package handler

import (
	"net/http"

	"messagely/internal/api/middleware"
	"messagely/internal/app/service"
	"messagely/internal/common"
	"messagely/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{username}", h.get)
	r.With(middleware.RequireSameUser).Get("/{username}/to", h.messagesTo)
	r.With(middleware.RequireSameUser).Get("/{username}/from", h.messagesFrom)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.All(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]model.Profile{"users": users})
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}

func (h *UserHandler) messagesTo(w http.ResponseWriter, r *http.Request) {
	messages, err := h.userService.MessagesTo(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]model.ReceivedMessage{"messages": messages})
}

func (h *UserHandler) messagesFrom(w http.ResponseWriter, r *http.Request) {
	messages, err := h.userService.MessagesFrom(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]model.SentMessage{"messages": messages})
}
