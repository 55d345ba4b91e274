package handler

import (
	"net/http"

	"codetrek/internal/app/service"
	"codetrek/internal/common"

	"github.com/go-chi/chi/v5"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(cs *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: cs}
}

func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.chat)
	r.Get("/chat/history", h.history)
}

func (h *ChatHandler) chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req service.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.chatService.Send(r.Context(), userID, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) history(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	messages, err := h.chatService.History(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, messages)
}
