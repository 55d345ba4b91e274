package handler

import (
	"net/http"

	"codetrek/internal/app/service"
	"codetrek/internal/common"

	"github.com/go-chi/chi/v5"
)

type EvaluationHandler struct {
	evaluationService *service.EvaluationService
}

func NewEvaluationHandler(es *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: es}
}

func (h *EvaluationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/evaluate-code", h.evaluate)
	r.Get("/submissions", h.listSubmissions)
}

func (h *EvaluationHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req service.EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.evaluationService.Evaluate(r.Context(), userID, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *EvaluationHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	subs, err := h.evaluationService.ListSubmissions(r.Context(), userID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}
