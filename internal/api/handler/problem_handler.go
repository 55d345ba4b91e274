package handler

import (
	"net/http"

	"codetrek/internal/app/service"
	"codetrek/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	problemService *service.ProblemService
}

func NewProblemHandler(ps *service.ProblemService) *ProblemHandler {
	return &ProblemHandler{problemService: ps}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/problems", h.listProblems)           // GET /api/problems?topic=&difficulty=
	r.Get("/problems/{problemID}", h.getProblem) // GET /api/problems/{id}
	r.Get("/problem-by-topic", h.problemByTopic) // GET /api/problem-by-topic?topic=&difficulty=
}

func (h *ProblemHandler) listProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	problems, err := h.problemService.List(r.Context(), q.Get("topic"), q.Get("difficulty"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.Get(r.Context(), chi.URLParam(r, "problemID"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) problemByTopic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	problem, err := h.problemService.GetByTopic(r.Context(), q.Get("topic"), q.Get("difficulty"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}
