package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arenaoj/backend/httpjson"
	"github.com/arenaoj/backend/logger"
)

// getSubmission is the status fetch endpoint poll sessions hit on every
// tick.
func (s *HttpServer) getSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "submUuid"))
	if err != nil {
		httpjson.WriteErrorJson(w, "invalid submission uuid",
			http.StatusBadRequest, "invalid_request")
		return
	}

	subm, err := s.submSrvc.GetSubm(r.Context(), id)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSubm(subm))
}

// getSubmissionCompleted lets a UI skip polling entirely when the terminal
// status has already been observed in this process.
func (s *HttpServer) getSubmissionCompleted(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "submUuid"))
	if err != nil {
		httpjson.WriteErrorJson(w, "invalid submission uuid",
			http.StatusBadRequest, "invalid_request")
		return
	}

	httpjson.WriteSuccessJson(w, struct {
		Completed bool `json:"completed"`
	}{Completed: s.coord.IsCompleted(id)})
}
