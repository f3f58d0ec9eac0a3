package http

import (
	"encoding/json"
	"net/http"

	"github.com/arenaoj/backend/httpjson"
	"github.com/arenaoj/backend/logger"
	"github.com/arenaoj/backend/subm"
)

func (s *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		httpjson.WriteErrorJson(w, "authentication required",
			http.StatusUnauthorized, "unauthorized")
		return
	}
	authorUuid, err := claims.userUUID()
	if err != nil {
		httpjson.WriteErrorJson(w, "invalid user uuid in token",
			http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		ProblemID string `json:"problem_id"`
		ContestID string `json:"contest_id"`
		LangID    string `json:"lang_id"`
		Code      string `json:"code"`
		CaseCount int    `json:"case_count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteErrorJson(w, "invalid request body",
			http.StatusBadRequest, "invalid_request")
		return
	}

	created, err := s.submSrvc.CreateSubm(r.Context(), subm.CreateSubmParams{
		AuthorUUID: authorUuid,
		ProblemID:  req.ProblemID,
		ContestID:  req.ContestID,
		LangID:     req.LangID,
		Code:       req.Code,
		CaseCount:  req.CaseCount,
	})
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapSubm(created))
}
