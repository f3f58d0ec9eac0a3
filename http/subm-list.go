package http

import (
	"net/http"

	"github.com/arenaoj/backend/httpjson"
	"github.com/arenaoj/backend/logger"
)

func (s *HttpServer) listSubmissions(w http.ResponseWriter, r *http.Request) {
	contestID := r.URL.Query().Get("contest")

	subms, err := s.submSrvc.ListSubms(r.Context(), contestID)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	res := make([]Submission, 0, len(subms))
	for i := range subms {
		res = append(res, mapSubm(&subms[i]))
	}
	httpjson.WriteSuccessJson(w, res)
}
