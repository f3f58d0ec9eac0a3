package http

import (
	"net/http"
	"sort"

	"github.com/arenaoj/backend/httpjson"
	"github.com/arenaoj/backend/logger"
)

func (s *HttpServer) listLanguages(w http.ResponseWriter, r *http.Request) {
	type language struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	}

	langs := s.submSrvc.Languages()
	sort.Slice(langs, func(i, j int) bool { return langs[i].ID < langs[j].ID })

	res := make([]language, 0, len(langs))
	for _, lang := range langs {
		res = append(res, language{ID: lang.ID, FullName: lang.FullName})
	}

	logger.FromContext(r.Context()).Debug("listed languages", "count", len(res))
	httpjson.WriteSuccessJson(w, res)
}
