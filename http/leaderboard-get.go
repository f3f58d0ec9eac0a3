package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arenaoj/backend/httpjson"
	"github.com/arenaoj/backend/logger"
)

func (s *HttpServer) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	contestID := chi.URLParam(r, "contestId")

	entries, err := s.rankSrvc.Leaderboard(r.Context(), contestID)
	if err != nil {
		httpjson.HandleError(logger.FromContext(r.Context()), w, err)
		return
	}

	res := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		res = append(res, LeaderboardEntry{
			AuthorUuid:   e.AuthorUUID.String(),
			Score:        e.Score,
			Solved:       e.Solved,
			SubmCount:    e.SubmCount,
			LastScoredAt: e.LastScoredAt,
		})
	}
	httpjson.WriteSuccessJson(w, res)
}
