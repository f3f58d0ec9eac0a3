package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	appLogger "github.com/arenaoj/backend/logger"
	"github.com/arenaoj/backend/poll"
	"github.com/arenaoj/backend/rank"
	"github.com/arenaoj/backend/subm"
)

type HttpServer struct {
	submSrvc *subm.SubmSrvc
	rankSrvc *rank.RankSrvc
	coord    *poll.Coordinator
	router   *chi.Mux
}

func NewHttpServer(
	submSrvc *subm.SubmSrvc,
	rankSrvc *rank.RankSrvc,
	coord *poll.Coordinator,
	jwtKey []byte,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("arenaoj", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
	})

	router.Use(middleware.RequestID)
	router.Use(httplog.RequestLogger(logger))
	router.Use(requestLoggerCtx)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(jwtAuthMiddleware(jwtKey))

	server := &HttpServer{
		submSrvc: submSrvc,
		rankSrvc: rankSrvc,
		coord:    coord,
		router:   router,
	}

	server.routes()

	return server
}

func (s *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, s.router)
}

// Handler exposes the router for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.router
}

func (s *HttpServer) routes() {
	r := s.router
	r.Post("/submissions", s.createSubmission)
	r.Get("/submissions", s.listSubmissions)
	r.Get("/submissions/{submUuid}", s.getSubmission)
	r.Get("/submissions/{submUuid}/completed", s.getSubmissionCompleted)
	r.Get("/leaderboard/{contestId}", s.getLeaderboard)
	r.Get("/languages", s.listLanguages)
}

// requestLoggerCtx makes a request-scoped logger available to handlers via
// logger.FromContext.
func requestLoggerCtx(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		ctx := appLogger.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}
