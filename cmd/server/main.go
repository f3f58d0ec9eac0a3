package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/arenaoj/backend/conf"
	"github.com/arenaoj/backend/grader"
	"github.com/arenaoj/backend/http"
	"github.com/arenaoj/backend/poll"
	"github.com/arenaoj/backend/rank"
	"github.com/arenaoj/backend/subm"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})))

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	jwtKey := os.Getenv("JWT_KEY")
	if jwtKey == "" {
		slog.Error("JWT_KEY is not set")
		os.Exit(1)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.toml"
	}
	cfg, err := conf.Read(cfgPath)
	if err != nil {
		slog.Error("failed to read config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var repo subm.Repo
	if os.Getenv("POSTGRES_HOST") != "" {
		pool, err := pgxpool.New(ctx, conf.GetPgConnStrFromEnv())
		if err != nil {
			slog.Error("failed to create pg pool", "error", err)
			os.Exit(1)
		}
		repo = subm.NewPgRepo(pool)
	} else {
		slog.Warn("POSTGRES_HOST not set, using in-memory submission repo")
		repo = subm.NewInMemRepo()
	}

	var jobs, results grader.Queue
	jobSqsUrl := os.Getenv("GRADER_JOB_SQS_URL")
	resSqsUrl := os.Getenv("GRADER_RESULT_SQS_URL")
	if jobSqsUrl != "" && resSqsUrl != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("failed to load aws config", "error", err)
			os.Exit(1)
		}
		client := sqs.NewFromConfig(awsCfg)
		jobs = grader.NewSqsQueue(client, jobSqsUrl)
		results = grader.NewSqsQueue(client, resSqsUrl)
	} else {
		slog.Warn("grader queue urls not set, using in-process queues")
		jobs = grader.NewChanQueue()
		results = grader.NewChanQueue()
	}

	graderSrvc := grader.NewGrader(repo, jobs, results)
	go graderSrvc.ProcessResults(ctx)

	submSrvc := subm.NewSubmSrvc(repo, graderSrvc, cfg.Languages)
	rankSrvc := rank.NewRankSrvc(repo)
	coord := poll.NewCoordinator()

	httpServer := http.NewHttpServer(submSrvc, rankSrvc, coord, []byte(jwtKey))

	address := os.Getenv("HTTP_ADDRESS")
	if address == "" {
		address = ":8080"
	}
	slog.Info("starting server", "address", address)
	err = httpServer.Start(address)
	slog.Error("server stopped", "error", err)
}
