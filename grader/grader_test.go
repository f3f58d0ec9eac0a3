package grader_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenaoj/backend/grader"
	"github.com/arenaoj/backend/subm"
)

func storedSubm(t *testing.T, repo subm.Repo) *subm.Submission {
	t.Helper()
	s, err := subm.New(uuid.New(), "two-sum", "contest-1", "go", "package main", 2)
	require.NoError(t, err)
	require.NoError(t, repo.Store(context.Background(), *s))
	return s
}

func TestEnqueueSendsGradingJob(t *testing.T) {
	repo := subm.NewInMemRepo()
	jobs := grader.NewChanQueue()
	g := grader.NewGrader(repo, jobs, grader.NewChanQueue())
	s := storedSubm(t, repo)

	require.NoError(t, g.Enqueue(context.Background(), s))

	msgs, err := jobs.Receive(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var job grader.Job
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Body), &job))
	assert.Equal(t, s.UUID.String(), job.SubmUuid)
	assert.Equal(t, "two-sum", job.ProblemID)
	assert.Equal(t, "package main", job.Code)
	assert.Equal(t, 2, job.CaseCount)
}

func TestApplyRecordsTerminalResult(t *testing.T) {
	repo := subm.NewInMemRepo()
	g := grader.NewGrader(repo, grader.NewChanQueue(), grader.NewChanQueue())
	s := storedSubm(t, repo)

	body, err := json.Marshal(grader.Result{
		SubmUuid: s.UUID.String(),
		Status:   string(subm.StatusAccepted),
		TestRes: []subm.TestRes{
			{Passed: true, Pts: 50},
			{Passed: true, Pts: 50},
		},
	})
	require.NoError(t, err)
	require.NoError(t, g.Apply(context.Background(), string(body)))

	stored, err := repo.Get(context.Background(), s.UUID)
	require.NoError(t, err)
	assert.Equal(t, subm.StatusAccepted, stored.Status)
	assert.Equal(t, 100, stored.Score)
}

// a duplicate delivery with a stale status is dropped, not applied
func TestApplyDropsStaleResult(t *testing.T) {
	repo := subm.NewInMemRepo()
	g := grader.NewGrader(repo, grader.NewChanQueue(), grader.NewChanQueue())
	s := storedSubm(t, repo)

	accepted, err := json.Marshal(grader.Result{
		SubmUuid: s.UUID.String(),
		Status:   string(subm.StatusAccepted),
		TestRes: []subm.TestRes{
			{Passed: true, Pts: 50},
			{Passed: true, Pts: 50},
		},
	})
	require.NoError(t, err)
	require.NoError(t, g.Apply(context.Background(), string(accepted)))

	stale, err := json.Marshal(grader.Result{
		SubmUuid: s.UUID.String(),
		Status:   string(subm.StatusWrongAnswer),
	})
	require.NoError(t, err)
	require.NoError(t, g.Apply(context.Background(), string(stale)))

	stored, err := repo.Get(context.Background(), s.UUID)
	require.NoError(t, err)
	assert.Equal(t, subm.StatusAccepted, stored.Status)
	assert.Equal(t, 100, stored.Score)
}

func TestApplyRejectsMalformedBody(t *testing.T) {
	repo := subm.NewInMemRepo()
	g := grader.NewGrader(repo, grader.NewChanQueue(), grader.NewChanQueue())

	assert.Error(t, g.Apply(context.Background(), "not json"))
	assert.Error(t, g.Apply(context.Background(), `{"subm_uuid":"nope"}`))
}

func TestProcessResultsDrainsQueue(t *testing.T) {
	repo := subm.NewInMemRepo()
	results := grader.NewChanQueue()
	g := grader.NewGrader(repo, grader.NewChanQueue(), results)
	s := storedSubm(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.ProcessResults(ctx)

	body, err := json.Marshal(grader.Result{
		SubmUuid: s.UUID.String(),
		Status:   string(subm.StatusCompilationError),
	})
	require.NoError(t, err)
	require.NoError(t, results.Send(ctx, string(body)))

	require.Eventually(t, func() bool {
		stored, err := repo.Get(context.Background(), s.UUID)
		return err == nil && stored.Status == subm.StatusCompilationError
	}, time.Second, 5*time.Millisecond)
}
