package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenaoj/backend/grader"
	httpsrv "github.com/arenaoj/backend/http"
	"github.com/arenaoj/backend/poll"
	"github.com/arenaoj/backend/rank"
	"github.com/arenaoj/backend/subm"
)

var testJwtKey = []byte("test-key")

type fixture struct {
	repo   *subm.InMemRepo
	jobs   *grader.ChanQueue
	coord  *poll.Coordinator
	server *httptest.Server
}

func setup(t *testing.T) *fixture {
	t.Helper()
	repo := subm.NewInMemRepo()
	jobs := grader.NewChanQueue()
	graderSrvc := grader.NewGrader(repo, jobs, grader.NewChanQueue())
	submSrvc := subm.NewSubmSrvc(repo, graderSrvc, []subm.Language{
		{ID: "go", FullName: "Go 1.22"},
	})
	rankSrvc := rank.NewRankSrvc(repo)
	coord := poll.NewCoordinator()

	server := httptest.NewServer(
		httpsrv.NewHttpServer(submSrvc, rankSrvc, coord, testJwtKey).Handler())
	t.Cleanup(server.Close)

	return &fixture{repo: repo, jobs: jobs, coord: coord, server: server}
}

func bearerToken(t *testing.T, userUuid uuid.UUID) string {
	t.Helper()
	claims := &httpsrv.Claims{
		Username: "tester",
		UserUUID: userUuid.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testJwtKey)
	require.NoError(t, err)
	return token
}

func decodeEnvelope(t *testing.T, resp *http.Response, data any) string {
	t.Helper()
	defer resp.Body.Close()
	var envelope struct {
		Status  string          `json:"status"`
		Data    json.RawMessage `json:"data"`
		ErrCode string          `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	if envelope.Status == "success" {
		return ""
	}
	return envelope.ErrCode
}

func TestCreateSubmissionRequiresAuth(t *testing.T) {
	f := setup(t)

	resp, err := http.Post(f.server.URL+"/submissions", "application/json",
		bytes.NewBufferString(`{"problem_id":"p1","lang_id":"go","code":"x","case_count":1}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateSubmissionHttp(t *testing.T) {
	f := setup(t)
	author := uuid.New()

	body := map[string]any{
		"problem_id": "p1",
		"contest_id": "contest-1",
		"lang_id":    "go",
		"code":       "package main",
		"case_count": 3,
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/submissions", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, author))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created httpsrv.Submission
	require.Empty(t, decodeEnvelope(t, resp, &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, author.String(), created.AuthorUuid)

	// the grading job was enqueued
	msgs, err := f.jobs.Receive(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestCreateSubmissionRejectsUnknownLanguage(t *testing.T) {
	f := setup(t)

	raw := []byte(`{"problem_id":"p1","lang_id":"cobol","code":"x","case_count":1}`)
	req, err := http.NewRequest(http.MethodPost, f.server.URL+"/submissions", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bearerToken(t, uuid.New()))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, subm.ErrCodeInvalidLanguage, decodeEnvelope(t, resp, nil))
}

func TestGetSubmissionHttp(t *testing.T) {
	f := setup(t)
	s, err := subm.New(uuid.New(), "p1", "contest-1", "go", "package main", 1)
	require.NoError(t, err)
	require.NoError(t, f.repo.Store(context.Background(), *s))

	resp, err := http.Get(f.server.URL + "/submissions/" + s.UUID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got httpsrv.Submission
	require.Empty(t, decodeEnvelope(t, resp, &got))
	assert.Equal(t, s.UUID.String(), got.SubmUuid)
	assert.Equal(t, "pending", got.Status)
}

func TestGetSubmissionNotFound(t *testing.T) {
	f := setup(t)

	resp, err := http.Get(f.server.URL + "/submissions/" + uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, subm.ErrCodeSubmNotFound, decodeEnvelope(t, resp, nil))
}

func TestCompletedQueryHttp(t *testing.T) {
	f := setup(t)
	id := uuid.New()

	get := func() bool {
		resp, err := http.Get(f.server.URL + "/submissions/" + id.String() + "/completed")
		require.NoError(t, err)
		var data struct {
			Completed bool `json:"completed"`
		}
		require.Empty(t, decodeEnvelope(t, resp, &data))
		return data.Completed
	}

	assert.False(t, get())
	f.coord.MarkCompleted(id)
	assert.True(t, get())
}

func TestLeaderboardHttp(t *testing.T) {
	f := setup(t)
	author := uuid.New()

	s, err := subm.New(author, "p1", "contest-1", "go", "package main", 1)
	require.NoError(t, err)
	require.NoError(t, s.ApplyResult(subm.StatusAccepted, []subm.TestRes{{Passed: true, Pts: 100}}))
	require.NoError(t, f.repo.Store(context.Background(), *s))

	resp, err := http.Get(f.server.URL + "/leaderboard/contest-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []httpsrv.LeaderboardEntry
	require.Empty(t, decodeEnvelope(t, resp, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, author.String(), entries[0].AuthorUuid)
	assert.Equal(t, 100, entries[0].Score)
	assert.Equal(t, 1, entries[0].Solved)
}

// a remote observer polls the REST API until the grader writes a terminal
// status
func TestPollOverHttpConvergesToTerminal(t *testing.T) {
	f := setup(t)
	s, err := subm.New(uuid.New(), "p1", "contest-1", "go", "package main", 1)
	require.NoError(t, err)
	require.NoError(t, f.repo.Store(context.Background(), *s))

	completed := make(chan *subm.Submission, 1)
	session := f.coord.StartPolling(
		context.Background(),
		httpsrv.NewClient(f.server.URL),
		s.UUID,
		poll.Callbacks{OnComplete: func(final *subm.Submission) { completed <- final }},
		poll.Config{Interval: 10 * time.Millisecond, MaxDuration: 5 * time.Second},
	)
	require.NotNil(t, session)

	// the grader finishes while the observer is polling
	time.Sleep(25 * time.Millisecond)
	graded := *s
	require.NoError(t, graded.ApplyResult(subm.StatusAccepted, []subm.TestRes{{Passed: true, Pts: 100}}))
	require.NoError(t, f.repo.Store(context.Background(), graded))

	select {
	case final := <-completed:
		assert.Equal(t, subm.StatusAccepted, final.Status)
		assert.Equal(t, 100, final.Score)
	case <-time.After(5 * time.Second):
		t.Fatal("poll session never observed the terminal status")
	}
	assert.True(t, f.coord.IsCompleted(s.UUID))
}
