package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arenaoj/backend/subm"
)

// Client implements poll.Fetcher over the REST API, so an observer in
// another process can run poll sessions against this backend.
type Client struct {
	base   string
	client *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Fetch(ctx context.Context, id uuid.UUID) (*subm.Submission, error) {
	url := fmt.Sprintf("%s/submissions/%s", c.base, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build status request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch submission status: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Status  string     `json:"status"`
		Data    Submission `json:"data"`
		ErrMsg  string     `json:"message"`
		ErrCode string     `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || envelope.Status != "success" {
		return nil, fmt.Errorf("status fetch failed: http %d, code %q: %s",
			resp.StatusCode, envelope.ErrCode, envelope.ErrMsg)
	}

	return unmapSubm(envelope.Data)
}

func unmapSubm(dto Submission) (*subm.Submission, error) {
	id, err := uuid.Parse(dto.SubmUuid)
	if err != nil {
		return nil, fmt.Errorf("invalid submission uuid in response: %w", err)
	}
	author, err := uuid.Parse(dto.AuthorUuid)
	if err != nil {
		return nil, fmt.Errorf("invalid author uuid in response: %w", err)
	}
	res := &subm.Submission{
		UUID:       id,
		AuthorUUID: author,
		ProblemID:  dto.ProblemID,
		ContestID:  dto.ContestID,
		LangID:     dto.LangID,
		Status:     subm.Status(dto.Status),
		Score:      dto.Score,
		CaseCount:  dto.CaseCount,
		CreatedAt:  dto.CreatedAt,
		UpdatedAt:  dto.UpdatedAt,
	}
	for _, tr := range dto.TestRes {
		res.TestRes = append(res.TestRes, subm.TestRes(tr))
	}
	return res, nil
}
