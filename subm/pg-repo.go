package subm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepo struct {
	pool *pgxpool.Pool
}

func NewPgRepo(pool *pgxpool.Pool) Repo {
	return &pgRepo{pool: pool}
}

func (r *pgRepo) Store(ctx context.Context, subm Submission) error {
	testRes, err := json.Marshal(subm.TestRes)
	if err != nil {
		return fmt.Errorf("failed to marshal test results: %w", err)
	}

	query := `
		INSERT INTO submissions (
			uuid, author_uuid, problem_id, contest_id, lang_id, code,
			status, score, case_count, test_res, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (uuid) DO UPDATE SET
			status = EXCLUDED.status,
			score = EXCLUDED.score,
			test_res = EXCLUDED.test_res,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		subm.UUID,
		subm.AuthorUUID,
		subm.ProblemID,
		subm.ContestID,
		subm.LangID,
		subm.Code,
		string(subm.Status),
		subm.Score,
		subm.CaseCount,
		testRes,
		subm.CreatedAt,
		subm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

func (r *pgRepo) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	query := `
		SELECT uuid, author_uuid, problem_id, contest_id, lang_id, code,
			status, score, case_count, test_res, created_at, updated_at
		FROM submissions
		WHERE uuid = $1
	`
	subm, err := scanSubm(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmNotFound().SetDebug(err)
		}
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}
	return subm, nil
}

func (r *pgRepo) List(ctx context.Context, contestID string) ([]Submission, error) {
	query := `
		SELECT uuid, author_uuid, problem_id, contest_id, lang_id, code,
			status, score, case_count, test_res, created_at, updated_at
		FROM submissions
		WHERE ($1 = '' OR contest_id = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subms []Submission
	for rows.Next() {
		subm, err := scanSubm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subms = append(subms, *subm)
	}
	return subms, rows.Err()
}

func scanSubm(row pgx.Row) (*Submission, error) {
	var subm Submission
	var status string
	var testRes []byte
	err := row.Scan(
		&subm.UUID,
		&subm.AuthorUUID,
		&subm.ProblemID,
		&subm.ContestID,
		&subm.LangID,
		&subm.Code,
		&status,
		&subm.Score,
		&subm.CaseCount,
		&testRes,
		&subm.CreatedAt,
		&subm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	subm.Status = Status(status)
	if len(testRes) > 0 {
		if err := json.Unmarshal(testRes, &subm.TestRes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal test results: %w", err)
		}
	}
	return &subm, nil
}
