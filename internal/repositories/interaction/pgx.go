package interaction

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPgx(pg *pgxpool.Pool) *Pgx {
	return &Pgx{
		pg: pg,
	}
}

var _ Repository = (*Pgx)(nil)

type Pgx struct {
	pg *pgxpool.Pool
}

func (p *Pgx) AddVote(ctx context.Context, storyID, pollID, voterID, option string) (bool, error) {
	// The (poll_id, voter_id) primary key makes the duplicate check and the
	// insert one atomic statement; tallies are derived from the rows, so the
	// count invariant cannot drift.
	query, args, err := repository.SqBuilder.
		Insert("poll_votes").
		Columns("poll_id", "story_id", "voter_id", "option").
		Values(pollID, storyID, voterID, option).
		Suffix("ON CONFLICT (poll_id, voter_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, repository.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return false, errors.Join(err, ErrCannotCreate)
	}

	return tag.RowsAffected() > 0, nil
}

func (p *Pgx) PollState(ctx context.Context, pollID string) (*PollState, error) {
	query, args, err := repository.SqBuilder.
		Select("option", "COUNT(*)").
		From("poll_votes").
		Where(sq.Eq{"poll_id": pollID}).
		GroupBy("option").
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll state: %w", err)
	}
	defer rows.Close()

	state := &PollState{Counts: make(map[string]int)}
	for rows.Next() {
		var (
			option string
			count  int
		)
		if err := rows.Scan(&option, &count); err != nil {
			return nil, fmt.Errorf("failed to scan poll state row: %w", err)
		}
		state.Counts[option] = count
		state.Voters += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating poll state rows: %w", err)
	}

	return state, nil
}

func (p *Pgx) AddResponse(ctx context.Context, storyID, questionID string, resp domain.Response) error {
	query, args, err := repository.SqBuilder.
		Insert("question_responses").
		Columns("id", "story_id", "question_id", "responder_id", "text", "created_at").
		Values(resp.ID, storyID, questionID, resp.ResponderID, resp.Text, resp.CreatedAt).
		ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}

func (p *Pgx) ListResponses(ctx context.Context, questionID string, limit, offset int) ([]*domain.Response, error) {
	builder := repository.SqBuilder.
		Select("id", "responder_id", "text", "created_at").
		From("question_responses").
		Where(sq.Eq{"question_id": questionID}).
		OrderBy("seq ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	var responses []*domain.Response
	for rows.Next() {
		var r domain.Response
		if err := rows.Scan(&r.ID, &r.ResponderID, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response row: %w", err)
		}
		responses = append(responses, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating response rows: %w", err)
	}

	return responses, nil
}
