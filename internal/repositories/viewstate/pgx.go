package viewstate

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/davitran/stories-engine/internal/domain"
	"github.com/davitran/stories-engine/internal/repository"
	"github.com/jackc/pgx/v5"
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

func (p *Pgx) Create(ctx context.Context, vs domain.ViewState) error {
	query, args, err := repository.SqBuilder.
		Insert("view_states").
		Columns("viewer_id", "story_id", "first_viewed_at").
		Values(vs.ViewerID, vs.StoryID, vs.FirstViewedAt).
		Suffix("ON CONFLICT (viewer_id, story_id) DO NOTHING").
		ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create view state: %w", err)
	}

	return nil
}

func (p *Pgx) Get(ctx context.Context, viewerID, storyID string) (*domain.ViewState, error) {
	query, args, err := repository.SqBuilder.
		Select("viewer_id", "story_id", "first_viewed_at").
		From("view_states").
		Where(sq.Eq{"viewer_id": viewerID, "story_id": storyID}).
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	var vs domain.ViewState
	err = p.pg.QueryRow(ctx, query, args...).Scan(&vs.ViewerID, &vs.StoryID, &vs.FirstViewedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get view state: %w", err)
	}

	return &vs, nil
}

func (p *Pgx) ViewedSet(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error) {
	if len(storyIDs) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := repository.SqBuilder.
		Select("story_id").
		From("view_states").
		Where(sq.Eq{"viewer_id": viewerID, "story_id": storyIDs}).
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query viewed set: %w", err)
	}
	defer rows.Close()

	viewed := make(map[string]bool, len(storyIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan viewed row: %w", err)
		}
		viewed[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating viewed rows: %w", err)
	}

	return viewed, nil
}
