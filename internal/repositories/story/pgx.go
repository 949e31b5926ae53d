package story

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

var storyColumns = []string{
	"id", "author_id", "kind", "media_ref", "thumbnail_ref",
	"text_content", "background_style", "text_style", "font_family",
	"duration_hint", "music", "visibility", "allow_replies", "allow_sharing",
	"overlays", "created_at", "expires_at", "is_highlight",
}

func (p *Pgx) Create(ctx context.Context, story domain.Story) error {
	overlays, err := encodeOverlays(story.Overlays)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	var music []byte
	if story.Music != nil {
		music, err = json.Marshal(story.Music)
		if err != nil {
			return errors.Join(err, ErrCannotCreate)
		}
	}

	query, args, err := repository.SqBuilder.
		Insert("stories").
		Columns(storyColumns...).
		Values(
			story.ID, story.AuthorID, story.Kind, story.MediaRef, story.ThumbnailRef,
			story.TextContent, story.BackgroundStyle, story.TextStyle, story.FontFamily,
			story.DurationHint, music, story.Visibility, story.AllowReplies, story.AllowSharing,
			overlays, story.CreatedAt, story.ExpiresAt, story.IsHighlight,
		).ToSql()
	if err != nil {
		return repository.ErrBadQuery
	}

	_, err = p.pg.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(err, ErrCannotCreate)
	}

	return nil
}

func (p *Pgx) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	query, args, err := repository.SqBuilder.
		Select(storyColumns...).
		From("stories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	s, err := scanStory(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s, nil
}

func (p *Pgx) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error) {
	return p.list(ctx, sq.Eq{"author_id": authorID})
}

func (p *Pgx) ListAll(ctx context.Context) ([]*domain.Story, error) {
	return p.list(ctx, nil)
}

func (p *Pgx) list(ctx context.Context, where any) ([]*domain.Story, error) {
	builder := repository.SqBuilder.
		Select(storyColumns...).
		From("stories").
		OrderBy("created_at ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repository.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	var stories []*domain.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating story rows: %w", err)
	}

	return stories, nil
}

func (p *Pgx) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := repository.SqBuilder.
		Delete("stories").
		Where(sq.Lt{"expires_at": cutoff}).
		Where(sq.Eq{"is_highlight": false}).
		ToSql()
	if err != nil {
		return 0, repository.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired stories: %w", err)
	}

	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (*domain.Story, error) {
	var (
		s        domain.Story
		overlays []byte
		music    []byte
	)
	err := row.Scan(
		&s.ID, &s.AuthorID, &s.Kind, &s.MediaRef, &s.ThumbnailRef,
		&s.TextContent, &s.BackgroundStyle, &s.TextStyle, &s.FontFamily,
		&s.DurationHint, &music, &s.Visibility, &s.AllowReplies, &s.AllowSharing,
		&overlays, &s.CreatedAt, &s.ExpiresAt, &s.IsHighlight,
	)
	if err != nil {
		return nil, err
	}

	if len(music) > 0 {
		s.Music = &domain.Music{}
		if err := json.Unmarshal(music, s.Music); err != nil {
			return nil, fmt.Errorf("failed to decode music metadata: %w", err)
		}
	}

	s.Overlays, err = decodeOverlays(overlays)
	if err != nil {
		return nil, fmt.Errorf("failed to decode overlays: %w", err)
	}

	return &s, nil
}
