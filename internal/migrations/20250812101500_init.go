package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE stories (
		id VARCHAR PRIMARY KEY,
		author_id VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		media_ref VARCHAR NOT NULL DEFAULT '',
		thumbnail_ref VARCHAR NOT NULL DEFAULT '',
		text_content TEXT NOT NULL DEFAULT '',
		background_style VARCHAR NOT NULL DEFAULT '',
		text_style VARCHAR NOT NULL DEFAULT '',
		font_family VARCHAR NOT NULL DEFAULT '',
		duration_hint INT NOT NULL DEFAULT 0,
		music JSONB,
		visibility VARCHAR NOT NULL DEFAULT 'followers',
		allow_replies BOOLEAN NOT NULL DEFAULT TRUE,
		allow_sharing BOOLEAN NOT NULL DEFAULT TRUE,
		overlays JSONB,
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		is_highlight BOOLEAN NOT NULL DEFAULT FALSE
	);
	CREATE INDEX idx_stories_author_created ON stories (author_id, created_at);
	CREATE INDEX idx_stories_expires ON stories (expires_at);

	CREATE TABLE poll_votes (
		poll_id VARCHAR NOT NULL,
		voter_id VARCHAR NOT NULL,
		story_id VARCHAR NOT NULL,
		option VARCHAR NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (poll_id, voter_id)
	);

	CREATE TABLE question_responses (
		seq BIGSERIAL PRIMARY KEY,
		id VARCHAR NOT NULL UNIQUE,
		story_id VARCHAR NOT NULL,
		question_id VARCHAR NOT NULL,
		responder_id VARCHAR NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX idx_responses_question ON question_responses (question_id, seq);

	CREATE TABLE view_states (
		viewer_id VARCHAR NOT NULL,
		story_id VARCHAR NOT NULL,
		first_viewed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (viewer_id, story_id)
	);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE view_states;
	DROP TABLE question_responses;
	DROP TABLE poll_votes;
	DROP TABLE stories;
	`)
	if err != nil {
		return err
	}
	return nil
}
