package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableLLMEvents = "llm_request_events"
	tableSessions  = "sessions"
	tableTurns     = "turns"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		sequence      INTEGER PRIMARY KEY,
		timestamp     TEXT    NOT NULL,
		provider      TEXT    NOT NULL DEFAULT '',
		model         TEXT    NOT NULL DEFAULT '',
		purpose       TEXT    NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_request_events (purpose)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id              TEXT    PRIMARY KEY,
		participant     TEXT    NOT NULL DEFAULT '',
		position        TEXT    NOT NULL DEFAULT '',
		grade           TEXT    NOT NULL DEFAULT '',
		context         TEXT    NOT NULL DEFAULT '{}',
		phase           TEXT    NOT NULL DEFAULT '',
		total_questions INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		started_at      TEXT    NOT NULL,
		ended_at        TEXT    NOT NULL DEFAULT '',
		snapshot        TEXT    NOT NULL DEFAULT '',
		feedback        TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS turns (
		sequence       INTEGER PRIMARY KEY,
		session_id     TEXT    NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		turn_id        INTEGER NOT NULL,
		visible        TEXT    NOT NULL DEFAULT '',
		user_message   TEXT    NOT NULL DEFAULT '',
		internal_notes TEXT    NOT NULL DEFAULT '',
		created_at     TEXT    NOT NULL,
		UNIQUE (session_id, turn_id)
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
