package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var sessionColumns = []string{
	"id", "participant", "position", "grade", "context", "phase",
	"total_questions", "correct_answers", "started_at", "ended_at",
	"snapshot", "feedback",
}

var turnColumns = []string{
	"sequence", "session_id", "turn_id", "visible", "user_message",
	"internal_notes", "created_at",
}

func (r *sessionRepo) CreateSession(ctx context.Context, rec SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("create session: empty id")
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	contextJSON := rec.Context
	if len(contextJSON) == 0 {
		contextJSON = json.RawMessage("{}")
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSessions).
		Columns(sessionColumns...).
		Values(
			rec.ID, rec.Participant, rec.Position, rec.Grade, string(contextJSON), rec.Phase,
			rec.TotalQuestions, rec.CorrectAnswers, formatTime(rec.StartedAt), formatTime(rec.EndedAt),
			string(rec.Snapshot), string(rec.Feedback),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create session %s: %w", rec.ID, err)
	}
	return nil
}

func (r *sessionRepo) AppendTurn(ctx context.Context, rec TurnRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableTurns).
		Columns(turnColumns...).
		Values(
			seqNum, rec.SessionID, rec.TurnID, rec.VisibleMessage, rec.UserMessage,
			rec.InternalNotes, formatTime(rec.CreatedAt),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append turn %d to %s: %w", rec.TurnID, rec.SessionID, err)
	}
	return nil
}

func (r *sessionRepo) UpdateProgress(ctx context.Context, id string, p SessionProgress) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tableSessions).
		Set("phase", p.Phase).
		Set("total_questions", p.TotalQuestions).
		Set("correct_answers", p.CorrectAnswers).
		Set("snapshot", string(p.Snapshot)).
		Where(entsql.EQ("id", id)).
		Query()

	return r.execOne(ctx, id, query, args)
}

func (r *sessionRepo) FinishSession(ctx context.Context, id string, feedback json.RawMessage, endedAt time.Time) error {
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Update(tableSessions).
		Set("feedback", string(feedback)).
		Set("ended_at", formatTime(endedAt)).
		Where(entsql.EQ("id", id)).
		Query()

	return r.execOne(ctx, id, query, args)
}

func (r *sessionRepo) execOne(ctx context.Context, id, query string, args []any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sessionRepo) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.HasPrefix("id", id)).
		Limit(2).
		Query()

	recs, err := r.querySessions(ctx, query, args)
	if err != nil {
		return nil, err
	}
	switch len(recs) {
	case 0:
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	case 1:
		return &recs[0], nil
	default:
		return nil, fmt.Errorf("session prefix %q is ambiguous", id)
	}
}

func (r *sessionRepo) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()
	return r.querySessions(ctx, query, args)
}

func (r *sessionRepo) querySessions(ctx context.Context, query string, args []any) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec                         SessionRecord
			ctxJSON, snapshot, feedback string
			startedAt, endedAt          string
		)
		err := rows.Scan(
			&rec.ID, &rec.Participant, &rec.Position, &rec.Grade, &ctxJSON, &rec.Phase,
			&rec.TotalQuestions, &rec.CorrectAnswers, &startedAt, &endedAt,
			&snapshot, &feedback,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.Context = rawOrNil(ctxJSON)
		rec.Snapshot = rawOrNil(snapshot)
		rec.Feedback = rawOrNil(feedback)
		rec.StartedAt = parseTime(startedAt)
		rec.EndedAt = parseTime(endedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *sessionRepo) ListTurns(ctx context.Context, sessionID string) ([]TurnRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(turnColumns...).
		From(entsql.Table(tableTurns)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("turn_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var out []TurnRecord
	for rows.Next() {
		var (
			t         TurnRecord
			createdAt string
		)
		err := rows.Scan(&t.Sequence, &t.SessionID, &t.TurnID, &t.VisibleMessage,
			&t.UserMessage, &t.InternalNotes, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.CreatedAt = parseTime(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
