package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DBTX is the subset of *sql.DB / *sql.Tx the queries need.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries provides typed access to the database.
type Queries struct {
	db DBTX
}

// New creates a Queries instance.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// GetOrCreateUserParams identifies a chat user.
type GetOrCreateUserParams struct {
	TgUserID int64
	Username string
	Language string
}

// GetOrCreateUser returns the internal id for a Telegram user, creating
// the row on first contact. An existing row gets its username and
// language refreshed.
func (q *Queries) GetOrCreateUser(ctx context.Context, arg GetOrCreateUserParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, "SELECT id FROM users WHERE tg_user_id = ?", arg.TgUserID).Scan(&id)
	switch {
	case err == nil:
		_, err = q.db.ExecContext(ctx,
			"UPDATE users SET username = COALESCE(NULLIF(?, ''), username), language = ? WHERE id = ?",
			arg.Username, arg.Language, id)
		if err != nil {
			return 0, fmt.Errorf("update user: %w", err)
		}
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		res, err := q.db.ExecContext(ctx,
			"INSERT INTO users (tg_user_id, username, language, premium, created_at) VALUES (?,?,?,0,?)",
			arg.TgUserID, arg.Username, arg.Language, nowUTC())
		if err != nil {
			return 0, fmt.Errorf("insert user: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("user id: %w", err)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("lookup user: %w", err)
	}
}

// IsPremium reports whether the Telegram user has the premium flag set.
// Unknown users are not premium.
func (q *Queries) IsPremium(ctx context.Context, tgUserID int64) (bool, error) {
	var premium int
	err := q.db.QueryRowContext(ctx, "SELECT premium FROM users WHERE tg_user_id = ?", tgUserID).Scan(&premium)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query premium: %w", err)
	}
	return premium != 0, nil
}

// SetPremium flips the premium flag for a Telegram user.
func (q *Queries) SetPremium(ctx context.Context, tgUserID int64, premium bool) error {
	val := 0
	if premium {
		val = 1
	}
	_, err := q.db.ExecContext(ctx, "UPDATE users SET premium = ? WHERE tg_user_id = ?", val, tgUserID)
	if err != nil {
		return fmt.Errorf("set premium: %w", err)
	}
	return nil
}

// InsertDreamParams describes a submitted dream text.
type InsertDreamParams struct {
	UserID       int64
	RawText      string
	ModelVersion string
}

// InsertDream stores a raw dream text and returns its id.
func (q *Queries) InsertDream(ctx context.Context, arg InsertDreamParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO dreams (user_id, raw_text, created_at, model_version) VALUES (?,?,?,?)",
		arg.UserID, arg.RawText, nowUTC(), arg.ModelVersion)
	if err != nil {
		return 0, fmt.Errorf("insert dream: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("dream id: %w", err)
	}
	return id, nil
}

// InsertAnalysisParams is one immutable analysis row per dream.
type InsertAnalysisParams struct {
	DreamID    int64
	Language   string
	Mode       string
	JSONStruct string
	Mixed      string
	Psych      string
	Esoteric   string
	Advice     string
}

// InsertAnalysis stores the analysis record for a dream.
func (q *Queries) InsertAnalysis(ctx context.Context, arg InsertAnalysisParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO analyses (dream_id, language, mode, json_struct, mixed_interpretation, psych_interpretation, esoteric_interpretation, advice, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		arg.DreamID, arg.Language, arg.Mode, arg.JSONStruct, arg.Mixed, arg.Psych, arg.Esoteric, arg.Advice, nowUTC())
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// CountDreams returns the number of dreams a user has submitted.
func (q *Queries) CountDreams(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dreams WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count dreams: %w", err)
	}
	return n, nil
}

// CountAnalyses returns the number of stored analyses for a user.
func (q *Queries) CountAnalyses(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM analyses a JOIN dreams d ON a.dream_id = d.id WHERE d.user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}

// ListRecentStructuresParams bounds a recent-analyses scan.
type ListRecentStructuresParams struct {
	UserID int64
	Limit  int64
}

// ListRecentStructures returns the structure JSON of the user's most
// recent analyses, newest first.
func (q *Queries) ListRecentStructures(ctx context.Context, arg ListRecentStructuresParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.json_struct FROM analyses a
		JOIN dreams d ON a.dream_id = d.id
		WHERE d.user_id = ?
		ORDER BY a.id DESC LIMIT ?`,
		arg.UserID, arg.Limit)
	if err != nil {
		return nil, fmt.Errorf("list structures: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var js sql.NullString
		if err := rows.Scan(&js); err != nil {
			return nil, fmt.Errorf("scan structure: %w", err)
		}
		if js.Valid && js.String != "" {
			out = append(out, js.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate structures: %w", err)
	}
	return out, nil
}

// InsertQAParams is one question/answer exchange.
type InsertQAParams struct {
	UserID   int64
	Question string
	Answer   string
}

// InsertQA stores a follow-up question and its answer.
func (q *Queries) InsertQA(ctx context.Context, arg InsertQAParams) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO qa (user_id, question, answer, created_at) VALUES (?,?,?,?)",
		arg.UserID, arg.Question, arg.Answer, nowUTC())
	if err != nil {
		return fmt.Errorf("insert qa: %w", err)
	}
	return nil
}
