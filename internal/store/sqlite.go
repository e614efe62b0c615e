package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/roster-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS players (
	id               TEXT PRIMARY KEY,
	first_name       TEXT NOT NULL DEFAULT '',
	last_name        TEXT NOT NULL DEFAULT '',
	email            TEXT NOT NULL DEFAULT '',
	phone            TEXT NOT NULL DEFAULT '',
	high_school_id   TEXT NOT NULL DEFAULT '',
	high_school_name TEXT NOT NULL DEFAULT '',
	position         TEXT NOT NULL DEFAULT '',
	class_year       TEXT NOT NULL DEFAULT '',
	stars            INTEGER NOT NULL DEFAULT 0,
	highlights       TEXT NOT NULL DEFAULT '[]',
	transcripts      TEXT NOT NULL DEFAULT '[]',
	linked_user_id   TEXT NOT NULL DEFAULT '',
	linked_at        DATETIME,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS user_accounts (
	id                TEXT PRIMARY KEY,
	email             TEXT NOT NULL DEFAULT '',
	linked_player_id  TEXT NOT NULL DEFAULT '',
	profile_created   INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'pending',
	role              TEXT NOT NULL DEFAULT '',
	invitation_status TEXT NOT NULL DEFAULT 'pending',
	linked_at         DATETIME,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS audit_log (
	id           TEXT PRIMARY KEY,
	action       TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	player_id    TEXT NOT NULL,
	performed_by TEXT NOT NULL DEFAULT '',
	details      TEXT NOT NULL DEFAULT '{}',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_players_email ON players(email);
CREATE INDEX IF NOT EXISTS idx_players_name ON players(last_name, first_name);
CREATE INDEX IF NOT EXISTS idx_players_school ON players(high_school_id);
CREATE INDEX IF NOT EXISTS idx_players_phone ON players(phone);
CREATE INDEX IF NOT EXISTS idx_audit_log_user ON audit_log(user_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const playerColumns = `id, first_name, last_name, email, phone, high_school_id, high_school_name,
	position, class_year, stars, highlights, transcripts, linked_user_id, linked_at, created_at, updated_at`

func (s *SQLiteStore) QueryPlayers(ctx context.Context, filter map[string]string, limit int) ([]model.PlayerRecord, error) {
	keys, err := sortedFilterKeys(filter)
	if err != nil {
		return nil, err
	}

	var conds []string
	var args []any
	for _, k := range keys {
		conds = append(conds, "LOWER("+filterColumns[k]+") = LOWER(?)")
		args = append(args, filter[k])
	}
	args = append(args, limit)

	q := "SELECT " + playerColumns + " FROM players WHERE " +
		strings.Join(conds, " AND ") + " ORDER BY created_at LIMIT ?"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query players")
	}
	defer rows.Close()

	var out []model.PlayerRecord
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate players")
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.PlayerRecord, error) {
	var p model.PlayerRecord
	var highlights, transcripts string
	var linkedAt sql.NullTime
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.HighSchoolID, &p.HighSchoolName, &p.Position, &p.ClassYear, &p.Stars,
		&highlights, &transcripts, &p.LinkedUserID, &linkedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: scan player")
	}
	if linkedAt.Valid {
		p.LinkedAt = &linkedAt.Time
	}
	if err := json.Unmarshal([]byte(highlights), &p.Highlights); err != nil {
		return nil, eris.Wrap(err, "sqlite: decode highlights")
	}
	if err := json.Unmarshal([]byte(transcripts), &p.Transcripts); err != nil {
		return nil, eris.Wrap(err, "sqlite: decode transcripts")
	}
	return &p, nil
}

func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (*model.PlayerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	return scanPlayer(row)
}

func (s *SQLiteStore) CreatePlayer(ctx context.Context, p *model.PlayerRecord) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	highlights, err := json.Marshal(orEmpty(p.Highlights))
	if err != nil {
		return eris.Wrap(err, "sqlite: encode highlights")
	}
	transcripts, err := json.Marshal(orEmpty(p.Transcripts))
	if err != nil {
		return eris.Wrap(err, "sqlite: encode transcripts")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO players (id, first_name, last_name, email, phone, high_school_id, high_school_name,
			position, class_year, stars, highlights, transcripts, linked_user_id, linked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.HighSchoolID, p.HighSchoolName,
		p.Position, p.ClassYear, p.Stars, string(highlights), string(transcripts),
		p.LinkedUserID, p.LinkedAt, p.CreatedAt, p.UpdatedAt)
	return eris.Wrap(err, "sqlite: insert player")
}

func (s *SQLiteStore) UpdatePlayer(ctx context.Context, id string, patch model.PlayerPatch) (*model.PlayerRecord, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.Email != nil {
		set = append(set, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.Phone != nil {
		set = append(set, "phone = ?")
		args = append(args, *patch.Phone)
	}
	if patch.LinkedUserID != nil {
		set = append(set, "linked_user_id = ?")
		args = append(args, *patch.LinkedUserID)
	}
	if patch.LinkedAt != nil {
		set = append(set, "linked_at = ?")
		args = append(args, *patch.LinkedAt)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE players SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: update player")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetPlayer(ctx, id)
}

const userColumns = `id, email, linked_player_id, profile_created, status, role, invitation_status,
	linked_at, created_at, updated_at`

func scanUser(row rowScanner) (*model.UserAccount, error) {
	var u model.UserAccount
	var linkedAt sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.LinkedPlayerID, &u.ProfileCreated, &u.Status,
		&u.Role, &u.InvitationStatus, &linkedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "sqlite: scan user account")
	}
	if linkedAt.Valid {
		u.LinkedAt = &linkedAt.Time
	}
	return &u, nil
}

func (s *SQLiteStore) GetUserAccount(ctx context.Context, id string) (*model.UserAccount, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM user_accounts WHERE id = ?", id)
	return scanUser(row)
}

func (s *SQLiteStore) CreateUserAccount(ctx context.Context, u *model.UserAccount) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_accounts (id, email, linked_player_id, profile_created, status, role,
			invitation_status, linked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.LinkedPlayerID, u.ProfileCreated, u.Status, u.Role,
		u.InvitationStatus, u.LinkedAt, u.CreatedAt, u.UpdatedAt)
	return eris.Wrap(err, "sqlite: insert user account")
}

func (s *SQLiteStore) UpdateUserAccount(ctx context.Context, id string, patch model.UserPatch) (*model.UserAccount, error) {
	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if patch.LinkedPlayerID != nil {
		set = append(set, "linked_player_id = ?")
		args = append(args, *patch.LinkedPlayerID)
	}
	if patch.ProfileCreated != nil {
		set = append(set, "profile_created = ?")
		args = append(args, *patch.ProfileCreated)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Role != nil {
		set = append(set, "role = ?")
		args = append(args, *patch.Role)
	}
	if patch.InvitationStatus != nil {
		set = append(set, "invitation_status = ?")
		args = append(args, *patch.InvitationStatus)
	}
	if patch.LinkedAt != nil {
		set = append(set, "linked_at = ?")
		args = append(args, *patch.LinkedAt)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		"UPDATE user_accounts SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: update user account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserAccount(ctx, id)
}

func (s *SQLiteStore) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	details, err := json.Marshal(e.Details)
	if err != nil {
		return eris.Wrap(err, "sqlite: encode audit details")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, user_id, player_id, performed_by, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Action), e.UserID, e.PlayerID, e.PerformedBy, string(details), e.CreatedAt)
	return eris.Wrap(err, "sqlite: insert audit entry")
}

func (s *SQLiteStore) ListAudit(ctx context.Context, userID string) ([]model.AuditEntry, error) {
	q := `SELECT id, action, user_id, player_id, performed_by, details, created_at
		FROM audit_log`
	var args []any
	if userID != "" {
		q += " WHERE user_id = ?"
		args = append(args, userID)
	}
	q += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query audit log")
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var action, details string
		if err := rows.Scan(&e.ID, &action, &e.UserID, &e.PlayerID, &e.PerformedBy, &details, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan audit entry")
		}
		e.Action = model.AuditAction(action)
		if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
			return nil, eris.Wrap(err, "sqlite: decode audit details")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate audit log")
}

// orEmpty keeps JSON columns as arrays rather than null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
