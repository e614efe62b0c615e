package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/db"
	"github.com/sells-group/roster-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS players (
	id               TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	first_name       TEXT NOT NULL DEFAULT '',
	last_name        TEXT NOT NULL DEFAULT '',
	email            TEXT NOT NULL DEFAULT '',
	phone            TEXT NOT NULL DEFAULT '',
	high_school_id   TEXT NOT NULL DEFAULT '',
	high_school_name TEXT NOT NULL DEFAULT '',
	position         TEXT NOT NULL DEFAULT '',
	class_year       TEXT NOT NULL DEFAULT '',
	stars            INTEGER NOT NULL DEFAULT 0,
	highlights       JSONB NOT NULL DEFAULT '[]',
	transcripts      JSONB NOT NULL DEFAULT '[]',
	linked_user_id   TEXT NOT NULL DEFAULT '',
	linked_at        TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS user_accounts (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	email             TEXT NOT NULL DEFAULT '',
	linked_player_id  TEXT NOT NULL DEFAULT '',
	profile_created   BOOLEAN NOT NULL DEFAULT false,
	status            TEXT NOT NULL DEFAULT 'pending',
	role              TEXT NOT NULL DEFAULT '',
	invitation_status TEXT NOT NULL DEFAULT 'pending',
	linked_at         TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_log (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	action       TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	player_id    TEXT NOT NULL,
	performed_by TEXT NOT NULL DEFAULT '',
	details      JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_players_email ON players(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_players_name ON players(LOWER(last_name), LOWER(first_name));
CREATE INDEX IF NOT EXISTS idx_players_school ON players(high_school_id);
CREATE INDEX IF NOT EXISTS idx_players_phone ON players(phone);
CREATE INDEX IF NOT EXISTS idx_audit_log_user ON audit_log(user_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) QueryPlayers(ctx context.Context, filter map[string]string, limit int) ([]model.PlayerRecord, error) {
	keys, err := sortedFilterKeys(filter)
	if err != nil {
		return nil, err
	}

	var conds []string
	var args []any
	for i, k := range keys {
		conds = append(conds, fmt.Sprintf("LOWER(%s) = LOWER($%d)", filterColumns[k], i+1))
		args = append(args, filter[k])
	}
	args = append(args, limit)

	q := "SELECT " + playerColumns + " FROM players WHERE " +
		strings.Join(conds, " AND ") +
		fmt.Sprintf(" ORDER BY created_at LIMIT $%d", len(keys)+1)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query players")
	}
	defer rows.Close()

	var out []model.PlayerRecord
	for rows.Next() {
		p, err := scanPgPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate players")
}

func scanPgPlayer(row rowScanner) (*model.PlayerRecord, error) {
	var p model.PlayerRecord
	var highlights, transcripts []byte
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
		&p.HighSchoolID, &p.HighSchoolName, &p.Position, &p.ClassYear, &p.Stars,
		&highlights, &transcripts, &p.LinkedUserID, &p.LinkedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: scan player")
	}
	if err := json.Unmarshal(highlights, &p.Highlights); err != nil {
		return nil, eris.Wrap(err, "postgres: decode highlights")
	}
	if err := json.Unmarshal(transcripts, &p.Transcripts); err != nil {
		return nil, eris.Wrap(err, "postgres: decode transcripts")
	}
	return &p, nil
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (*model.PlayerRecord, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+playerColumns+" FROM players WHERE id = $1", id)
	return scanPgPlayer(row)
}

func (s *PostgresStore) CreatePlayer(ctx context.Context, p *model.PlayerRecord) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	highlights, err := json.Marshal(orEmpty(p.Highlights))
	if err != nil {
		return eris.Wrap(err, "postgres: encode highlights")
	}
	transcripts, err := json.Marshal(orEmpty(p.Transcripts))
	if err != nil {
		return eris.Wrap(err, "postgres: encode transcripts")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO players (id, first_name, last_name, email, phone, high_school_id, high_school_name,
			position, class_year, stars, highlights, transcripts, linked_user_id, linked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone, p.HighSchoolID, p.HighSchoolName,
		p.Position, p.ClassYear, p.Stars, highlights, transcripts,
		p.LinkedUserID, p.LinkedAt, p.CreatedAt, p.UpdatedAt)
	return eris.Wrap(err, "postgres: insert player")
}

func (s *PostgresStore) UpdatePlayer(ctx context.Context, id string, patch model.PlayerPatch) (*model.PlayerRecord, error) {
	set := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.LinkedUserID != nil {
		add("linked_user_id", *patch.LinkedUserID)
	}
	if patch.LinkedAt != nil {
		add("linked_at", *patch.LinkedAt)
	}
	args = append(args, id)

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("UPDATE players SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)),
		args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: update player")
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetPlayer(ctx, id)
}

func scanPgUser(row rowScanner) (*model.UserAccount, error) {
	var u model.UserAccount
	err := row.Scan(&u.ID, &u.Email, &u.LinkedPlayerID, &u.ProfileCreated, &u.Status,
		&u.Role, &u.InvitationStatus, &u.LinkedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrap(err, "postgres: scan user account")
	}
	return &u, nil
}

func (s *PostgresStore) GetUserAccount(ctx context.Context, id string) (*model.UserAccount, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM user_accounts WHERE id = $1", id)
	return scanPgUser(row)
}

func (s *PostgresStore) CreateUserAccount(ctx context.Context, u *model.UserAccount) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO user_accounts (id, email, linked_player_id, profile_created, status, role,
			invitation_status, linked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, u.LinkedPlayerID, u.ProfileCreated, u.Status, u.Role,
		u.InvitationStatus, u.LinkedAt, u.CreatedAt, u.UpdatedAt)
	return eris.Wrap(err, "postgres: insert user account")
}

func (s *PostgresStore) UpdateUserAccount(ctx context.Context, id string, patch model.UserPatch) (*model.UserAccount, error) {
	set := []string{"updated_at = $1"}
	args := []any{time.Now().UTC()}

	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.LinkedPlayerID != nil {
		add("linked_player_id", *patch.LinkedPlayerID)
	}
	if patch.ProfileCreated != nil {
		add("profile_created", *patch.ProfileCreated)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if patch.InvitationStatus != nil {
		add("invitation_status", *patch.InvitationStatus)
	}
	if patch.LinkedAt != nil {
		add("linked_at", *patch.LinkedAt)
	}
	args = append(args, id)

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("UPDATE user_accounts SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)),
		args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: update user account")
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserAccount(ctx, id)
}

func (s *PostgresStore) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	details, err := json.Marshal(e.Details)
	if err != nil {
		return eris.Wrap(err, "postgres: encode audit details")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO audit_log (id, action, user_id, player_id, performed_by, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, string(e.Action), e.UserID, e.PlayerID, e.PerformedBy, details, e.CreatedAt)
	return eris.Wrap(err, "postgres: insert audit entry")
}

func (s *PostgresStore) ListAudit(ctx context.Context, userID string) ([]model.AuditEntry, error) {
	q := `SELECT id, action, user_id, player_id, performed_by, details, created_at FROM audit_log`
	var args []any
	if userID != "" {
		q += " WHERE user_id = $1"
		args = append(args, userID)
	}
	q += " ORDER BY created_at"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query audit log")
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var action string
		var details []byte
		if err := rows.Scan(&e.ID, &action, &e.UserID, &e.PlayerID, &e.PerformedBy, &details, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan audit entry")
		}
		e.Action = model.AuditAction(action)
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, eris.Wrap(err, "postgres: decode audit details")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate audit log")
}
