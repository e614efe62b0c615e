// Package store provides persistence for player records, user accounts,
// and the linkage audit log, with memory, sqlite, and postgres backends.
package store

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = eris.New("store: not found")

// Store is the persistence interface consumed by the matching engine and
// the linkage service. Player queries are equality-filtered only.
type Store interface {
	// Players
	QueryPlayers(ctx context.Context, filter map[string]string, limit int) ([]model.PlayerRecord, error)
	GetPlayer(ctx context.Context, id string) (*model.PlayerRecord, error)
	CreatePlayer(ctx context.Context, p *model.PlayerRecord) error
	UpdatePlayer(ctx context.Context, id string, patch model.PlayerPatch) (*model.PlayerRecord, error)

	// User accounts
	GetUserAccount(ctx context.Context, id string) (*model.UserAccount, error)
	CreateUserAccount(ctx context.Context, u *model.UserAccount) error
	UpdateUserAccount(ctx context.Context, id string, patch model.UserPatch) (*model.UserAccount, error)

	// Audit log (append-only)
	AppendAudit(ctx context.Context, e *model.AuditEntry) error
	ListAudit(ctx context.Context, userID string) ([]model.AuditEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// filterColumns whitelists the equality-filter fields QueryPlayers accepts
// and maps them to their backing columns.
var filterColumns = map[string]string{
	model.FieldEmail:        "email",
	model.FieldFirstName:    "first_name",
	model.FieldLastName:     "last_name",
	model.FieldPhone:        "phone",
	model.FieldHighSchoolID: "high_school_id",
}

// sortedFilterKeys validates a filter against the whitelist and returns its
// keys in deterministic order, so generated SQL is stable.
func sortedFilterKeys(filter map[string]string) ([]string, error) {
	if len(filter) == 0 {
		return nil, eris.New("store: empty player filter")
	}
	keys := make([]string, 0, len(filter))
	for k := range filter {
		if _, ok := filterColumns[k]; !ok {
			return nil, eris.Errorf("store: unsupported filter field %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
