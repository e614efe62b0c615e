package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/roster-cli/internal/model"
)

// MemoryStore is an in-process Store used by tests and the memory driver.
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]model.PlayerRecord
	users   map[string]model.UserAccount
	audit   []model.AuditEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		players: make(map[string]model.PlayerRecord),
		users:   make(map[string]model.UserAccount),
	}
}

func (s *MemoryStore) QueryPlayers(_ context.Context, filter map[string]string, limit int) ([]model.PlayerRecord, error) {
	keys, err := sortedFilterKeys(filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.PlayerRecord
	for _, p := range s.players {
		if matchesFilter(p, keys, filter) {
			out = append(out, p)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// matchesFilter applies case-insensitive equality on every filter field,
// mirroring the LOWER() comparisons the SQL backends use.
func matchesFilter(p model.PlayerRecord, keys []string, filter map[string]string) bool {
	for _, k := range keys {
		var have string
		switch k {
		case model.FieldEmail:
			have = p.Email
		case model.FieldFirstName:
			have = p.FirstName
		case model.FieldLastName:
			have = p.LastName
		case model.FieldPhone:
			have = p.Phone
		case model.FieldHighSchoolID:
			have = p.HighSchoolID
		}
		if have == "" || !strings.EqualFold(have, filter[k]) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) GetPlayer(_ context.Context, id string) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreatePlayer(_ context.Context, p *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.players[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdatePlayer(_ context.Context, id string, patch model.PlayerPatch) (*model.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.LinkedUserID != nil {
		p.LinkedUserID = *patch.LinkedUserID
	}
	if patch.LinkedAt != nil {
		p.LinkedAt = patch.LinkedAt
	}
	p.UpdatedAt = time.Now().UTC()
	s.players[id] = p
	return &p, nil
}

func (s *MemoryStore) GetUserAccount(_ context.Context, id string) (*model.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreateUserAccount(_ context.Context, u *model.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) UpdateUserAccount(_ context.Context, id string, patch model.UserPatch) (*model.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.LinkedPlayerID != nil {
		u.LinkedPlayerID = *patch.LinkedPlayerID
	}
	if patch.ProfileCreated != nil {
		u.ProfileCreated = *patch.ProfileCreated
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.InvitationStatus != nil {
		u.InvitationStatus = *patch.InvitationStatus
	}
	if patch.LinkedAt != nil {
		u.LinkedAt = patch.LinkedAt
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) AppendAudit(_ context.Context, e *model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.audit = append(s.audit, *e)
	return nil
}

func (s *MemoryStore) ListAudit(_ context.Context, userID string) ([]model.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.AuditEntry
	for _, e := range s.audit {
		if userID == "" || e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
