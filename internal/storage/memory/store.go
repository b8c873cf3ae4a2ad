// Package memory is an in-process storage.Store used by tests and local runs
// with DATABASE_DRIVER=memory. A single mutex serialises transactions; a
// failed transaction restores the snapshot taken when it began.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/agro-market-be/internal/models"
	"github.com/hongminglow/agro-market-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps every table in maps guarded by one mutex.
type Store struct {
	mu    sync.Mutex
	state state
	now   func() time.Time
}

type state struct {
	users   map[uuid.UUID]models.User
	tokens  []models.RefreshToken
	buyers  map[uuid.UUID]models.Buyer
	farmers map[uuid.UUID]models.Farmer
}

// New returns an empty store.
func New() *Store {
	return &Store{
		state: state{
			users:   make(map[uuid.UUID]models.User),
			buyers:  make(map[uuid.UUID]models.Buyer),
			farmers: make(map[uuid.UUID]models.Farmer),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithinTx runs fn with exclusive access and rolls back on error or panic.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
		if err != nil {
			s.state = snapshot
		}
	}()
	return fn(ctx, &tx{st: &s.state, now: s.now})
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// SetRefreshTokenActive flips is_active on every row holding token. Nothing in
// the service deactivates tokens, so tests and operators use this directly.
func (s *Store) SetRefreshTokenActive(token string, active bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.state.tokens {
		if s.state.tokens[i].Token == token {
			s.state.tokens[i].IsActive = active
			n++
		}
	}
	return n
}

// RefreshTokenCount reports how many rows were issued for userID.
func (s *Store) RefreshTokenCount(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rt := range s.state.tokens {
		if rt.UserID == userID {
			n++
		}
	}
	return n
}

func (st state) clone() state {
	out := state{
		users:   make(map[uuid.UUID]models.User, len(st.users)),
		tokens:  make([]models.RefreshToken, len(st.tokens)),
		buyers:  make(map[uuid.UUID]models.Buyer, len(st.buyers)),
		farmers: make(map[uuid.UUID]models.Farmer, len(st.farmers)),
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	copy(out.tokens, st.tokens)
	for k, v := range st.buyers {
		out.buyers[k] = v
	}
	for k, v := range st.farmers {
		out.farmers[k] = v
	}
	return out
}

type tx struct {
	st  *state
	now func() time.Time
}

func (t *tx) Users() storage.UserStore                 { return &userRepo{tx: t} }
func (t *tx) RefreshTokens() storage.RefreshTokenStore { return &refreshTokenRepo{tx: t} }
func (t *tx) Buyers() storage.BuyerStore               { return &buyerRepo{tx: t} }
func (t *tx) Farmers() storage.FarmerStore             { return &farmerRepo{tx: t} }
