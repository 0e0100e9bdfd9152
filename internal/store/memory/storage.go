package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

// Store is an in-memory implementation of the store interface. It is
// the test double for the Redis store and the dev-mode backend.
//
// Documents are deep-copied on the way in and out so callers never
// alias stored state; without that, UpdateSession's transform semantics
// would be unobservable in tests.
type Store struct {
	mu sync.RWMutex

	sessions   map[model.SessionName]*model.Session
	accounts   map[model.AccountID]*model.Account
	emailIndex map[string]model.AccountID
	resets     map[string]*model.PasswordReset

	subs      map[model.SessionName]map[int]func(*model.Session)
	nextSubID int
}

// New creates a new in-memory store instance
func New() *Store {
	return &Store{
		sessions:   make(map[model.SessionName]*model.Session),
		accounts:   make(map[model.AccountID]*model.Account),
		emailIndex: make(map[string]model.AccountID),
		resets:     make(map[string]*model.PasswordReset),
		subs:       make(map[model.SessionName]map[int]func(*model.Session)),
	}
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

func cloneSession(s *model.Session) *model.Session {
	data, _ := json.Marshal(s)
	var out model.Session
	_ = json.Unmarshal(data, &out)
	return &out
}

func cloneAccount(a *model.Account) *model.Account {
	out := *a
	return &out
}

func cloneReset(r *model.PasswordReset) *model.PasswordReset {
	out := *r
	return &out
}

// Session operations

func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	if _, ok := s.sessions[session.GameName]; ok {
		s.mu.Unlock()
		return model.ErrSessionExists
	}
	stored := cloneSession(session)
	stored.Version = 1
	s.sessions[session.GameName] = stored
	session.Version = stored.Version
	fns := s.subscribersLocked(session.GameName)
	s.mu.Unlock()

	s.notify(fns, stored)
	return nil
}

func (s *Store) GetSession(ctx context.Context, name model.SessionName) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[name]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Store) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	stored := cloneSession(session)
	if prev, ok := s.sessions[session.GameName]; ok {
		stored.Version = prev.Version + 1
	} else {
		stored.Version = 1
	}
	s.sessions[session.GameName] = stored
	session.Version = stored.Version
	fns := s.subscribersLocked(session.GameName)
	s.mu.Unlock()

	s.notify(fns, stored)
	return nil
}

func (s *Store) UpdateSession(ctx context.Context, name model.SessionName, fn store.UpdateFunc) (*model.Session, error) {
	s.mu.Lock()
	current, ok := s.sessions[name]
	if !ok {
		s.mu.Unlock()
		return nil, model.ErrSessionNotFound
	}

	updated := cloneSession(current)
	if err := fn(updated); err != nil {
		s.mu.Unlock()
		if errors.Is(err, store.ErrNoChange) {
			return cloneSession(current), nil
		}
		return nil, err
	}

	updated.Version = current.Version + 1
	s.sessions[name] = updated
	fns := s.subscribersLocked(name)
	s.mu.Unlock()

	s.notify(fns, updated)
	return cloneSession(updated), nil
}

func (s *Store) DeleteSession(ctx context.Context, name model.SessionName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, name)
	return nil
}

func (s *Store) SessionExists(ctx context.Context, name model.SessionName) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[name]
	return ok, nil
}

// Subscription operations

func (s *Store) SubscribeSession(ctx context.Context, name model.SessionName, fn func(*model.Session)) (store.UnsubscribeFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[name] == nil {
		s.subs[name] = make(map[int]func(*model.Session))
	}
	id := s.nextSubID
	s.nextSubID++
	s.subs[name][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[name], id)
		})
	}, nil
}

// subscribersLocked snapshots the callbacks for a session. Callers must
// hold mu; the callbacks are invoked after it is released so a
// subscriber may call back into the store.
func (s *Store) subscribersLocked(name model.SessionName) []func(*model.Session) {
	fns := make([]func(*model.Session), 0, len(s.subs[name]))
	for _, fn := range s.subs[name] {
		fns = append(fns, fn)
	}
	return fns
}

func (s *Store) notify(fns []func(*model.Session), session *model.Session) {
	for _, fn := range fns {
		fn(cloneSession(session))
	}
}

// Account operations. Accounts get the same copy semantics as sessions:
// callers never alias stored state, so mutating a fetched account has no
// effect until it is saved back.

func (s *Store) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = cloneAccount(account)
	s.emailIndex[account.Email] = account.ID
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

// Password reset operations

func (s *Store) SavePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[reset.Token] = cloneReset(reset)
	return nil
}

func (s *Store) GetPasswordReset(ctx context.Context, token string) (*model.PasswordReset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reset, ok := s.resets[token]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return cloneReset(reset), nil
}

func (s *Store) DeletePasswordReset(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resets, token)
	return nil
}
