package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velatum/bellum/internal/model"
	"github.com/velatum/bellum/internal/store"
)

// Store is a Redis-backed implementation of the store interface.
// Session documents are stored as JSON under a per-session key;
// every write is also published to a per-session Pub/Sub channel,
// which backs SubscribeSession.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store instance
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return &Store{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ store.Store = (*Store)(nil)

// wrapStoreErr marks connection-level failures as ErrStoreUnavailable
// so callers can distinguish them from validation errors and retry.
func wrapStoreErr(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	return err
}

// Session operations

func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	session.Version = 1
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.GameName), data, s.cfg.SessionTTL).Result()
	if err != nil {
		return wrapStoreErr(err)
	}
	if !ok {
		return model.ErrSessionExists
	}

	return wrapStoreErr(s.client.Publish(ctx, sessionChannel(session.GameName), data).Err())
}

func (s *Store) GetSession(ctx context.Context, name model.SessionName) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, wrapStoreErr(err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) SaveSession(ctx context.Context, session *model.Session) error {
	session.Version++
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Pipeline the write and the update notification
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.GameName), data, s.cfg.SessionTTL)
	pipe.Publish(ctx, sessionChannel(session.GameName), data)
	_, err = pipe.Exec(ctx)
	return wrapStoreErr(err)
}

// UpdateSession applies fn to the current session document inside a
// WATCH/MULTI/EXEC transaction. If another client writes the document
// between the read and the commit, the transaction fails and the whole
// transform is retried against the fresh state — this is what closes
// the lost-update window on concurrent joins.
func (s *Store) UpdateSession(ctx context.Context, name model.SessionName, fn store.UpdateFunc) (*model.Session, error) {
	key := sessionKey(name)
	var result *model.Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}

		var session model.Session
		if err := json.Unmarshal(data, &session); err != nil {
			return err
		}

		if err := fn(&session); err != nil {
			if errors.Is(err, store.ErrNoChange) {
				result = &session
				return nil
			}
			return err
		}

		session.Version++
		payload, err := json.Marshal(&session)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.cfg.SessionTTL)
			pipe.Publish(ctx, sessionChannel(name), payload)
			return nil
		})
		if err != nil {
			return err
		}

		result = &session
		return nil
	}

	backoff := s.cfg.RetryBackoff
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, wrapStoreErr(err)
		}

		// Another writer got there first; back off and re-read
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}

	return nil, model.ErrUpdateConflict
}

func (s *Store) DeleteSession(ctx context.Context, name model.SessionName) error {
	return wrapStoreErr(s.client.Del(ctx, sessionKey(name)).Err())
}

func (s *Store) SessionExists(ctx context.Context, name model.SessionName) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(name)).Result()
	if err != nil {
		return false, wrapStoreErr(err)
	}
	return exists > 0, nil
}

// Subscription operations

func (s *Store) SubscribeSession(ctx context.Context, name model.SessionName, fn func(*model.Session)) (store.UnsubscribeFunc, error) {
	sub := s.client.Subscribe(ctx, sessionChannel(name))

	// Confirm the subscription before returning so callers never miss
	// writes made after SubscribeSession returns
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, wrapStoreErr(err)
	}

	go func() {
		for msg := range sub.Channel() {
			var session model.Session
			if err := json.Unmarshal([]byte(msg.Payload), &session); err != nil {
				continue
			}
			fn(&session)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = sub.Close()
		})
	}, nil
}

// Account operations

func (s *Store) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Pipeline the account write and the email index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(account.Email), string(account.ID), 0)
	_, err = pipe.Exec(ctx)
	return wrapStoreErr(err)
}

func (s *Store) GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, wrapStoreErr(err)
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	id, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, wrapStoreErr(err)
	}

	return s.GetAccount(ctx, model.AccountID(id))
}

// Password reset operations

func (s *Store) SavePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	data, err := json.Marshal(reset)
	if err != nil {
		return err
	}
	return wrapStoreErr(s.client.Set(ctx, resetKey(reset.Token), data, s.cfg.ResetTokenTTL).Err())
}

func (s *Store) GetPasswordReset(ctx context.Context, token string) (*model.PasswordReset, error) {
	data, err := s.client.Get(ctx, resetKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, wrapStoreErr(err)
	}

	var reset model.PasswordReset
	if err := json.Unmarshal(data, &reset); err != nil {
		return nil, err
	}
	return &reset, nil
}

func (s *Store) DeletePasswordReset(ctx context.Context, token string) error {
	return wrapStoreErr(s.client.Del(ctx, resetKey(token)).Err())
}
