package store

import (
	"context"
	"errors"

	"github.com/velatum/bellum/internal/model"
)

// ErrNoChange can be returned from an UpdateSession transform to abort
// the update without an error: the current document is returned and no
// write happens. Used for idempotent no-op mutations.
var ErrNoChange = errors.New("no change")

// UpdateFunc mutates a session document in place. It is applied to a
// private copy; the store persists the result atomically. Returning an
// error (other than ErrNoChange) aborts the update and propagates.
type UpdateFunc func(*model.Session) error

// UnsubscribeFunc cancels a session subscription. Safe to call more
// than once.
type UnsubscribeFunc func()

// Store is the document-store interface backing sessions and accounts.
//
// Individual document writes are atomic and subscribers observe a
// monotonic sequence of a document's states. UpdateSession is the only
// read-modify-write primitive: implementations must apply the transform
// atomically with respect to concurrent updates of the same session,
// retrying on conflict, so callers never lose updates.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, name model.SessionName) (*model.Session, error)
	SaveSession(ctx context.Context, session *model.Session) error
	UpdateSession(ctx context.Context, name model.SessionName, fn UpdateFunc) (*model.Session, error)
	DeleteSession(ctx context.Context, name model.SessionName) error
	SessionExists(ctx context.Context, name model.SessionName) (bool, error)

	// SubscribeSession invokes fn with each new state of the session
	// document until the returned UnsubscribeFunc is called.
	SubscribeSession(ctx context.Context, name model.SessionName, fn func(*model.Session)) (UnsubscribeFunc, error)

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// Password reset operations
	SavePasswordReset(ctx context.Context, reset *model.PasswordReset) error
	GetPasswordReset(ctx context.Context, token string) (*model.PasswordReset, error)
	DeletePasswordReset(ctx context.Context, token string) error
}
