package feed

import (
	"context"
	"errors"

	"github.com/RoyDesCraft/chiche-client/internal/apiclient"
	"github.com/RoyDesCraft/chiche-client/internal/logging"
	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/notify"
	"github.com/RoyDesCraft/chiche-client/internal/session"
	"github.com/RoyDesCraft/chiche-client/internal/store"
	"github.com/RoyDesCraft/chiche-client/internal/store/localdb"
)

// ErrAuthRequired gates every state-changing operation: the caller is
// expected to open the login view, not to show an error.
var ErrAuthRequired = errors.New("authentication required")

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return e.Kind + " not found" }

// Rejection is a validation failure. Message is user-facing; Code is the
// short reason used in metrics. A rejected operation changes no state.
type Rejection struct {
	Code    string
	Message string
}

func (e *Rejection) Error() string { return e.Message }

// App owns the client-side state: one session, one entity store, the
// durable storage behind them, and the notifier that fans actions out.
// Every mutation goes through a method here; nothing else writes the store.
// All methods run on the single event-loop thread.
type App struct {
	Session  *session.Session
	Store    *store.Store
	DB       *localdb.DB
	Notifier *notify.Notifier
	Backend  apiclient.Backend
}

func NewApp(db *localdb.DB, backend apiclient.Backend) *App {
	st := store.New()
	sess := session.New(db)
	return &App{
		Session:  sess,
		Store:    st,
		DB:       db,
		Notifier: &notify.Notifier{DB: db, Store: st, Session: sess},
		Backend:  backend,
	}
}

func reject(op, code, message string) error {
	metrics.IncRejection(op, code)
	return &Rejection{Code: code, Message: message}
}

func (a *App) requireAuth(op string) error {
	if !a.Session.IsAuthenticated() {
		logging.Info("auth_gate", map[string]any{"op": op})
		return ErrAuthRequired
	}
	return nil
}

// hydrateSessionState fills the live store from durable storage for the
// user who just became the active session: follow edges and notifications
// written while they were away (lazy reconciliation).
func (a *App) hydrateSessionState(ctx context.Context) {
	me := a.Session.Current()
	if me == nil {
		return
	}
	if following, err := a.DB.Following(ctx, me.Username); err == nil {
		me.Following = following
	}
	if followers, err := a.DB.Followers(ctx, me.Username); err == nil {
		me.Followers = followers
	}
	a.Store.PutUser(me)
	if ns, err := a.DB.NotificationsFor(ctx, me.Username); err == nil {
		a.Store.LoadNotifications(ns)
	}
	a.Store.SetUnreadMessages(a.Store.CountUnreadMessages(me.Username))
}
