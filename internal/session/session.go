package session

import (
	"context"

	"github.com/RoyDesCraft/chiche-client/internal/logging"
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/store/localdb"
)

// tokenKey is the storage key for the bearer token, session-lifetime in the
// original client. It lives in the kv table and is removed on logout.
const tokenKey = "chicheToken"

// Session holds the current identity and bearer token for one browsing
// session. The profile persists across restarts unless guest mode is on;
// the token is cleared on logout and never saved in guest mode.
type Session struct {
	db      *localdb.DB
	current *model.User
	token   string
	guest   bool
}

func New(db *localdb.DB) *Session { return &Session{db: db} }

// Login establishes the session. The profile is saved durably unless guest
// mode is active; the token always survives for the session's lifetime.
func (s *Session) Login(ctx context.Context, u model.User, token string) {
	s.current = &u
	s.token = token
	if !s.guest {
		if err := s.db.SaveProfile(ctx, u); err != nil {
			logging.Error("session_save_profile", map[string]any{"error": err.Error()})
		}
	}
	if token != "" {
		if err := s.db.SetKV(ctx, tokenKey, token); err != nil {
			logging.Error("session_save_token", map[string]any{"error": err.Error()})
		}
	}
}

// Logout clears the identity, the token, the guest flag, and storage.
// It never fails; storage errors are logged and swallowed.
func (s *Session) Logout(ctx context.Context) {
	s.current = nil
	s.token = ""
	s.guest = false
	if err := s.db.ClearProfile(ctx); err != nil {
		logging.Error("session_clear_profile", map[string]any{"error": err.Error()})
	}
	if err := s.db.DeleteKV(ctx, tokenKey); err != nil {
		logging.Error("session_clear_token", map[string]any{"error": err.Error()})
	}
}

// Restore re-establishes the session from storage: it needs both a saved
// profile and a saved token. Undecodable state is treated as absent and
// cleared, never surfaced as an error.
func (s *Session) Restore(ctx context.Context) (model.User, bool) {
	u, err := s.db.LoadProfile(ctx)
	if err != nil {
		if err != localdb.ErrNoProfile {
			logging.Warn("session_restore", map[string]any{"error": err.Error()})
		}
		_ = s.db.DeleteKV(ctx, tokenKey)
		return model.User{}, false
	}
	token, err := s.db.GetKV(ctx, tokenKey)
	if err != nil || token == "" {
		return model.User{}, false
	}
	s.current = &u
	s.token = token
	return u, true
}

// IsAuthenticated reports whether a current user is set.
func (s *Session) IsAuthenticated() bool { return s.current != nil }

// Current returns the session user, or nil.
func (s *Session) Current() *model.User { return s.current }

// Handle returns the session user's canonical handle, or "".
func (s *Session) Handle() string {
	if s.current == nil {
		return ""
	}
	return s.current.Username
}

// Token returns the bearer token, or "".
func (s *Session) Token() string { return s.token }

// IsGuest reports whether the session is in guest mode.
func (s *Session) IsGuest() bool { return s.guest }

// SetGuest toggles guest mode. Turning it on before Login keeps the guest
// profile out of durable storage.
func (s *Session) SetGuest(on bool) { s.guest = on }

// GuestUser is the identity used by the guest-mode toggle.
func GuestUser() model.User {
	return model.User{
		Email:    "guest@chiche.app",
		Name:     "Guest User",
		Username: "@guest",
		Bio:      "Testing in guest mode",
	}
}
