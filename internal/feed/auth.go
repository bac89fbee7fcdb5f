package feed

import (
	"context"
	"strings"

	"github.com/RoyDesCraft/chiche-client/internal/apiclient"
	"github.com/RoyDesCraft/chiche-client/internal/logging"
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/session"
	"github.com/RoyDesCraft/chiche-client/internal/util"
)

// defaultBio greets accounts that sign in before ever editing a profile.
const defaultBio = "Welcome to Chiche!"

// SignUp validates the form and creates the account on the backend. The
// caller is expected to follow up with LogIn; the backend does not return
// a token on signup.
func (a *App) SignUp(ctx context.Context, email, password, name, username string) error {
	if util.IsBlank(email) || password == "" || util.IsBlank(name) || util.IsBlank(username) {
		return reject("signup", "missing_fields", "Please fill in all fields")
	}
	if len(password) < 8 {
		return reject("signup", "short_password", "Password must be at least 8 characters")
	}
	if err := a.Backend.NewAccount(ctx, model.BareHandle(username), password, strings.TrimSpace(email)); err != nil {
		return err
	}
	logging.Info("signup", map[string]any{"username": model.CanonicalHandle(username)})
	return nil
}

// LogIn authenticates against the backend and establishes the session.
// The backend login identity is the local part of the email; the resulting
// handle is that name with the leading sigil.
func (a *App) LogIn(ctx context.Context, email, password string) (model.User, error) {
	if util.IsBlank(email) || password == "" {
		return model.User{}, reject("login", "missing_fields", "Please fill in all fields")
	}
	email = strings.TrimSpace(email)
	username := email
	if i := strings.Index(email, "@"); i >= 0 {
		username = email[:i]
	}
	token, err := a.Backend.Login(ctx, username, password)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Email:    email,
		Name:     username,
		Username: model.CanonicalHandle(username),
		Bio:      defaultBio,
	}
	// Best effort: prefer the server's profile fields when it has them.
	if remote, err := a.Backend.GetUserData(ctx, token, u.Username); err == nil {
		if remote.Name != "" {
			u.Name = remote.Name
		}
		if remote.Bio != "" {
			u.Bio = remote.Bio
		}
		if remote.Picture != "" {
			u.Picture = remote.Picture
		}
	}
	a.completeLogin(ctx, u, token)
	return u, nil
}

// LogInWithGoogle exchanges a Google ID token for a backend session. The
// local profile comes from the token's own claims, as in the web client.
func (a *App) LogInWithGoogle(ctx context.Context, idToken string) (model.User, error) {
	claims, err := apiclient.GoogleClaims(idToken)
	if err != nil {
		return model.User{}, err
	}
	token, err := a.Backend.LoginWithGoogle(ctx, idToken)
	if err != nil {
		return model.User{}, err
	}
	u := apiclient.GoogleUser(claims)
	a.completeLogin(ctx, u, token)
	return u, nil
}

// ToggleGuestMode switches the whole session into or out of the throwaway
// guest identity. Nothing a guest does is persisted as a profile.
func (a *App) ToggleGuestMode(ctx context.Context, on bool) {
	if on {
		a.Session.SetGuest(true)
		a.completeLogin(ctx, session.GuestUser(), "")
		return
	}
	a.LogOut(ctx)
}

// LogOut tears the session down and clears every per-session view flag.
func (a *App) LogOut(ctx context.Context) {
	a.Session.Logout(ctx)
	a.Store.ResetSessionViews()
	logging.Info("logout", nil)
}

// RestoreSession re-establishes a persisted session on startup, then
// hydrates the live store from durable storage.
func (a *App) RestoreSession(ctx context.Context) (model.User, bool) {
	u, ok := a.Session.Restore(ctx)
	if !ok {
		return model.User{}, false
	}
	a.hydrateSessionState(ctx)
	return u, true
}

// completeLogin is shared by all sign-in paths: the per-session view flags
// of any previous identity are cleared before the new one hydrates.
func (a *App) completeLogin(ctx context.Context, u model.User, token string) {
	a.Store.ResetSessionViews()
	a.Session.Login(ctx, u, token)
	a.hydrateSessionState(ctx)
	logging.Info("login", map[string]any{"username": u.Username, "guest": a.Session.IsGuest()})
}

// UpdateProfile applies the settings form. The username is immutable; only
// name, bio, and email change. When a token is present the update goes to
// the backend first, and a backend failure leaves local state untouched.
func (a *App) UpdateProfile(ctx context.Context, name, bio, email string) (model.User, error) {
	if err := a.requireAuth("profile"); err != nil {
		return model.User{}, err
	}
	if util.IsBlank(name) || util.IsBlank(email) {
		return model.User{}, reject("profile", "missing_fields", "Please fill in required fields")
	}
	me := a.Session.Current()
	if token := a.Session.Token(); token != "" {
		upd := apiclient.ProfileUpdate{Bio: strings.TrimSpace(bio), Email: strings.TrimSpace(email), ProfilePicture: me.Picture}
		if err := a.Backend.UpdateUserData(ctx, token, me.Username, upd); err != nil {
			return model.User{}, err
		}
	}
	me.Name = strings.TrimSpace(name)
	me.Bio = strings.TrimSpace(bio)
	me.Email = strings.TrimSpace(email)
	if !a.Session.IsGuest() {
		if err := a.DB.SaveProfile(ctx, *me); err != nil {
			logging.Error("profile_save", map[string]any{"error": err.Error()})
		}
	}
	a.Store.PutUser(me)
	return *me, nil
}
