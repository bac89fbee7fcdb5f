package feed

import (
	"context"

	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
)

// ToggleFollow adds or removes the edge from the session user to target.
// Both directions of the edge change together: the actor's following list,
// the target's followers list, and the single durable edge row. A new
// follow notifies the target.
func (a *App) ToggleFollow(ctx context.Context, target string) (following bool, err error) {
	if err := a.requireAuth("follow"); err != nil {
		return false, err
	}
	target = model.CanonicalHandle(target)
	me := a.Session.Current()
	if target == me.Username {
		return false, reject("follow", "self_follow", "You cannot follow yourself")
	}
	tu := a.Store.User(target)
	if tu == nil {
		return false, &NotFoundError{Kind: "user", ID: target}
	}
	if me.IsFollowing(target) {
		me.Following = removeString(me.Following, target)
		tu.Followers = removeString(tu.Followers, me.Username)
		if err := a.DB.SetFollow(ctx, me.Username, target, false); err != nil {
			// put the in-memory edge back so both views stay in step
			me.Following = append(me.Following, target)
			tu.Followers = append(tu.Followers, me.Username)
			return true, err
		}
		metrics.IncMutation("unfollow")
		return false, nil
	}
	me.Following = append(me.Following, target)
	tu.Followers = append(tu.Followers, me.Username)
	if err := a.DB.SetFollow(ctx, me.Username, target, true); err != nil {
		me.Following = removeString(me.Following, target)
		tu.Followers = removeString(tu.Followers, me.Username)
		return false, err
	}
	a.Notifier.Notify(ctx, target, model.NotifyFollow, me.Username, "")
	metrics.IncMutation("follow")
	return true, nil
}

func removeString(ss []string, s string) []string {
	out := ss[:0]
	for _, v := range ss {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
