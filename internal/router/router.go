package router

import (
	"strings"
	"time"

	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
)

// Kind identifies a view. The first block are top-level tabs; the second
// are dynamic views that overlay the tab content area.
type Kind int

const (
	KindHome Kind = iota
	KindSearch
	KindNotifications
	KindMessages
	KindProfile
	KindSettings
	KindLogin

	KindPostDetail
	KindUserProfile
	KindConversation
)

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "home"
	case KindSearch:
		return "search"
	case KindNotifications:
		return "notifications"
	case KindMessages:
		return "messages"
	case KindProfile:
		return "profile"
	case KindSettings:
		return "settings"
	case KindLogin:
		return "login"
	case KindPostDetail:
		return "post"
	case KindUserProfile:
		return "user"
	case KindConversation:
		return "conversation"
	}
	return "home"
}

// IsDynamic reports whether the kind is an overlay view rather than a tab.
func (k Kind) IsDynamic() bool {
	return k == KindPostDetail || k == KindUserProfile || k == KindConversation
}

// View is a Kind plus its argument: a post id, or a handle.
type View struct {
	Kind Kind
	Arg  string
}

// Resolver answers existence checks so navigation to a missing entity can
// fall back instead of presenting an empty view.
type Resolver interface {
	HasPost(id string) bool
	HasUser(handle string) bool
}

// Scheduler defers a callback; the event loop implements it.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Hooks are the router's outward effects on view entry.
type Hooks struct {
	// MarkAllRead clears unread notification markers. Called a beat after
	// the notifications tab opens, so the user sees them first.
	MarkAllRead func()
	// RefreshMessages re-renders the conversation list.
	RefreshMessages func()
}

// Router maps locations to views and back. It holds the active tab plus at
// most one dynamic overlay, and a history stack for back navigation.
type Router struct {
	resolver  Resolver
	sched     Scheduler
	hooks     Hooks
	readDelay time.Duration

	tab     View
	overlay *View
	history []string
}

func New(resolver Resolver, sched Scheduler, readDelay time.Duration, hooks Hooks) *Router {
	return &Router{
		resolver:  resolver,
		sched:     sched,
		hooks:     hooks,
		readDelay: readDelay,
		tab:       View{Kind: KindHome},
	}
}

// ParsePath maps a location path to a view. Unrecognized paths map to Home
// with ok=false.
func ParsePath(path string) (View, bool) {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return View{Kind: KindHome}, true
	}
	switch path {
	case "/home":
		return View{Kind: KindHome}, true
	case "/search":
		return View{Kind: KindSearch}, true
	case "/notifications":
		return View{Kind: KindNotifications}, true
	case "/messages":
		return View{Kind: KindMessages}, true
	case "/profile":
		return View{Kind: KindProfile}, true
	case "/settings":
		return View{Kind: KindSettings}, true
	case "/login":
		return View{Kind: KindLogin}, true
	}
	if id, ok := strings.CutPrefix(path, "/post/"); ok && id != "" && !strings.Contains(id, "/") {
		return View{Kind: KindPostDetail, Arg: id}, true
	}
	if h, ok := strings.CutPrefix(path, "/user/@"); ok && h != "" && !strings.Contains(h, "/") {
		return View{Kind: KindUserProfile, Arg: model.CanonicalHandle(h)}, true
	}
	return View{Kind: KindHome}, false
}

// PathFor is the reverse mapping. Conversations have no location of their
// own and share the messages path.
func PathFor(v View) string {
	switch v.Kind {
	case KindHome:
		return "/home"
	case KindPostDetail:
		return "/post/" + v.Arg
	case KindUserProfile:
		return "/user/" + model.CanonicalHandle(v.Arg)
	case KindConversation:
		return "/messages"
	default:
		return "/" + v.Kind.String()
	}
}

// Start derives the initial view from the load-time location.
func (r *Router) Start(path string) string {
	v, ok := ParsePath(path)
	if !ok {
		r.tab = View{Kind: KindHome}
		r.history = append(r.history, PathFor(r.tab))
		return ""
	}
	return r.Navigate(v)
}

// Navigate enters a view and records its location. Entering a dynamic view
// replaces any other dynamic view; entering a tab tears down all of them.
// The returned string is a user-facing message ("" when nothing to say),
// e.g. for a post or user that no longer exists.
func (r *Router) Navigate(v View) string {
	msg := ""
	switch v.Kind {
	case KindPostDetail:
		if r.resolver != nil && !r.resolver.HasPost(v.Arg) {
			v = View{Kind: KindHome}
			msg = "Post not found"
		}
	case KindUserProfile:
		if r.resolver != nil && !r.resolver.HasUser(v.Arg) {
			v = View{Kind: KindHome}
			msg = "User not found"
		}
	case KindConversation:
		if r.resolver != nil && !r.resolver.HasUser(v.Arg) {
			v = View{Kind: KindMessages}
			msg = "User not found"
		}
	}
	r.enter(v)
	r.push(PathFor(v))
	return msg
}

// NavigatePath is Navigate from a raw location path.
func (r *Router) NavigatePath(path string) string {
	v, _ := ParsePath(path)
	return r.Navigate(v)
}

// Back pops the history and restores the previous view without recording
// a new location. It reports whether there was anywhere to go.
func (r *Router) Back() bool {
	if len(r.history) < 2 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	v, _ := ParsePath(r.history[len(r.history)-1])
	r.enter(v)
	return true
}

// Current returns the visible view: the overlay if one is up, else the tab.
func (r *Router) Current() View {
	if r.overlay != nil {
		return *r.overlay
	}
	return r.tab
}

// Path returns the recorded location of the current view.
func (r *Router) Path() string {
	if len(r.history) == 0 {
		return PathFor(r.Current())
	}
	return r.history[len(r.history)-1]
}

func (r *Router) enter(v View) {
	if v.Kind.IsDynamic() {
		ov := v
		r.overlay = &ov
	} else {
		r.tab = v
		r.overlay = nil
	}
	metrics.IncNavigation(v.Kind.String())
	switch v.Kind {
	case KindNotifications:
		if r.hooks.MarkAllRead != nil && r.sched != nil {
			r.sched.After(r.readDelay, func() {
				// the user may have moved on before the timer fired
				if r.Current().Kind == KindNotifications {
					r.hooks.MarkAllRead()
				}
			})
		}
	case KindMessages:
		if r.hooks.RefreshMessages != nil {
			r.hooks.RefreshMessages()
		}
	}
}

func (r *Router) push(path string) {
	if n := len(r.history); n > 0 && r.history[n-1] == path {
		return
	}
	r.history = append(r.history, path)
}
