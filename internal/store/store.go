package store

import (
	"github.com/RoyDesCraft/chiche-client/internal/model"
)

// Store is the in-memory entity store for one browsing session: the feed,
// known users, conversations keyed by the other participant, and the active
// user's live notification list with its unread counters.
//
// It only guarantees id uniqueness and ordering. Cross-entity invariants
// (counts, fan-out, the follow graph staying symmetric) belong to the
// mutation operations in internal/feed.
type Store struct {
	posts   []*model.Post
	postIdx map[string]*model.Post
	users   map[string]*model.User

	convos     map[string][]model.Message
	convoOrder []string
	msgSeq     int64
	lastSeq    map[string]int64

	notifs       []model.Notification
	unreadNotifs int
	unreadMsgs   int
}

func New() *Store {
	return &Store{
		postIdx: make(map[string]*model.Post),
		users:   make(map[string]*model.User),
		convos:  make(map[string][]model.Message),
		lastSeq: make(map[string]int64),
	}
}

// AddPostHead inserts a post at the head of the feed. Duplicate ids are
// rejected by returning false.
func (s *Store) AddPostHead(p *model.Post) bool {
	if _, ok := s.postIdx[p.ID]; ok {
		return false
	}
	s.posts = append([]*model.Post{p}, s.posts...)
	s.postIdx[p.ID] = p
	return true
}

// AddPostTail appends a post, used when loading seed or fetched data that
// is already ordered newest-first.
func (s *Store) AddPostTail(p *model.Post) bool {
	if _, ok := s.postIdx[p.ID]; ok {
		return false
	}
	s.posts = append(s.posts, p)
	s.postIdx[p.ID] = p
	return true
}

// Post returns the post with the given id, or nil.
func (s *Store) Post(id string) *model.Post { return s.postIdx[id] }

// HasPost and HasUser satisfy the router's resolver.
func (s *Store) HasPost(id string) bool     { return s.postIdx[id] != nil }
func (s *Store) HasUser(handle string) bool { return s.users[handle] != nil }

// Posts returns the feed slice, newest-first. Callers must not reorder it.
func (s *Store) Posts() []*model.Post { return s.posts }

// PutUser registers a user, overwriting any previous entry for the handle.
func (s *Store) PutUser(u *model.User) { s.users[u.Username] = u }

// User returns the user for a canonical handle, or nil.
func (s *Store) User(handle string) *model.User { return s.users[handle] }

// EnsureUser returns the user for the handle, creating a bare record if the
// handle is new (authors of seed posts, message peers).
func (s *Store) EnsureUser(handle, name string) *model.User {
	if u, ok := s.users[handle]; ok {
		return u
	}
	u := &model.User{Username: handle, Name: name}
	s.users[handle] = u
	return u
}

// Conversation returns the messages with the given peer, oldest first.
func (s *Store) Conversation(peer string) []model.Message { return s.convos[peer] }

// ConversationPeers returns peers in first-contact order.
func (s *Store) ConversationPeers() []string { return s.convoOrder }

// AppendMessage adds a message to the conversation with peer.
func (s *Store) AppendMessage(peer string, m model.Message) {
	if _, ok := s.convos[peer]; !ok {
		s.convoOrder = append(s.convoOrder, peer)
	}
	s.convos[peer] = append(s.convos[peer], m)
	s.msgSeq++
	s.lastSeq[peer] = s.msgSeq
}

// LastActivity returns a monotonic sequence for the peer's latest message;
// higher means more recent. Zero means no messages.
func (s *Store) LastActivity(peer string) int64 { return s.lastSeq[peer] }

// FindMessage locates a message in the conversation with peer.
func (s *Store) FindMessage(peer, id string) (model.Message, bool) {
	for _, m := range s.convos[peer] {
		if m.ID == id {
			return m, true
		}
	}
	return model.Message{}, false
}

// MarkMessagesRead flags all messages in the peer conversation that are
// addressed to the given handle.
func (s *Store) MarkMessagesRead(peer, to string) {
	msgs := s.convos[peer]
	for i := range msgs {
		if msgs[i].ToHandle == to {
			msgs[i].Read = true
		}
	}
}

// CountUnreadMessages recounts unread messages addressed to the handle
// across every conversation. A full recount keeps the badge honest even if
// an incremental counter drifted.
func (s *Store) CountUnreadMessages(to string) int {
	n := 0
	for _, msgs := range s.convos {
		for _, m := range msgs {
			if m.ToHandle == to && !m.Read {
				n++
			}
		}
	}
	return n
}

// SetUnreadMessages sets the live unread-message badge.
func (s *Store) SetUnreadMessages(n int) { s.unreadMsgs = n }

// UnreadMessages returns the live unread-message badge.
func (s *Store) UnreadMessages() int { return s.unreadMsgs }

// LoadNotifications replaces the live notification list, e.g. on session
// restore from durable storage.
func (s *Store) LoadNotifications(ns []model.Notification) {
	s.notifs = append([]model.Notification(nil), ns...)
	s.unreadNotifs = 0
	for _, n := range ns {
		if !n.Read {
			s.unreadNotifs++
		}
	}
}

// AppendNotification adds a live record and bumps the unread counter.
func (s *Store) AppendNotification(n model.Notification) {
	s.notifs = append(s.notifs, n)
	if !n.Read {
		s.unreadNotifs++
	}
}

// Notifications returns the live list, oldest first.
func (s *Store) Notifications() []model.Notification { return s.notifs }

// UnreadNotifications returns the live unread badge.
func (s *Store) UnreadNotifications() int { return s.unreadNotifs }

// MarkNotificationRead flags one live record and adjusts the counter.
// It reports whether the id was found unread.
func (s *Store) MarkNotificationRead(id string) bool {
	for i := range s.notifs {
		if s.notifs[i].ID == id {
			if !s.notifs[i].Read {
				s.notifs[i].Read = true
				s.unreadNotifs--
				return true
			}
			return false
		}
	}
	return false
}

// MarkAllNotificationsRead flags every live record and zeroes the counter.
func (s *Store) MarkAllNotificationsRead() {
	for i := range s.notifs {
		s.notifs[i].Read = true
	}
	s.unreadNotifs = 0
}

// ResetSessionViews clears the per-session view flags and live lists:
// liked/reposted markers belong to the session user, not the post.
func (s *Store) ResetSessionViews() {
	for _, p := range s.posts {
		p.Liked = false
		p.Reposted = false
		for i := range p.Comments {
			p.Comments[i].Liked = false
		}
	}
	s.notifs = nil
	s.unreadNotifs = 0
	s.unreadMsgs = 0
}
