package feed

import (
	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/store"
	"github.com/RoyDesCraft/chiche-client/internal/util"
)

// SendMessage appends a direct message to the conversation with the given
// peer. A replyTo id that does not resolve to a message in that same
// conversation is dropped silently; the message still sends as a plain one.
func (a *App) SendMessage(to, text, replyTo string) (*model.Message, error) {
	if err := a.requireAuth("message"); err != nil {
		return nil, err
	}
	if util.IsBlank(text) {
		return nil, reject("message", "empty_text", "Message cannot be empty")
	}
	to = model.CanonicalHandle(to)
	if a.Store.User(to) == nil {
		return nil, &NotFoundError{Kind: "user", ID: to}
	}
	if replyTo != "" {
		if _, ok := a.Store.FindMessage(to, replyTo); !ok {
			replyTo = ""
		}
	}
	m := model.Message{
		ID:           store.NewID(),
		FromHandle:   a.Session.Handle(),
		ToHandle:     to,
		Text:         text,
		CreatedLabel: "Just now",
		Read:         false,
		ReplyTo:      replyTo,
	}
	a.Store.AppendMessage(to, m)
	metrics.IncMutation("message")
	return &m, nil
}

// ReceiveMessage records an inbound message from a peer, e.g. the demo's
// simulated auto-reply, and refreshes the unread badge with a full recount.
func (a *App) ReceiveMessage(from, text, replyTo string) *model.Message {
	me := a.Session.Handle()
	if me == "" {
		return nil
	}
	from = model.CanonicalHandle(from)
	if replyTo != "" {
		if _, ok := a.Store.FindMessage(from, replyTo); !ok {
			replyTo = ""
		}
	}
	m := model.Message{
		ID:           store.NewID(),
		FromHandle:   from,
		ToHandle:     me,
		Text:         text,
		CreatedLabel: "Just now",
		Read:         false,
		ReplyTo:      replyTo,
	}
	a.Store.AppendMessage(from, m)
	a.Store.SetUnreadMessages(a.Store.CountUnreadMessages(me))
	return &m
}

// MarkConversationRead flags every message the peer sent to the session
// user, then recomputes the global unread badge from scratch. A recount,
// not a decrement: the badge can never drift from the flags.
func (a *App) MarkConversationRead(peer string) error {
	if err := a.requireAuth("message_read"); err != nil {
		return err
	}
	peer = model.CanonicalHandle(peer)
	me := a.Session.Handle()
	a.Store.MarkMessagesRead(peer, me)
	a.Store.SetUnreadMessages(a.Store.CountUnreadMessages(me))
	return nil
}
