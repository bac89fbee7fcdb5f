package feed

import (
	"errors"
	"testing"
)

func TestSendMessageAppendsUnread(t *testing.T) {
	app, _ := newTestApp(t)
	app.Store.EnsureUser("@sara", "Sara")
	loginAs(t, app, "ana@example.com")

	m, err := app.SendMessage("@sara", "hi there", "")
	if err != nil {
		t.Fatal(err)
	}
	if m.Read {
		t.Fatal("new message born read")
	}
	if m.FromHandle != "@ana" || m.ToHandle != "@sara" {
		t.Fatalf("addressing: %+v", m)
	}
	msgs := app.Store.Conversation("@sara")
	if len(msgs) != 1 || msgs[0].Text != "hi there" {
		t.Fatalf("conversation: %+v", msgs)
	}
}

func TestSendMessageValidation(t *testing.T) {
	app, _ := newTestApp(t)
	app.Store.EnsureUser("@sara", "Sara")
	loginAs(t, app, "ana@example.com")

	var rej *Rejection
	if _, err := app.SendMessage("@sara", "   ", ""); !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
	var nf *NotFoundError
	if _, err := app.SendMessage("@ghost", "boo", ""); !errors.As(err, &nf) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestReplyToResolvesWithinConversationOnly(t *testing.T) {
	app, _ := newTestApp(t)
	app.Store.EnsureUser("@sara", "Sara")
	app.Store.EnsureUser("@tom", "Tom")
	loginAs(t, app, "ana@example.com")

	first, err := app.SendMessage("@sara", "original", "")
	if err != nil {
		t.Fatal(err)
	}
	reply, err := app.SendMessage("@sara", "that one", first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reply.ReplyTo != first.ID {
		t.Fatalf("reply reference lost: %+v", reply)
	}
	// a reference into a different conversation degrades to a plain message
	cross, err := app.SendMessage("@tom", "hello", first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cross.ReplyTo != "" {
		t.Fatalf("cross-conversation reply kept: %+v", cross)
	}
	// a bogus id does the same
	bogus, _ := app.SendMessage("@sara", "again", "nope")
	if bogus.ReplyTo != "" {
		t.Fatalf("bogus reply kept: %+v", bogus)
	}
}

func TestMarkConversationReadRecountsGlobally(t *testing.T) {
	app, _ := newTestApp(t)
	app.Store.EnsureUser("@sara", "Sara")
	app.Store.EnsureUser("@tom", "Tom")
	loginAs(t, app, "ana@example.com")

	app.ReceiveMessage("@sara", "one", "")
	app.ReceiveMessage("@sara", "two", "")
	app.ReceiveMessage("@tom", "three", "")
	if got := app.Store.UnreadMessages(); got != 3 {
		t.Fatalf("unread=%d", got)
	}

	if err := app.MarkConversationRead("@sara"); err != nil {
		t.Fatal(err)
	}
	if got := app.Store.UnreadMessages(); got != 1 {
		t.Fatalf("unread after read=%d", got)
	}
	for _, m := range app.Store.Conversation("@sara") {
		if m.ToHandle == "@ana" && !m.Read {
			t.Fatalf("message still unread: %+v", m)
		}
	}
	// reading the same conversation again is a no-op, not a drift
	if err := app.MarkConversationRead("@sara"); err != nil {
		t.Fatal(err)
	}
	if got := app.Store.UnreadMessages(); got != 1 {
		t.Fatalf("unread drifted to %d", got)
	}
}

func TestReceiveMessageRequiresSession(t *testing.T) {
	app, _ := newTestApp(t)
	if m := app.ReceiveMessage("@sara", "hi", ""); m != nil {
		t.Fatal("message received without a session")
	}
}
