package store

import (
	"testing"

	"github.com/RoyDesCraft/chiche-client/internal/model"
)

func TestPostOrderingAndDuplicates(t *testing.T) {
	s := New()
	if !s.AddPostTail(&model.Post{ID: "1", Text: "seed"}) {
		t.Fatal("tail insert rejected")
	}
	if !s.AddPostHead(&model.Post{ID: "2", Text: "fresh"}) {
		t.Fatal("head insert rejected")
	}
	if s.AddPostHead(&model.Post{ID: "1"}) || s.AddPostTail(&model.Post{ID: "2"}) {
		t.Fatal("duplicate id accepted")
	}
	posts := s.Posts()
	if len(posts) != 2 || posts[0].ID != "2" || posts[1].ID != "1" {
		t.Fatalf("order: %+v", posts)
	}
	if s.Post("1") == nil || s.Post("missing") != nil {
		t.Fatal("lookup broken")
	}
	if !s.HasPost("2") || s.HasPost("3") {
		t.Fatal("HasPost broken")
	}
}

func TestNewPostIDsAreUniqueAndSortable(t *testing.T) {
	seen := make(map[string]bool)
	prev := ""
	for i := 0; i < 100; i++ {
		id := NewPostID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		if id < prev {
			t.Fatalf("ids not monotonic: %s then %s", prev, id)
		}
		prev = id
	}
}

func TestEnsureUserKeepsExisting(t *testing.T) {
	s := New()
	s.PutUser(&model.User{Username: "@ana", Name: "Ana", Bio: "original"})
	u := s.EnsureUser("@ana", "Other Name")
	if u.Bio != "original" || u.Name != "Ana" {
		t.Fatalf("ensure overwrote: %+v", u)
	}
	v := s.EnsureUser("@new", "New User")
	if v.Username != "@new" || !s.HasUser("@new") {
		t.Fatalf("ensure did not create: %+v", v)
	}
}

func TestLastActivityTracksAppends(t *testing.T) {
	s := New()
	s.AppendMessage("@sara", model.Message{ID: "m1"})
	s.AppendMessage("@tom", model.Message{ID: "m2"})
	if s.LastActivity("@tom") <= s.LastActivity("@sara") {
		t.Fatal("later append not more recent")
	}
	s.AppendMessage("@sara", model.Message{ID: "m3"})
	if s.LastActivity("@sara") <= s.LastActivity("@tom") {
		t.Fatal("recency not updated on append")
	}
	if s.LastActivity("@nobody") != 0 {
		t.Fatal("empty conversation has activity")
	}
	peers := s.ConversationPeers()
	if len(peers) != 2 || peers[0] != "@sara" {
		t.Fatalf("peers: %v", peers)
	}
}

func TestResetSessionViews(t *testing.T) {
	s := New()
	s.AddPostTail(&model.Post{
		ID: "1", Liked: true, Reposted: true,
		Comments: []model.Comment{{ID: "c1", Liked: true}},
	})
	s.AppendNotification(model.Notification{ID: "n1"})
	s.SetUnreadMessages(4)

	s.ResetSessionViews()
	p := s.Post("1")
	if p.Liked || p.Reposted || p.Comments[0].Liked {
		t.Fatalf("flags survived: %+v", p)
	}
	if len(s.Notifications()) != 0 || s.UnreadNotifications() != 0 || s.UnreadMessages() != 0 {
		t.Fatal("live lists survived reset")
	}
}

func TestNotificationCounters(t *testing.T) {
	s := New()
	s.LoadNotifications([]model.Notification{
		{ID: "n1", Read: true},
		{ID: "n2"},
		{ID: "n3"},
	})
	if s.UnreadNotifications() != 2 {
		t.Fatalf("unread after load: %d", s.UnreadNotifications())
	}
	if !s.MarkNotificationRead("n2") {
		t.Fatal("mark failed")
	}
	if s.MarkNotificationRead("n2") || s.MarkNotificationRead("missing") {
		t.Fatal("mark reported change it did not make")
	}
	if s.UnreadNotifications() != 1 {
		t.Fatalf("unread: %d", s.UnreadNotifications())
	}
	s.MarkAllNotificationsRead()
	if s.UnreadNotifications() != 0 {
		t.Fatalf("unread after all: %d", s.UnreadNotifications())
	}
}
