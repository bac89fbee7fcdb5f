package render

import (
	"testing"

	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/store"
)

func TestPollPercentagesRound(t *testing.T) {
	p := &model.Post{
		ID: "p1",
		Poll: &model.Poll{
			TotalVotes: 3,
			Options: []model.PollOption{
				{Text: "Red", VoteCount: 2, Voters: []string{"@a", "@b"}},
				{Text: "Blue", VoteCount: 1, Voters: []string{"@c"}},
			},
		},
	}
	v := PollFor(p, "@a", true)
	if !v.ShowResults {
		t.Fatal("voter should see results")
	}
	if v.Options[0].Percent != 67 || v.Options[1].Percent != 33 {
		t.Fatalf("percents: %+v", v.Options)
	}
	if v.TotalVotes != 3 {
		t.Fatalf("total: %d", v.TotalVotes)
	}
}

func TestPollForcedToButtonsWhenUnauthenticated(t *testing.T) {
	p := &model.Post{
		ID:   "p1",
		Poll: &model.Poll{TotalVotes: 1, Options: []model.PollOption{{Text: "Red", VoteCount: 1, Voters: []string{"@a"}}, {Text: "Blue"}}},
	}
	// even the voter's own handle shows buttons when logged out
	if v := PollFor(p, "@a", false); v.ShowResults {
		t.Fatal("unauthenticated viewer saw results")
	}
	if PollFor(&model.Post{ID: "p2"}, "@a", true) != nil {
		t.Fatal("non-poll post produced a poll view")
	}
}

func TestPollEmptyTotalsDivideSafely(t *testing.T) {
	p := &model.Post{ID: "p1", Poll: &model.Poll{Options: []model.PollOption{{Text: "Red"}, {Text: "Blue"}}}}
	v := PollFor(p, "@a", true)
	for _, row := range v.Options {
		if row.Percent != 0 {
			t.Fatalf("percent on empty poll: %+v", row)
		}
	}
}

func TestFeedProjectionCarriesTags(t *testing.T) {
	posts := []*model.Post{
		{ID: "1", AuthorHandle: "@a", Text: "x", Tags: model.Tags{Location: "paris", Type: "question"}},
		{ID: "2", AuthorHandle: "@b", Text: "y"},
	}
	items := Feed(posts)
	if len(items) != 2 {
		t.Fatalf("items: %d", len(items))
	}
	if len(items[0].TagChips) != 2 || items[0].TagChips[0] != "paris" {
		t.Fatalf("chips: %v", items[0].TagChips)
	}
	if len(items[1].TagChips) != 0 {
		t.Fatalf("chips: %v", items[1].TagChips)
	}
}

func TestConversationListOrdersByRecency(t *testing.T) {
	s := store.New()
	s.EnsureUser("@sara", "Sara")
	s.EnsureUser("@tom", "Tom")
	s.AppendMessage("@sara", model.Message{ID: "m1", FromHandle: "@sara", ToHandle: "@me", Text: "first", Read: true})
	s.AppendMessage("@tom", model.Message{ID: "m2", FromHandle: "@tom", ToHandle: "@me", Text: "second"})
	s.AppendMessage("@sara", model.Message{ID: "m3", FromHandle: "@sara", ToHandle: "@me", Text: "third"})

	rows := ConversationList(s, "@me")
	if len(rows) != 2 {
		t.Fatalf("rows: %d", len(rows))
	}
	if rows[0].Peer != "@sara" || rows[0].LastText != "third" {
		t.Fatalf("most recent first: %+v", rows[0])
	}
	if rows[0].Unread != 1 || rows[1].Unread != 1 {
		t.Fatalf("unread counts: %+v", rows)
	}
	if rows[0].PeerName != "Sara" {
		t.Fatalf("peer name: %+v", rows[0])
	}
}

func TestConversationViewResolvesQuotes(t *testing.T) {
	s := store.New()
	s.AppendMessage("@sara", model.Message{ID: "m1", FromHandle: "@me", ToHandle: "@sara", Text: "original"})
	s.AppendMessage("@sara", model.Message{ID: "m2", FromHandle: "@sara", ToHandle: "@me", Text: "reply", ReplyTo: "m1"})

	rows := ConversationView(s, "@me", "@sara")
	if len(rows) != 2 {
		t.Fatalf("rows: %d", len(rows))
	}
	if !rows[0].Mine || rows[1].Mine {
		t.Fatalf("mine flags: %+v", rows)
	}
	if rows[1].QuotedText != "original" {
		t.Fatalf("quote: %+v", rows[1])
	}
}

func TestSearchPosts(t *testing.T) {
	posts := []*model.Post{
		{ID: "1", AuthorHandle: "@sarahchen", AuthorName: "Sarah Chen", Text: "Loving the new design"},
		{ID: "2", AuthorHandle: "@alexr", AuthorName: "Alex Rivera", Text: "Anyone tried the poll feature?"},
	}
	if got := SearchPosts(posts, "DESIGN"); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("text match: %+v", got)
	}
	if got := SearchPosts(posts, "sarah"); len(got) != 1 {
		t.Fatalf("author match: %+v", got)
	}
	if got := SearchPosts(posts, "   "); got != nil {
		t.Fatalf("blank query: %+v", got)
	}
	if got := SearchPosts(posts, "zebra"); len(got) != 0 {
		t.Fatalf("no-match: %+v", got)
	}
}

func TestBadgesAndNotificationOrder(t *testing.T) {
	s := store.New()
	s.AppendNotification(model.Notification{ID: "n1", Message: "older"})
	s.AppendNotification(model.Notification{ID: "n2", Message: "newer"})
	s.SetUnreadMessages(3)

	b := BadgesFor(s)
	if b.Notifications != 2 || b.Messages != 3 {
		t.Fatalf("badges: %+v", b)
	}
	rows := NotificationList(s)
	if rows[0].ID != "n2" {
		t.Fatalf("newest first: %+v", rows)
	}
}

func TestProfileCounts(t *testing.T) {
	u := &model.User{Username: "@ana", Name: "Ana", Bio: "hi", Followers: []string{"@b", "@c"}, Following: []string{"@b"}}
	posts := []*model.Post{
		{ID: "1", AuthorHandle: "@ana"},
		{ID: "2", AuthorHandle: "@bob"},
		{ID: "3", AuthorHandle: "@ana"},
	}
	v := Profile(u, posts)
	if v.Followers != 2 || v.Following != 1 || v.Posts != 2 {
		t.Fatalf("profile: %+v", v)
	}
}
