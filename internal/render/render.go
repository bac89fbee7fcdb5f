package render

import (
	"sort"

	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/store"
	"github.com/RoyDesCraft/chiche-client/internal/util"
)

// This package projects store state into display rows. It never mutates
// anything; all writes go through the operations in internal/feed.

// FeedItem is one rendered post row.
type FeedItem struct {
	ID           string
	AuthorName   string
	AuthorHandle string
	Text         string
	CreatedLabel string
	Likes        int
	Reposts      int
	Comments     int
	Liked        bool
	Reposted     bool
	TagChips     []string
}

// Feed projects the post list in feed order.
func Feed(posts []*model.Post) []FeedItem {
	out := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		out = append(out, feedItem(p))
	}
	return out
}

func feedItem(p *model.Post) FeedItem {
	it := FeedItem{
		ID:           p.ID,
		AuthorName:   p.AuthorName,
		AuthorHandle: p.AuthorHandle,
		Text:         p.Text,
		CreatedLabel: p.CreatedLabel,
		Likes:        p.LikeCount,
		Reposts:      p.RepostCount,
		Comments:     p.CommentCount,
		Liked:        p.Liked,
		Reposted:     p.Reposted,
	}
	if p.Tags.Location != "" {
		it.TagChips = append(it.TagChips, p.Tags.Location)
	}
	if p.Tags.Topic != "" {
		it.TagChips = append(it.TagChips, p.Tags.Topic)
	}
	if p.Tags.Type != "" {
		it.TagChips = append(it.TagChips, p.Tags.Type)
	}
	return it
}

// PollRow is one option row in a poll projection.
type PollRow struct {
	Text    string
	Votes   int
	Percent int
}

// PollView is the poll as one viewer sees it. ShowResults selects result
// bars over choice buttons; it flips permanently once the viewer votes and
// is always false for unauthenticated viewers.
type PollView struct {
	ShowResults bool
	TotalVotes  int
	Options     []PollRow
}

// PollFor projects a post's poll for a viewer, or nil if the post has none.
// Eligibility is computed from the viewer identity at call time, so it is
// re-evaluated whenever the viewer changes.
func PollFor(p *model.Post, viewer string, authenticated bool) *PollView {
	if p == nil || p.Poll == nil {
		return nil
	}
	v := &PollView{
		ShowResults: authenticated && p.Poll.HasVoted(viewer),
		TotalVotes:  p.Poll.TotalVotes,
	}
	for _, opt := range p.Poll.Options {
		pct := 0
		if p.Poll.TotalVotes > 0 {
			pct = (opt.VoteCount*100 + p.Poll.TotalVotes/2) / p.Poll.TotalVotes
		}
		v.Options = append(v.Options, PollRow{Text: opt.Text, Votes: opt.VoteCount, Percent: pct})
	}
	return v
}

// Badges are the sidebar unread counters.
type Badges struct {
	Notifications int
	Messages      int
}

func BadgesFor(s *store.Store) Badges {
	return Badges{Notifications: s.UnreadNotifications(), Messages: s.UnreadMessages()}
}

// NotificationRow is one row of the notifications tab, newest first.
type NotificationRow struct {
	ID           string
	Type         string
	Message      string
	CreatedLabel string
	Read         bool
	PostID       string
}

func NotificationList(s *store.Store) []NotificationRow {
	ns := s.Notifications()
	out := make([]NotificationRow, 0, len(ns))
	for i := len(ns) - 1; i >= 0; i-- {
		n := ns[i]
		out = append(out, NotificationRow{
			ID:           n.ID,
			Type:         string(n.Type),
			Message:      n.Message,
			CreatedLabel: n.CreatedLabel,
			Read:         n.Read,
			PostID:       n.PostID,
		})
	}
	return out
}

// ConversationRow is one row of the conversation list.
type ConversationRow struct {
	Peer     string
	PeerName string
	LastText string
	Unread   int
}

// ConversationList orders conversations by the recency of their last
// message, newest first.
func ConversationList(s *store.Store, me string) []ConversationRow {
	peers := s.ConversationPeers()
	out := make([]ConversationRow, 0, len(peers))
	for _, peer := range peers {
		msgs := s.Conversation(peer)
		if len(msgs) == 0 {
			continue
		}
		row := ConversationRow{Peer: peer, LastText: msgs[len(msgs)-1].Text}
		if u := s.User(peer); u != nil {
			row.PeerName = u.Name
		}
		for _, m := range msgs {
			if m.ToHandle == me && !m.Read {
				row.Unread++
			}
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.LastActivity(out[i].Peer) > s.LastActivity(out[j].Peer)
	})
	return out
}

// MessageRow is one rendered message inside a conversation.
type MessageRow struct {
	ID           string
	From         string
	Text         string
	CreatedLabel string
	Mine         bool
	Read         bool
	// QuotedText carries the text of the replied-to message, if any.
	QuotedText string
}

// ConversationView projects one conversation for the session user.
func ConversationView(s *store.Store, me, peer string) []MessageRow {
	msgs := s.Conversation(peer)
	out := make([]MessageRow, 0, len(msgs))
	for _, m := range msgs {
		row := MessageRow{
			ID:           m.ID,
			From:         m.FromHandle,
			Text:         m.Text,
			CreatedLabel: m.CreatedLabel,
			Mine:         m.FromHandle == me,
			Read:         m.Read,
		}
		if m.ReplyTo != "" {
			if q, ok := s.FindMessage(peer, m.ReplyTo); ok {
				row.QuotedText = q.Text
			}
		}
		out = append(out, row)
	}
	return out
}

// SearchPosts filters the feed by text, author name, or handle.
func SearchPosts(posts []*model.Post, query string) []FeedItem {
	if util.IsBlank(query) {
		return nil
	}
	var out []FeedItem
	for _, p := range posts {
		if util.ContainsFold(p.Text, query) ||
			util.ContainsFold(p.AuthorName, query) ||
			util.ContainsFold(p.AuthorHandle, query) {
			out = append(out, feedItem(p))
		}
	}
	return out
}

// ProfileView is the profile header projection.
type ProfileView struct {
	Name      string
	Handle    string
	Bio       string
	Followers int
	Following int
	Posts     int
}

func Profile(u *model.User, posts []*model.Post) ProfileView {
	v := ProfileView{
		Name:      u.Name,
		Handle:    u.Username,
		Bio:       u.Bio,
		Followers: len(u.Followers),
		Following: len(u.Following),
	}
	for _, p := range posts {
		if p.AuthorHandle == u.Username {
			v.Posts++
		}
	}
	return v
}
