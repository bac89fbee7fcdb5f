package seed

import (
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/store"
)

// Load fills the store with the sample feed the web client ships with,
// plus a poll post and a starter conversation for the demo.
func Load(s *store.Store) {
	users := []model.User{
		{Username: "@sarahchen", Name: "Sarah Chen"},
		{Username: "@alexr", Name: "Alex Rivera"},
		{Username: "@mayapatel", Name: "Maya Patel"},
		{Username: "@jordank", Name: "Jordan Kim"},
	}
	for i := range users {
		s.PutUser(&users[i])
	}

	posts := []*model.Post{
		{
			ID:           "1",
			AuthorHandle: "@sarahchen",
			AuthorName:   "Sarah Chen",
			Text:         "Just discovered this amazing platform! The design is so clean and intuitive. Can't wait to see where this goes! 🚀",
			CreatedLabel: "2h ago",
			LikeCount:    128,
			RepostCount:  34,
			Tags:         model.Tags{Location: "paris", Topic: "tech", Type: "discussion"},
		},
		{
			ID:           "2",
			AuthorHandle: "@alexr",
			AuthorName:   "Alex Rivera",
			Text:         "Quick question for the community: What's your favorite feature so far? The sidebar animation is absolutely gorgeous! 👌",
			CreatedLabel: "5h ago",
			LikeCount:    89,
			RepostCount:  21,
			Tags:         model.Tags{Topic: "tech", Type: "question"},
		},
		{
			ID:           "3",
			AuthorHandle: "@mayapatel",
			AuthorName:   "Maya Patel",
			Text:         "The attention to detail here is incredible. From the smooth animations to the thoughtful color palette - everything just works. Props to the team! 💯",
			CreatedLabel: "12h ago",
			LikeCount:    203,
			RepostCount:  56,
			Tags:         model.Tags{Location: "london", Topic: "tech", Type: "announcement"},
		},
		{
			ID:           "4",
			AuthorHandle: "@jordank",
			AuthorName:   "Jordan Kim",
			Text:         "Anyone else spending way too much time customizing their profile? This platform makes it so fun! 😄",
			CreatedLabel: "1d ago",
			LikeCount:    67,
			RepostCount:  12,
			Tags:         model.Tags{Type: "discussion"},
		},
		{
			ID:           "5",
			AuthorHandle: "@mayapatel",
			AuthorName:   "Maya Patel",
			Text:         "Settle it once and for all: which accent color should the next theme ship with?",
			CreatedLabel: "1d ago",
			LikeCount:    41,
			RepostCount:  8,
			Tags:         model.Tags{Topic: "design", Type: model.TagTypePoll},
			Poll: &model.Poll{
				Options: []model.PollOption{
					{Text: "Electric blue"},
					{Text: "Sunset coral"},
					{Text: "Deep violet"},
				},
			},
		},
	}
	for _, p := range posts {
		s.AddPostTail(p)
	}
}

// LoadConversation adds a starter exchange between the session user and
// Sarah Chen, with the last message unread and addressed to the user.
func LoadConversation(s *store.Store, me string) {
	peer := "@sarahchen"
	s.AppendMessage(peer, model.Message{
		ID: store.NewID(), FromHandle: me, ToHandle: peer,
		Text: "Hey Sarah, loved your post about the platform!", CreatedLabel: "1h ago", Read: true,
	})
	s.AppendMessage(peer, model.Message{
		ID: store.NewID(), FromHandle: peer, ToHandle: me,
		Text: "Thanks! It really is something. Are you on the beta too?", CreatedLabel: "45m ago", Read: false,
	})
	s.SetUnreadMessages(s.CountUnreadMessages(me))
}
