package model

// NotificationType enumerates the events that fan out to a recipient.
type NotificationType string

const (
	NotifyLike    NotificationType = "like"
	NotifyRepost  NotificationType = "repost"
	NotifyComment NotificationType = "comment"
	NotifyFollow  NotificationType = "follow"
)

// User is a Chiche account. Username is the canonical handle with a
// leading "@" and never changes after creation.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	// Follow graph, both directions. The two sides move together:
	// A in B.Followers iff B in A.Following.
	Following []string `json:"following,omitempty"`
	Followers []string `json:"followers,omitempty"`
}

// IsFollowing reports whether u follows the given handle.
func (u *User) IsFollowing(handle string) bool { return contains(u.Following, handle) }

// Tags are the optional composer labels on a post. Empty string means unset.
type Tags struct {
	Location string
	Topic    string
	Type     string
}

// TagTypePoll in Tags.Type marks the post as carrying a poll.
const TagTypePoll = "poll"

// Post is a feed entry. CommentCount always equals len(Comments);
// LikeCount and RepostCount move by exactly one per toggle.
type Post struct {
	ID           string
	AuthorHandle string
	AuthorName   string
	Text         string
	CreatedLabel string
	LikeCount    int
	RepostCount  int
	CommentCount int
	Liked        bool
	Reposted     bool
	Tags         Tags
	Comments     []Comment
	Poll         *Poll
}

// Comment belongs to exactly one post and is append-only.
type Comment struct {
	ID           string
	AuthorHandle string
	Text         string
	CreatedLabel string
	LikeCount    int
	Liked        bool
}

// Poll belongs to exactly one post. TotalVotes equals the sum of the
// option counts, and a username appears in at most one option's voter set.
type Poll struct {
	Options    []PollOption
	TotalVotes int
}

type PollOption struct {
	Text      string
	VoteCount int
	Voters    []string
}

// HasVoted reports whether the handle voted in any option.
func (p *Poll) HasVoted(handle string) bool {
	for i := range p.Options {
		if contains(p.Options[i].Voters, handle) {
			return true
		}
	}
	return false
}

// Message is one direct message. Only the Read flag changes after creation.
// ReplyTo, when set, references an earlier message in the same conversation.
type Message struct {
	ID           string
	FromHandle   string
	ToHandle     string
	Text         string
	CreatedLabel string
	Read         bool
	ReplyTo      string
}

// Notification is one fan-out record owned by its recipient.
type Notification struct {
	ID           string
	Type         NotificationType
	Recipient    string
	Actor        string
	Message      string
	CreatedLabel string
	Read         bool
	PostID       string
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
