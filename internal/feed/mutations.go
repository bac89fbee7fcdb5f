package feed

import (
	"context"

	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/store"
	"github.com/RoyDesCraft/chiche-client/internal/util"
)

// ToggleLike flips the session user's like on a post and moves the count
// by one. The author is notified only on the transition to liked, and only
// when someone else did the liking.
func (a *App) ToggleLike(ctx context.Context, postID string) (*model.Post, error) {
	if err := a.requireAuth("like"); err != nil {
		return nil, err
	}
	p := a.Store.Post(postID)
	if p == nil {
		return nil, &NotFoundError{Kind: "post", ID: postID}
	}
	actor := a.Session.Handle()
	p.Liked = !p.Liked
	if p.Liked {
		p.LikeCount++
		if actor != p.AuthorHandle {
			a.Notifier.Notify(ctx, p.AuthorHandle, model.NotifyLike, actor, p.ID)
		}
	} else {
		p.LikeCount--
	}
	metrics.IncMutation("like")
	return p, nil
}

// ToggleRepost mirrors ToggleLike for reposts.
func (a *App) ToggleRepost(ctx context.Context, postID string) (*model.Post, error) {
	if err := a.requireAuth("repost"); err != nil {
		return nil, err
	}
	p := a.Store.Post(postID)
	if p == nil {
		return nil, &NotFoundError{Kind: "post", ID: postID}
	}
	actor := a.Session.Handle()
	p.Reposted = !p.Reposted
	if p.Reposted {
		p.RepostCount++
		if actor != p.AuthorHandle {
			a.Notifier.Notify(ctx, p.AuthorHandle, model.NotifyRepost, actor, p.ID)
		}
	} else {
		p.RepostCount--
	}
	metrics.IncMutation("repost")
	return p, nil
}

// AddComment appends a comment and keeps CommentCount in step.
func (a *App) AddComment(ctx context.Context, postID, text string) (*model.Comment, error) {
	if err := a.requireAuth("comment"); err != nil {
		return nil, err
	}
	if util.IsBlank(text) {
		return nil, reject("comment", "empty_text", "Comment cannot be empty")
	}
	p := a.Store.Post(postID)
	if p == nil {
		return nil, &NotFoundError{Kind: "post", ID: postID}
	}
	actor := a.Session.Handle()
	c := model.Comment{
		ID:           store.NewID(),
		AuthorHandle: actor,
		Text:         util.NormalizeWhitespace(text),
		CreatedLabel: "Just now",
	}
	p.Comments = append(p.Comments, c)
	p.CommentCount++
	if actor != p.AuthorHandle {
		a.Notifier.Notify(ctx, p.AuthorHandle, model.NotifyComment, actor, p.ID)
	}
	metrics.IncMutation("comment")
	return &p.Comments[len(p.Comments)-1], nil
}

// VotePoll records a single vote for the session user. A second vote is
// rejected without touching any count, whatever option it names.
func (a *App) VotePoll(ctx context.Context, postID string, optionIndex int) (*model.Poll, error) {
	if err := a.requireAuth("vote"); err != nil {
		return nil, err
	}
	p := a.Store.Post(postID)
	if p == nil {
		return nil, &NotFoundError{Kind: "post", ID: postID}
	}
	if p.Poll == nil {
		return nil, reject("vote", "no_poll", "This post has no poll")
	}
	actor := a.Session.Handle()
	if p.Poll.HasVoted(actor) {
		return nil, reject("vote", "already_voted", "You have already voted in this poll")
	}
	if optionIndex < 0 || optionIndex >= len(p.Poll.Options) {
		return nil, reject("vote", "bad_option", "That poll option does not exist")
	}
	opt := &p.Poll.Options[optionIndex]
	opt.VoteCount++
	opt.Voters = append(opt.Voters, actor)
	p.Poll.TotalVotes++
	metrics.IncMutation("vote")
	return p.Poll, nil
}

// CreatePost validates the composer input and inserts the post at the head
// of the feed. Tags typed "poll" must carry at least two non-empty options.
func (a *App) CreatePost(ctx context.Context, text string, tags model.Tags, pollOptions []string) (*model.Post, error) {
	if err := a.requireAuth("post"); err != nil {
		return nil, err
	}
	if util.IsBlank(text) {
		return nil, reject("post", "empty_text", "Post cannot be empty")
	}
	var poll *model.Poll
	if tags.Type == model.TagTypePoll {
		var opts []model.PollOption
		for _, o := range pollOptions {
			if util.IsBlank(o) {
				continue
			}
			opts = append(opts, model.PollOption{Text: util.NormalizeWhitespace(o)})
		}
		if len(opts) < 2 {
			return nil, reject("post", "poll_options", "A poll needs at least 2 options")
		}
		poll = &model.Poll{Options: opts}
	}
	me := a.Session.Current()
	p := &model.Post{
		ID:           store.NewPostID(),
		AuthorHandle: me.Username,
		AuthorName:   me.Name,
		Text:         text,
		CreatedLabel: "Just now",
		Tags:         tags,
		Poll:         poll,
	}
	a.Store.AddPostHead(p)
	metrics.IncMutation("post")
	return p, nil
}

// MarkNotificationRead flags one record, live and durable.
func (a *App) MarkNotificationRead(ctx context.Context, id string) error {
	if err := a.requireAuth("notif_read"); err != nil {
		return err
	}
	a.Store.MarkNotificationRead(id)
	return a.DB.MarkNotificationRead(ctx, id)
}

// MarkAllNotificationsRead flags everything and zeroes the unread badge.
func (a *App) MarkAllNotificationsRead(ctx context.Context) error {
	if err := a.requireAuth("notif_read"); err != nil {
		return err
	}
	a.Store.MarkAllNotificationsRead()
	return a.DB.MarkAllNotificationsRead(ctx, a.Session.Handle())
}
