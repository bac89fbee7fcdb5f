package notify

import (
	"context"
	"fmt"

	"github.com/RoyDesCraft/chiche-client/internal/logging"
	"github.com/RoyDesCraft/chiche-client/internal/metrics"
	"github.com/RoyDesCraft/chiche-client/internal/model"
	"github.com/RoyDesCraft/chiche-client/internal/session"
	"github.com/RoyDesCraft/chiche-client/internal/store"
	"github.com/RoyDesCraft/chiche-client/internal/store/localdb"
)

// Notifier fans a single action out into the recipient's notification list.
// Every record lands in durable storage; the live in-memory list and its
// unread counter are touched only when the recipient is the active session.
// Any other recipient picks the record up lazily when their session loads.
type Notifier struct {
	DB      *localdb.DB
	Store   *store.Store
	Session *session.Session
}

// Notify appends a notification for recipient describing what actor did.
// postID is empty for follow notifications.
func (n *Notifier) Notify(ctx context.Context, recipient string, typ model.NotificationType, actor, postID string) model.Notification {
	rec := model.Notification{
		ID:           store.NewID(),
		Type:         typ,
		Recipient:    recipient,
		Actor:        actor,
		Message:      ComposeMessage(typ, actor),
		CreatedLabel: "Just now",
		Read:         false,
		PostID:       postID,
	}
	if err := n.DB.PutNotification(ctx, rec); err != nil {
		logging.Error("notify_put", map[string]any{"error": err.Error(), "recipient": recipient})
	}
	if n.Session.Handle() == recipient {
		n.Store.AppendNotification(rec)
	}
	metrics.IncFanout(string(typ))
	return rec
}

// ComposeMessage builds the display string shown in the notifications tab.
func ComposeMessage(typ model.NotificationType, actor string) string {
	switch typ {
	case model.NotifyLike:
		return fmt.Sprintf("%s liked your post", actor)
	case model.NotifyRepost:
		return fmt.Sprintf("%s reposted your post", actor)
	case model.NotifyComment:
		return fmt.Sprintf("%s commented on your post", actor)
	case model.NotifyFollow:
		return fmt.Sprintf("%s followed you", actor)
	}
	return fmt.Sprintf("%s interacted with you", actor)
}
