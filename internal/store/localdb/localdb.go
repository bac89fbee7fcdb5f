package localdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/RoyDesCraft/chiche-client/internal/model"
)

// DB wraps the local sqlite database that stands in for the browser's
// durable storage: the saved profile, follow edges, notification records,
// and a small key/value table.
type DB struct{ sql *sql.DB }

// ErrNoProfile is returned by LoadProfile when no profile is saved.
var ErrNoProfile = errors.New("no saved profile")

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS profile (
	  id INTEGER PRIMARY KEY CHECK (id=1),
	  payload TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS follows (
	  follower TEXT NOT NULL,
	  followee TEXT NOT NULL,
	  PRIMARY KEY (follower, followee)
	);
	CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee);
	CREATE TABLE IF NOT EXISTS notifications (
	  id TEXT PRIMARY KEY,
	  recipient TEXT NOT NULL,
	  type TEXT NOT NULL,
	  actor TEXT NOT NULL,
	  message TEXT NOT NULL,
	  created_label TEXT NOT NULL,
	  read INTEGER NOT NULL DEFAULT 0,
	  post_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_notif_recipient ON notifications(recipient);
	CREATE TABLE IF NOT EXISTS kv (
	  key TEXT PRIMARY KEY,
	  value TEXT NOT NULL
	);
	`)
	return err
}

// SaveProfile stores the current user profile as the single saved profile.
func (d *DB) SaveProfile(ctx context.Context, u model.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT INTO profile(id, payload) VALUES(1, ?)
		ON CONFLICT(id) DO UPDATE SET payload=excluded.payload`, string(b))
	return err
}

// LoadProfile returns the saved profile. A row that fails to decode is
// removed and reported as absent rather than as an error.
func (d *DB) LoadProfile(ctx context.Context) (model.User, error) {
	var payload string
	err := d.sql.QueryRowContext(ctx, `SELECT payload FROM profile WHERE id=1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNoProfile
	}
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(payload), &u); err != nil || u.Username == "" {
		_ = d.ClearProfile(ctx)
		return model.User{}, ErrNoProfile
	}
	return u, nil
}

// ClearProfile removes the saved profile.
func (d *DB) ClearProfile(ctx context.Context) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM profile WHERE id=1`)
	return err
}

// SetFollow adds or removes the directed edge follower->followee in one
// transaction. Both views of the graph (following and followers) derive
// from this single row, so the edge can never go asymmetric.
func (d *DB) SetFollow(ctx context.Context, follower, followee string, on bool) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if on {
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO follows(follower, followee) VALUES(?,?)`, follower, followee)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM follows WHERE follower=? AND followee=?`, follower, followee)
	}
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Following returns the handles the user follows, in insertion order.
func (d *DB) Following(ctx context.Context, handle string) ([]string, error) {
	return d.edgeList(ctx, `SELECT followee FROM follows WHERE follower=? ORDER BY rowid`, handle)
}

// Followers returns the handles following the user, in insertion order.
func (d *DB) Followers(ctx context.Context, handle string) ([]string, error) {
	return d.edgeList(ctx, `SELECT follower FROM follows WHERE followee=? ORDER BY rowid`, handle)
}

func (d *DB) edgeList(ctx context.Context, q, handle string) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, q, handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// PutNotification appends a notification record for its recipient.
func (d *DB) PutNotification(ctx context.Context, n model.Notification) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO notifications(id, recipient, type, actor, message, created_label, read, post_id) VALUES(?,?,?,?,?,?,?,?)`,
		n.ID, n.Recipient, string(n.Type), n.Actor, n.Message, n.CreatedLabel, boolInt(n.Read), n.PostID)
	return err
}

// NotificationsFor returns the recipient's notifications, oldest first.
func (d *DB) NotificationsFor(ctx context.Context, recipient string) ([]model.Notification, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, recipient, type, actor, message, created_label, read, COALESCE(post_id, '') FROM notifications WHERE recipient=? ORDER BY rowid`, recipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		var typ string
		var read int
		if err := rows.Scan(&n.ID, &n.Recipient, &typ, &n.Actor, &n.Message, &n.CreatedLabel, &read, &n.PostID); err != nil {
			return nil, err
		}
		n.Type = model.NotificationType(typ)
		n.Read = read != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags a single record.
func (d *DB) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := d.sql.ExecContext(ctx, `UPDATE notifications SET read=1 WHERE id=?`, id)
	return err
}

// MarkAllNotificationsRead flags everything owned by the recipient.
func (d *DB) MarkAllNotificationsRead(ctx context.Context, recipient string) error {
	_, err := d.sql.ExecContext(ctx, `UPDATE notifications SET read=1 WHERE recipient=?`, recipient)
	return err
}

// UnreadNotifications counts the recipient's unread records.
func (d *DB) UnreadNotifications(ctx context.Context, recipient string) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(1) FROM notifications WHERE recipient=? AND read=0`, recipient).Scan(&n)
	return n, err
}

// SetKV stores a small value, e.g. the session token.
func (d *DB) SetKV(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO kv(key, value) VALUES(?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

// GetKV loads a value; missing keys return "".
func (d *DB) GetKV(ctx context.Context, key string) (string, error) {
	var v string
	err := d.sql.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

// DeleteKV removes a key.
func (d *DB) DeleteKV(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
