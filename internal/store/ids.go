package store

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewPostID returns a creation-time-derived, lexically sortable id, so ids
// created later compare greater and the feed stays stable.
func NewPostID() string { return ulid.Make().String() }

// NewID returns an opaque id for comments, messages, and notifications.
func NewID() string { return uuid.NewString() }
