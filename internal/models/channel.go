package models

import (
	"time"

	"github.com/google/uuid"
)

// Minimal public projection of a user, safe to expand into any response
type Profile struct {
	ID        uuid.UUID
	Username  string
	FullName  string
	AvatarURL string
}

// Channel page data: the owner plus store-side graph cardinalities
type ChannelProfile struct {
	User         User
	Subscribers  int64
	SubscribedTo int64
	IsSubscribed bool
}

type HistoryEntry struct {
	Video     Video
	Uploader  Profile
	WatchedAt time.Time
}
