package analytics

import "time"

const (
	TopicLinkCreated  = "link.created"
	TopicLinkAccessed = "link.accessed"
	TopicLinkDeleted  = "link.deleted"
	TopicLinksSwept   = "links.swept"
)

// LinkCreatedEvent is emitted when a short link is stored.
type LinkCreatedEvent struct {
	Code      string     `json:"code"`
	TargetURL string     `json:"targetUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	ClientIP  string     `json:"clientIp"`
	UserAgent string     `json:"userAgent"`
}

// LinkAccessedEvent is emitted on every successful redirect.
type LinkAccessedEvent struct {
	Code       string    `json:"code"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}

// LinkDeletedEvent is emitted when a link is deleted through the API.
type LinkDeletedEvent struct {
	Code      string    `json:"code"`
	DeletedAt time.Time `json:"deletedAt"`
	ClientIP  string    `json:"clientIp"`
}

// LinksSweptEvent is emitted when the expiry sweep removed at least one link.
type LinksSweptEvent struct {
	Removed int64     `json:"removed"`
	SweptAt time.Time `json:"sweptAt"`
}
