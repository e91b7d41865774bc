package db

import (
	"time"

	"gorm.io/gorm"
)

// RSVP states for an Attendee row.
const (
	RsvpPending = "PENDING"
	RsvpYes     = "YES"
	RsvpNo      = "NO"
	RsvpMaybe   = "MAYBE"
)

// Event privacy levels.
const (
	PrivacyPublic      = "PUBLIC"
	PrivacyFriendsOnly = "FRIENDS_ONLY"
	PrivacyPrivate     = "PRIVATE"
)

// Notification source types and priorities.
const (
	SourceFriendRequest = "FRIEND_REQUEST"
	SourceFriendAccept  = "FRIEND_ACCEPT"
	SourceRsvp          = "RSVP"
	SourceInvite        = "INVITE"

	PriorityLow    = "LOW"
	PriorityNormal = "NORMAL"
	PriorityHigh   = "HIGH"
)

type User struct {
	gorm.Model

	Username      string `gorm:"uniqueIndex;not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	Name          *string
	Bio           *string
	PasswordHash  *string
	Avatar        *string
	GoogleOauthID *string `gorm:"uniqueIndex"`
	TwoFAToken    *string
}

// FriendRequest rows exist only while the request is pending: accepting or
// declining deletes every pending row between the pair. Hard deletes only,
// so the unique pair index keeps at most one row per direction.
type FriendRequest struct {
	ID         uint      `gorm:"primaryKey"`
	SenderID   uint      `gorm:"not null;index:idx_friend_request_pair,unique"`
	ReceiverID uint      `gorm:"not null;index:idx_friend_request_pair,unique"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Friend edges are stored in both directions; the friend service keeps the
// relation symmetric.
type Friend struct {
	UserID   uint `gorm:"primaryKey;not null"`
	FriendID uint `gorm:"primaryKey;not null"`

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Friend User `gorm:"foreignKey:FriendID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Event struct {
	gorm.Model

	HostID       uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Description  *string
	Date         string `gorm:"not null"` // YYYY-MM-DD
	Time         string `gorm:"not null"` // HH:MM
	DurationMin  int    `gorm:"not null"`
	Location     string `gorm:"not null"`
	Capacity     *int   // nil = unlimited
	PrivacyLevel string `gorm:"not null;default:'PUBLIC'"`

	Host User `gorm:"foreignKey:HostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Attendee struct {
	UserID    uint   `gorm:"primaryKey;not null"`
	EventID   uint   `gorm:"primaryKey;not null"`
	Rsvp      string `gorm:"not null;default:'PENDING'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User  User  `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Event Event `gorm:"foreignKey:EventID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type Comment struct {
	gorm.Model

	EventID uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	Event Event `gorm:"foreignKey:EventID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User  User  `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Notification is append-only; only IsRead is ever mutated. Back-references
// survive the source row via SET NULL.
type Notification struct {
	gorm.Model

	TargetUserID uint   `gorm:"not null;index"`
	Message      string `gorm:"not null"`
	Link         *string
	SourceType   string `gorm:"not null"`
	Priority     string `gorm:"not null;default:'NORMAL'"`
	IsRead       bool   `gorm:"not null;default:false"`

	FriendRequestID *uint
	EventID         *uint

	TargetUser    User           `gorm:"foreignKey:TargetUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FriendRequest *FriendRequest `gorm:"foreignKey:FriendRequestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Event         *Event         `gorm:"foreignKey:EventID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

type Token struct {
	gorm.Model

	UserID uint   `gorm:"not null;index"`
	Token  string `gorm:"uniqueIndex;not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type HeartBeat struct {
	gorm.Model

	UserID     uint      `gorm:"uniqueIndex;not null"`
	LastSeenAt time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AllModels is the migration order; parents before children.
func AllModels() []any {
	return []any{
		&User{},
		&Friend{},
		&FriendRequest{},
		&Event{},
		&Attendee{},
		&Comment{},
		&Notification{},
		&Token{},
		&HeartBeat{},
	}
}
