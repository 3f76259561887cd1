// Package models defines the domain entities of the messenger backend:
// users, groups, the many-to-many membership between them, and per-group
// messages. JSON tags define the wire shapes the HTTP handlers serve.
package models

import "time"

// User represents a messenger account. Users are created by the seeder or
// registration and are read-only from the messaging endpoints' perspective.
//
// Database Table: users
// Security Note: PasswordHash is never serialized into API responses.
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"username" json:"name"`
	AvatarURL    *string   `db:"avatar_url" json:"avatarUrl"`
	PasswordHash string    `db:"pw_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Group represents a named chat room with a member set and an ordered
// message history.
//
// Database Table: groups
type Group struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IconURL   *string   `db:"icon_url" json:"iconUrl"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Message is one entry in a group's history. MessageID is the per-group
// sequence number: numbering starts at 0 within each group and insertion
// order is chronological order. Rows are immutable once created.
//
// Database Table: messages (composite primary key group_id, message_id)
type Message struct {
	MessageID  int       `db:"message_id" json:"messageId"`
	GroupID    int       `db:"group_id" json:"groupId"`
	UserID     string    `db:"user_id" json:"userId"`
	SenderName string    `db:"sender_name" json:"senderName"`
	Body       string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// GroupWithMembers extends Group with its populated member set.
// Membership is unordered and duplicate-free.
type GroupWithMembers struct {
	Group
	Members []User `json:"members"`
}

// GroupWithLatest pairs a group with its single most recent message, used for
// the sidebar preview. LatestMessage is nil for groups with no history.
type GroupWithLatest struct {
	Group
	LatestMessage *Message `json:"latestMessage,omitempty"`
}

// MessageWithSender is a message with its sender record populated.
type MessageWithSender struct {
	Message
	Sender User `json:"sender"`
}

// AuditLog records a mutation to group membership for administrative review.
//
// Database Table: audit_log
type AuditLog struct {
	ID         int       `db:"id" json:"id"`
	ActorID    *string   `db:"actor_id" json:"actorId"`
	Action     string    `db:"action" json:"action"`
	ObjectType string    `db:"object_type" json:"objectType"`
	ObjectID   *int      `db:"object_id" json:"objectId"`
	IPAddress  string    `db:"ip_address" json:"ipAddress"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
