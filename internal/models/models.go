package models

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

// Identity is the authenticated user's profile record as returned by the
// backend. All fields besides ID may be patched after signup.
type Identity struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	FullName       string   `json:"fullName"`
	Bio            string   `json:"bio"`
	ProfilePicture string   `json:"profilePicture"`
	Friends        []string `json:"friends,omitempty"`
	Following      []string `json:"following,omitempty"`
	Followers      []string `json:"followers,omitempty"`
}

// IdentityPatch carries a shallow profile update. Nil fields are left
// untouched by Merge.
type IdentityPatch struct {
	Username       *string  `json:"username,omitempty"`
	FullName       *string  `json:"fullName,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
	ProfilePicture *string  `json:"profilePicture,omitempty"`
	Friends        []string `json:"friends,omitempty"`
	Following      []string `json:"following,omitempty"`
	Followers      []string `json:"followers,omitempty"`
}

// Merge applies the patch to a copy of the identity and returns it.
func (p IdentityPatch) Merge(id Identity) Identity {
	if p.Username != nil {
		id.Username = *p.Username
	}
	if p.FullName != nil {
		id.FullName = *p.FullName
	}
	if p.Bio != nil {
		id.Bio = *p.Bio
	}
	if p.ProfilePicture != nil {
		id.ProfilePicture = *p.ProfilePicture
	}
	if p.Friends != nil {
		id.Friends = p.Friends
	}
	if p.Following != nil {
		id.Following = p.Following
	}
	if p.Followers != nil {
		id.Followers = p.Followers
	}
	return id
}

// Profile is the public subset of an identity other users can see.
// Relay pushes carry bare ids; full profiles are resolved through the directory.
type Profile struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Message is one canonical chat message. ID and SentAt are assigned by the
// backend on the authoritative send path.
type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	Body        string `json:"body"`
	SentAt      int64  `json:"sentAt"` // Unix timestamp (milliseconds)
}

// FriendRequest is a pending inbound friend request.
type FriendRequest struct {
	ID   string  `json:"id"`
	From Profile `json:"from"`
}

// Recipe is a feed post.
type Recipe struct {
	ID          string    `json:"id"`
	Author      Profile   `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Likes       []string  `json:"likes,omitempty"` // liker user ids
	Comments    []Comment `json:"comments,omitempty"`
	CreatedAt   int64     `json:"createdAt"`
}

type Comment struct {
	ID        string  `json:"id"`
	Author    Profile `json:"author"`
	Body      string  `json:"body"`
	CreatedAt int64   `json:"createdAt"`
}

// Story is an ephemeral post; the backend expires them server-side.
type Story struct {
	ID        string   `json:"id"`
	Author    Profile  `json:"author"`
	ImageURL  string   `json:"imageUrl"`
	Caption   string   `json:"caption,omitempty"`
	Viewers   []string `json:"viewers,omitempty"`
	CreatedAt int64    `json:"createdAt"`
	ExpiresAt int64    `json:"expiresAt"`
}

// ClientEvent is a frame sent from the client to the relay.
type ClientEvent struct {
	Type        ClientEventType `json:"type"`
	EchoID      string          `json:"echoId,omitempty"`
	UserID      string          `json:"userId,omitempty"`
	RecipientID string          `json:"recipientId,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// ServerEvent is a frame pushed from the relay to the client.
type ServerEvent struct {
	Type      ServerEventType `json:"type"`
	SenderID  string          `json:"senderId,omitempty"`
	Message   string          `json:"message,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type ClientEventType string

const (
	ClientEventTypeJoin ClientEventType = "join"
	ClientEventTypeSend ClientEventType = "sendMessage"
)

type ServerEventType string

const (
	ServerEventTypeNewMessage ServerEventType = "newMessage"
)
