// Package messenger reconciles the two chat delivery paths: the
// authoritative REST send and the relay's fire-and-forget pushes.
//
// Ordering rules: the sender's transcript is appended only from the
// authoritative response, never from its own push; a receiver's transcript
// is appended only from inbound pushes or a full history refetch. The
// id-keyed dedup in transcript makes the paths safe to overlap.
package messenger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"potluck/internal/models"
	"potluck/internal/relay"
	"potluck/internal/session"
	"potluck/internal/transcript"
)

const resolveTimeout = 5 * time.Second

var (
	ErrEmptyMessage     = errors.New("message body is empty")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type chatAPI interface {
	Messages(ctx context.Context, friendID string) ([]models.Message, error)
	SendMessage(ctx context.Context, recipientID, body string) (models.Message, error)
}

type pushChannel interface {
	OnInbound(handler relay.Handler)
	Open(ctx context.Context, identityID string)
	EmitMessage(recipientID, body string) error
	Close()
}

type profileResolver interface {
	Resolve(ctx context.Context, id string) (models.Profile, error)
}

// Inbound is delivered to the UI callback for every accepted push, with the
// sender resolved to a full profile by id.
type Inbound struct {
	Message models.Message
	Sender  models.Profile
}

type Messenger struct {
	api       chatAPI
	channel   pushChannel
	directory profileResolver
	sess      *session.Manager
	reg       *transcript.Registry
	logger    *slog.Logger

	mu        sync.Mutex
	onInbound func(Inbound)
}

func New(api chatAPI, channel pushChannel, directory profileResolver, sess *session.Manager, logger *slog.Logger) *Messenger {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Messenger{
		api:       api,
		channel:   channel,
		directory: directory,
		sess:      sess,
		reg:       transcript.NewRegistry(),
		logger:    logger,
	}
	channel.OnInbound(m.handlePush)
	return m
}

// OnInbound registers the UI callback for accepted pushes.
func (m *Messenger) OnInbound(fn func(Inbound)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInbound = fn
}

// Start opens the relay channel for the current identity. ctx scopes the
// connection lifetime; cancelling it stops redials.
func (m *Messenger) Start(ctx context.Context) error {
	id, ok := m.sess.Identity()
	if !ok {
		return ErrNotAuthenticated
	}
	m.channel.Open(ctx, id.ID)
	return nil
}

// Stop closes the channel and discards the session's transcripts. Call on
// logout; a later login must Start again so the channel is scoped to the
// new identity.
func (m *Messenger) Stop() {
	m.channel.Close()
	m.reg.Reset()
}

// OpenConversation fetches the full history with a peer and returns its
// transcript.
func (m *Messenger) OpenConversation(ctx context.Context, peerID string) (*transcript.Transcript, error) {
	msgs, err := m.api.Messages(ctx, peerID)
	if err != nil {
		return nil, err
	}
	t := m.reg.Get(peerID)
	t.Replace(msgs)
	return t, nil
}

// CloseConversation discards the local transcript for a peer.
func (m *Messenger) CloseConversation(peerID string) {
	m.reg.Drop(peerID)
}

// Transcript returns the live transcript for a peer, creating an empty one
// on first use.
func (m *Messenger) Transcript(peerID string) *transcript.Transcript {
	return m.reg.Get(peerID)
}

// Send delivers a message to a peer. The authoritative request runs first;
// only on success is the canonical message appended locally and the
// real-time push emitted. A rejected send leaves the transcript unchanged
// and returns the error.
func (m *Messenger) Send(ctx context.Context, peerID, body string) (models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if !m.sess.Authenticated() {
		return models.Message{}, ErrNotAuthenticated
	}

	msg, err := m.api.SendMessage(ctx, peerID, body)
	if err != nil {
		return models.Message{}, err
	}

	m.reg.Get(peerID).Append(msg)

	// The push only serves the other party's live view; losing it degrades
	// them to their next history fetch.
	if err := m.channel.EmitMessage(peerID, body); err != nil {
		m.logger.Warn("realtime push not delivered", "recipient_id", peerID, "error", err)
	}

	return msg, nil
}

// handlePush appends an inbound push to the sending peer's transcript,
// whether or not that conversation is currently open, and resolves the
// sender by id rather than from any UI selection.
func (m *Messenger) handlePush(evt models.ServerEvent) {
	self, ok := m.sess.Identity()
	if !ok {
		return
	}
	if evt.SenderID == "" || evt.SenderID == self.ID {
		// Own pushes are ignored; the authoritative response already
		// updated the local transcript.
		return
	}

	msg := models.Message{
		ID:          evt.MessageID,
		SenderID:    evt.SenderID,
		RecipientID: self.ID,
		Body:        evt.Message,
		SentAt:      evt.Timestamp,
	}

	if !m.reg.Get(evt.SenderID).Append(msg) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()

	sender, err := m.directory.Resolve(ctx, evt.SenderID)
	if err != nil {
		m.logger.Warn("failed to resolve push sender", "sender_id", evt.SenderID, "error", err)
		sender = models.Profile{ID: evt.SenderID}
	}

	m.mu.Lock()
	fn := m.onInbound
	m.mu.Unlock()
	if fn != nil {
		fn(Inbound{Message: msg, Sender: sender})
	}
}
