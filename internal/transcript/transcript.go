// Package transcript keeps the ordered message history for one
// conversation. Transcripts live only for the session; history is refetched
// from the backend when a conversation is reopened.
package transcript

import (
	"sync"

	"potluck/internal/models"
)

// Transcript is an append-only message sequence for one peer. Messages are
// never reordered or removed once appended. Appends are deduplicated by
// message id, so a message arriving via both the authoritative response and
// a relay push lands exactly once.
type Transcript struct {
	PeerID string

	mux     sync.RWMutex
	records []models.Message
	seen    map[string]bool
}

func New(peerID string) *Transcript {
	return &Transcript{
		PeerID: peerID,
		seen:   make(map[string]bool),
	}
}

// Append adds the message unless its id was already appended. Returns
// whether the message was added. Messages without an id (relay pushes from
// backends that omit it) are always appended.
func (t *Transcript) Append(msg models.Message) bool {
	t.mux.Lock()
	defer t.mux.Unlock()

	if msg.ID != "" {
		if t.seen[msg.ID] {
			return false
		}
		t.seen[msg.ID] = true
	}
	t.records = append(t.records, msg)
	return true
}

// Replace swaps in a freshly fetched history, typically right after the
// conversation is opened. Existing ids are retained for dedup so pushes
// that raced the fetch are not appended twice.
func (t *Transcript) Replace(msgs []models.Message) {
	t.mux.Lock()
	defer t.mux.Unlock()

	t.records = make([]models.Message, len(msgs))
	copy(t.records, msgs)
	t.seen = make(map[string]bool, len(msgs))
	for _, m := range msgs {
		if m.ID != "" {
			t.seen[m.ID] = true
		}
	}
}

// Messages returns a copy of the transcript in insertion order.
func (t *Transcript) Messages() []models.Message {
	t.mux.RLock()
	defer t.mux.RUnlock()

	out := make([]models.Message, len(t.records))
	copy(out, t.records)
	return out
}

func (t *Transcript) Len() int {
	t.mux.RLock()
	defer t.mux.RUnlock()
	return len(t.records)
}

// Registry holds one transcript per peer for the lifetime of a session.
type Registry struct {
	mux         sync.Mutex
	transcripts map[string]*Transcript
}

func NewRegistry() *Registry {
	return &Registry{
		transcripts: make(map[string]*Transcript),
	}
}

// Get returns the transcript for the peer, creating an empty one the first
// time the peer is selected.
func (r *Registry) Get(peerID string) *Transcript {
	r.mux.Lock()
	defer r.mux.Unlock()

	t, ok := r.transcripts[peerID]
	if !ok {
		t = New(peerID)
		r.transcripts[peerID] = t
	}
	return t
}

// Drop discards the transcript for a peer, used when the conversation view
// closes.
func (r *Registry) Drop(peerID string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.transcripts, peerID)
}

// Reset discards all transcripts, used on logout.
func (r *Registry) Reset() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.transcripts = make(map[string]*Transcript)
}
