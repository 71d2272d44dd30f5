// Package session owns the authenticated identity, bearer credential and
// onboarding flag, and keeps them in sync with a local state store.
//
// Persistence is best-effort: a failing store never breaks the in-memory
// state, it only means the session will not survive a restart.
package session

import (
	"log/slog"
	"sync"

	"potluck/internal/models"
)

// Stage gates which screen the app shows.
type Stage string

const (
	StageUnauthenticated Stage = "unauthenticated"
	StageOnboarding      Stage = "onboarding"
	StageReady           Stage = "ready"
)

// Record is the persisted session state. Identity and Credential are both
// set or both empty.
type Record struct {
	Identity           *models.Identity
	Credential         string
	OnboardingComplete bool
}

// Store persists the session record across restarts.
type Store interface {
	SaveSession(rec Record) error
	// LoadSession returns a zero Record (not an error) when nothing is stored.
	LoadSession() (Record, error)
	ClearSession() error
}

// Manager is the single source of truth for who is using the app and how
// far into onboarding they are. Construct one in main and hand it to
// consumers explicitly.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu                 sync.RWMutex
	identity           *models.Identity
	credential         string
	onboardingComplete bool
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
	}
}

// Restore loads persisted state at startup. A stored credential is trusted
// as-is; expiry only surfaces on the next failed API call. An empty or
// unreadable store leaves the manager unauthenticated.
func (m *Manager) Restore() {
	rec, err := m.store.LoadSession()
	if err != nil {
		m.logger.Warn("session restore failed, starting unauthenticated", "error", err)
		return
	}
	if rec.Credential == "" || rec.Identity == nil {
		// Partial state is treated the same as no state.
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = rec.Credential
	id := *rec.Identity
	m.identity = &id
	m.onboardingComplete = rec.OnboardingComplete
}

// Login installs the credential and identity atomically and derives the
// onboarding flag: complete only when the profile already carries both a
// picture and a bio.
func (m *Manager) Login(credential string, identity models.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.credential = credential
	id := identity
	m.identity = &id
	m.onboardingComplete = identity.ProfilePicture != "" && identity.Bio != ""

	m.persistLocked()
}

// Logout clears all session state in memory and in the store. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.credential = ""
	m.identity = nil
	m.onboardingComplete = false

	if err := m.store.ClearSession(); err != nil {
		m.logger.Warn("failed to clear persisted session", "error", err)
	}
}

// PatchIdentity shallow-merges the patch into the identity. Silent no-op
// when unauthenticated.
func (m *Manager) PatchIdentity(patch models.IdentityPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.identity == nil {
		return
	}

	merged := patch.Merge(*m.identity)
	m.identity = &merged

	m.persistLocked()
}

// MarkOnboardingComplete records that the user finished (or skipped) the
// profile wizard. The two cases are indistinguishable afterwards.
func (m *Manager) MarkOnboardingComplete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onboardingComplete = true
	m.persistLocked()
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec := Record{
		Credential:         m.credential,
		OnboardingComplete: m.onboardingComplete,
	}
	if m.identity != nil {
		id := *m.identity
		rec.Identity = &id
	}
	return rec
}

// Stage reports which screen the session gates to.
func (m *Manager) Stage() Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.credential == "" || m.identity == nil:
		return StageUnauthenticated
	case !m.onboardingComplete:
		return StageOnboarding
	default:
		return StageReady
	}
}

// Authenticated reports whether both credential and identity are present.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential != "" && m.identity != nil
}

// Credential returns the bearer token, or "" when unauthenticated.
func (m *Manager) Credential() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential
}

// Identity returns a copy of the identity and whether one is present.
func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

func (m *Manager) persistLocked() {
	rec := Record{
		Credential:         m.credential,
		OnboardingComplete: m.onboardingComplete,
	}
	if m.identity != nil {
		id := *m.identity
		rec.Identity = &id
	}
	if err := m.store.SaveSession(rec); err != nil {
		m.logger.Warn("failed to persist session", "error", err)
	}
}
