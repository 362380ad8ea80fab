package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/gobblet/game/engine"
	"github.com/wricardo/mcp-training/gobblet/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
	ErrSessionIDExhausted   = errors.New("could not generate a free session ID")
)

// idAttempts bounds the retries for a free generated ID
const idAttempts = 64

// Manager keeps the live game sessions, keyed by lower-cased ID. With a
// SessionPersistence attached it writes through on every change and falls
// back to the store for sessions not held in memory.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*service.Session
	persistence SessionPersistence
	logger      *zap.Logger
	now         func() time.Time
}

// NewManager creates an in-memory session manager
func NewManager(logger *zap.Logger) *Manager {
	return NewManagerWithPersistence(nil, logger)
}

// NewManagerWithPersistence creates a session manager backed by persistence
func NewManagerWithPersistence(persistence SessionPersistence, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
		logger:      logger.Named("session"),
		now:         time.Now,
	}
}

func key(id string) string {
	return strings.ToLower(id)
}

// Create starts a game for config under id. An empty id gets a generated
// 4-hex ID.
func (m *Manager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if strings.ContainsAny(id, "/\\. ") {
		return nil, ErrInvalidSessionID
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	if id == "" {
		if id, err = m.freeIDLocked(); err != nil {
			m.mu.Unlock()
			return nil, err
		}
	} else if _, taken := m.sessions[key(id)]; taken {
		m.mu.Unlock()
		return nil, ErrSessionAlreadyExists
	}

	now := m.now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = session
	m.mu.Unlock()

	m.logger.Debug("session created", zap.String("session", id), zap.String("config", config.Name))
	m.persist(session, "create")
	return session, nil
}

// Get returns a session by ID, ignoring case. Sessions missing from memory
// are loaded from persistence and cached.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if ok {
		return session, nil
	}

	if m.persistence == nil || !m.persistence.Exists(id) {
		return nil, ErrSessionNotFound
	}

	loaded, err := m.persistence.Load(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another caller may have loaded it meanwhile
	if session, ok := m.sessions[key(id)]; ok {
		return session, nil
	}
	m.sessions[key(id)] = loaded
	return loaded, nil
}

// GetOrCreate returns the session with id, creating it from config if absent
func (m *Manager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, config)
	}
	return session, err
}

// List returns the sessions held in memory
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

// Delete removes a session from memory and from persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, inMemory := m.sessions[key(id)]
	delete(m.sessions, key(id))
	m.mu.Unlock()

	stored := m.persistence != nil && m.persistence.Exists(id)
	if stored {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
	}

	if !inMemory && !stored {
		return ErrSessionNotFound
	}
	m.logger.Debug("session deleted", zap.String("session", id))
	return nil
}

// DeleteFromMemory drops the in-memory copy only
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

// UpdateLastAccessed marks a session as used now
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[key(id)]
	if ok {
		session.LastAccessedAt = m.now()
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	m.persist(session, "touch")
	return nil
}

// Save writes one session to persistence. Without persistence it is a no-op.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, ok := m.sessions[key(id)]
	m.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return m.persistence.Save(session)
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge from
// memory. Persisted copies stay and are reloaded on the next Get.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for k, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info("expired sessions removed from memory", zap.Int("count", removed), zap.Duration("max_age", maxAge))
	}
	return removed
}

// Count returns the number of sessions in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions loads every stored session not already in memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, ok := m.sessions[key(id)]; ok {
			continue
		}
		session, err := m.persistence.Load(id)
		if err != nil {
			m.logger.Warn("failed to load persisted session", zap.String("session", id), zap.Error(err))
			continue
		}
		m.sessions[key(id)] = session
		loaded++
	}

	if loaded > 0 {
		m.logger.Info("loaded persisted sessions", zap.Int("count", loaded))
	}
	return nil
}

// SaveAllSessions writes every in-memory session to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	var errs []error
	for _, session := range m.List() {
		if err := m.persistence.Save(session); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", session.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) persist(session *service.Session, op string) {
	if m.persistence == nil {
		return
	}
	if err := m.persistence.Save(session); err != nil {
		m.logger.Warn("failed to persist session", zap.String("session", session.ID), zap.String("op", op), zap.Error(err))
	}
}

// freeIDLocked draws random 4-hex IDs until one is unused. m.mu must be held.
func (m *Manager) freeIDLocked() (string, error) {
	buf := make([]byte, 2)
	for i := 0; i < idAttempts; i++ {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate session ID: %w", err)
		}
		id := hex.EncodeToString(buf)
		if _, taken := m.sessions[id]; taken {
			continue
		}
		if m.persistence != nil && m.persistence.Exists(id) {
			continue
		}
		return id, nil
	}
	return "", ErrSessionIDExhausted
}
