package session

import (
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// MemoryStore is a sessions.Store that keeps values in process memory.
// The cookie only carries a random id. Entries idle for longer than the
// configured timeout are treated as missing and removed by the janitor.
type MemoryStore struct {
	Options *sessions.Options

	idleTimeout time.Duration
	now         func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	values   map[any]any
	lastSeen time.Time
}

func NewMemoryStore(idleTimeout time.Duration, options *sessions.Options) *MemoryStore {
	if options == nil {
		options = &sessions.Options{
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
	}
	return &MemoryStore{
		Options:     options,
		idleTimeout: idleTimeout,
		now:         time.Now,
		entries:     make(map[string]*entry),
	}
}

// Get returns the session cached in the request registry, loading it on
// first use.
func (s *MemoryStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the stored session for the request cookie, or a fresh one
// when the cookie is absent, unknown or expired.
func (s *MemoryStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return session, nil
	}

	values, ok := s.load(cookie.Value)
	if !ok {
		return session, nil
	}

	session.ID = cookie.Value
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save stores the session values and writes the id cookie. A negative
// MaxAge deletes the entry and expires the cookie.
func (s *MemoryStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options != nil && session.Options.MaxAge < 0 {
		if session.ID != "" {
			s.mu.Lock()
			delete(s.entries, session.ID)
			s.mu.Unlock()
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.entries[session.ID] = &entry{
		values:   maps.Clone(session.Values),
		lastSeen: s.now(),
	}
	s.mu.Unlock()

	http.SetCookie(w, sessions.NewCookie(session.Name(), session.ID, session.Options))
	return nil
}

func (s *MemoryStore) load(id string) (map[any]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}

	now := s.now()
	if s.expired(e, now) {
		delete(s.entries, id)
		return nil, false
	}

	e.lastSeen = now
	return maps.Clone(e.values), true
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return s.idleTimeout > 0 && now.Sub(e.lastSeen) > s.idleTimeout
}

// Expire removes idle entries and returns how many were dropped
func (s *MemoryStore) Expire() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Expire every interval until the returned stop func is called
func (s *MemoryStore) StartJanitor(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Expire()
			case <-done:
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

// Len returns the number of stored sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
