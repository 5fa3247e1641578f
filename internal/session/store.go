package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is a single conversation. Its history is guarded by its own lock
// so unrelated sessions never contend.
type Session struct {
	ID string

	mu       sync.Mutex
	history  []Message
	lastSeen atomic.Int64
}

// Append adds msgs to the history and returns a copy of the full history
// including them.
func (s *Session) Append(msgs ...Message) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msgs...)
	return s.snapshotLocked()
}

// History returns a copy of the conversation so far.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() []Message {
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

type Options struct {
	// IdleTTL evicts sessions not referenced for this long. Zero keeps them
	// for the life of the process.
	IdleTTL time.Duration
	// MaxSessions bounds the store; the least recently used session is
	// dropped on overflow. Zero means unbounded.
	MaxSessions int

	now func() time.Time
}

// Store maps session tokens to conversations. The store lock is only held
// for lookups and inserts, never while a caller talks to the model.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
}

func NewStore(opts Options) *Store {
	if opts.now == nil {
		opts.now = time.Now
	}
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// NewID returns a fresh session token.
func NewID() string {
	return uuid.NewString()
}

// Resolve returns the session for id, creating it if id is unseen. An empty
// id always creates a session with a generated token.
func (st *Store) Resolve(id string) *Session {
	now := st.opts.now()
	if id != "" {
		st.mu.RLock()
		s, ok := st.sessions[id]
		st.mu.RUnlock()
		if ok {
			s.touch(now)
			return s
		}
	} else {
		id = NewID()
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		s.touch(now)
		return s
	}
	if st.opts.MaxSessions > 0 && len(st.sessions) >= st.opts.MaxSessions {
		st.evictOldestLocked()
	}
	s := &Session{ID: id}
	s.touch(now)
	st.sessions[id] = s
	return s
}

// Get returns an existing session without creating one.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Expire drops sessions idle for longer than IdleTTL and returns how many
// were removed. A caller still holding an expired *Session keeps a detached
// copy; the next Resolve for its token starts over.
func (st *Store) Expire() int {
	if st.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := st.opts.now().Add(-st.opts.IdleTTL)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

func (st *Store) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range st.sessions {
		if seen := s.idleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(st.sessions, oldestID)
	}
}
