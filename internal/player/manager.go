package player

import (
	"sync"
	"time"
)

type sessionKey struct {
	sid     string
	videoID int64
}

type entry struct {
	ctrl       *Controller
	generation int64
	lastSeen   time.Time
}

// Manager tracks one Controller per (browser session, video) pair. Each
// watch-page render begins a new generation; telemetry carrying an older
// generation is a stale response from a page the visitor already left and is
// dropped.
type Manager struct {
	mu      sync.Mutex
	entries map[sessionKey]*entry
	nextGen int64
}

func NewManager() *Manager {
	m := &Manager{entries: make(map[sessionKey]*entry)}
	go m.prune()
	return m
}

// Begin discards any previous controller for this session/video pair and
// returns the generation the new watch-page visit must report with.
func (m *Manager) Begin(sid string, videoID int64, src string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGen++
	m.entries[sessionKey{sid, videoID}] = &entry{
		ctrl:       New(src),
		generation: m.nextGen,
		lastSeen:   time.Now(),
	}
	return m.nextGen
}

// Apply runs fn against the controller for this visit. It returns false when
// no controller exists or the generation is stale, in which case fn is not
// called.
func (m *Manager) Apply(sid string, videoID, generation int64, fn func(*Controller)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[sessionKey{sid, videoID}]
	if !ok || e.generation != generation {
		return false
	}
	e.lastSeen = time.Now()
	fn(e.ctrl)
	return true
}

func (m *Manager) prune() {
	for {
		time.Sleep(5 * time.Minute)
		m.mu.Lock()
		for k, e := range m.entries {
			if time.Since(e.lastSeen) > 30*time.Minute {
				delete(m.entries, k)
			}
		}
		m.mu.Unlock()
	}
}
