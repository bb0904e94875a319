package memory

import (
	"sync"
	"time"
)

// Message represents a chat message in short-term memory
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Fact is a long-term memory fact about a user, e.g. "primary_body_part",
// "chronic_condition", "current_medication"
type Fact struct {
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"` // 0.0 to 1.0
	UpdatedAt  time.Time `json:"updated_at"`
}

// userMemory holds both short-term and long-term memory for a user
type userMemory struct {
	mu        sync.RWMutex
	shortTerm []Message
	facts     map[string]Fact
}

// Manager keeps per-user conversation memory for the assistant
type Manager struct {
	mu            sync.RWMutex
	users         map[string]*userMemory
	shortTermSize int
}

// NewManager creates a memory manager keeping the last shortTermSize
// messages per user
func NewManager(shortTermSize int) *Manager {
	return &Manager{
		users:         make(map[string]*userMemory),
		shortTermSize: shortTermSize,
	}
}

func (m *Manager) getOrCreate(userID string) *userMemory {
	m.mu.Lock()
	defer m.mu.Unlock()

	um, ok := m.users[userID]
	if !ok {
		um = &userMemory{
			shortTerm: make([]Message, 0, m.shortTermSize),
			facts:     make(map[string]Fact),
		}
		m.users[userID] = um
	}
	return um
}

func (m *Manager) lookup(userID string) (*userMemory, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	um, ok := m.users[userID]
	return um, ok
}

// AddMessage appends a message to the user's short-term memory,
// evicting the oldest messages past the size limit
func (m *Manager) AddMessage(userID string, msg Message) {
	um := m.getOrCreate(userID)

	um.mu.Lock()
	defer um.mu.Unlock()

	um.shortTerm = append(um.shortTerm, msg)
	if len(um.shortTerm) > m.shortTermSize {
		um.shortTerm = um.shortTerm[len(um.shortTerm)-m.shortTermSize:]
	}
}

// History returns a copy of the user's short-term memory
func (m *Manager) History(userID string) []Message {
	um, ok := m.lookup(userID)
	if !ok {
		return []Message{}
	}

	um.mu.RLock()
	defer um.mu.RUnlock()

	history := make([]Message, len(um.shortTerm))
	copy(history, um.shortTerm)
	return history
}

// AddFact adds or updates a long-term fact. An existing fact is only
// replaced when the new one has higher confidence.
func (m *Manager) AddFact(userID string, fact Fact) {
	um := m.getOrCreate(userID)

	um.mu.Lock()
	defer um.mu.Unlock()

	existing, ok := um.facts[fact.Key]
	if !ok || fact.Confidence > existing.Confidence {
		um.facts[fact.Key] = fact
	}
}

// Facts returns all long-term facts for a user
func (m *Manager) Facts(userID string) []Fact {
	um, ok := m.lookup(userID)
	if !ok {
		return []Fact{}
	}

	um.mu.RLock()
	defer um.mu.RUnlock()

	facts := make([]Fact, 0, len(um.facts))
	for _, fact := range um.facts {
		facts = append(facts, fact)
	}
	return facts
}

// FactByKey retrieves a specific fact by key
func (m *Manager) FactByKey(userID, key string) (Fact, bool) {
	um, ok := m.lookup(userID)
	if !ok {
		return Fact{}, false
	}

	um.mu.RLock()
	defer um.mu.RUnlock()

	fact, ok := um.facts[key]
	return fact, ok
}

// ClearHistory drops the user's short-term memory, keeping facts
func (m *Manager) ClearHistory(userID string) {
	um, ok := m.lookup(userID)
	if !ok {
		return
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	um.shortTerm = make([]Message, 0, m.shortTermSize)
}

// RemoveFact removes a specific fact from long-term memory
func (m *Manager) RemoveFact(userID, key string) {
	um, ok := m.lookup(userID)
	if !ok {
		return
	}

	um.mu.Lock()
	defer um.mu.Unlock()

	delete(um.facts, key)
}
