package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/finsolve-tech/finsight/internal/models"
	"github.com/finsolve-tech/finsight/internal/textutil"
)

// memoryKey scopes one conversation buffer.
type memoryKey struct {
	Username string
	Role     models.Role
}

// memoryBuffer is the bounded transcript for one (username, role) pair.
// Each buffer has its own mutex so appends for one key are serialized while
// different keys proceed concurrently.
type memoryBuffer struct {
	mu     sync.Mutex
	turns  []models.ConversationTurn
	tokens int
}

// MemoryService keeps per-(username, role) conversation history, bounded by
// an approximate token budget with oldest-first eviction. Process-local only:
// a restart silently resets all history, which is an accepted limitation.
type MemoryService struct {
	mu      sync.Mutex
	buffers map[memoryKey]*memoryBuffer
	budget  int
}

func NewMemoryService(tokenBudget int) *MemoryService {
	if tokenBudget <= 0 {
		tokenBudget = 1000
	}
	return &MemoryService{
		buffers: make(map[memoryKey]*memoryBuffer),
		budget:  tokenBudget,
	}
}

// get creates the buffer on first use.
func (s *MemoryService) get(username string, role models.Role) *memoryBuffer {
	key := memoryKey{Username: username, Role: role}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, ok := s.buffers[key]
	if !ok {
		buf = &memoryBuffer{}
		s.buffers[key] = buf
	}
	return buf
}

// Append records one query/response turn, then evicts oldest turns while the
// stored token estimate exceeds the budget.
func (s *MemoryService) Append(username string, role models.Role, query, response string) {
	buf := s.get(username, role)
	buf.mu.Lock()
	defer buf.mu.Unlock()

	turn := models.ConversationTurn{Query: query, Response: response}
	buf.turns = append(buf.turns, turn)
	buf.tokens += turnTokens(turn)

	for buf.tokens > s.budget && len(buf.turns) > 0 {
		buf.tokens -= turnTokens(buf.turns[0])
		buf.turns = buf.turns[1:]
	}
}

// Turns returns a copy of the stored turns, oldest first.
func (s *MemoryService) Turns(username string, role models.Role) []models.ConversationTurn {
	buf := s.get(username, role)
	buf.mu.Lock()
	defer buf.mu.Unlock()
	out := make([]models.ConversationTurn, len(buf.turns))
	copy(out, buf.turns)
	return out
}

// Render formats the history for prompt construction, oldest first. Empty
// string when there is no history.
func (s *MemoryService) Render(username string, role models.Role) string {
	turns := s.Turns(username, role)
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", t.Query, t.Response)
	}
	return b.String()
}

// Clear drops the buffer for (username, role). Absence is not an error.
func (s *MemoryService) Clear(username string, role models.Role) {
	key := memoryKey{Username: username, Role: role}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buffers, key)
}

func turnTokens(t models.ConversationTurn) int {
	return textutil.ApproxTokens(t.Query) + textutil.ApproxTokens(t.Response)
}
