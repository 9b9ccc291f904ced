package connection

import (
	"sync"

	"github.com/yourusername/snake-duel/internal/protocol"
)

// State caches what the server last told this client
type State struct {
	currentState *protocol.GameState
	room         string
	members      []protocol.Member
	winner       int
	mu           sync.RWMutex
}

// NewState creates a new game state manager
func NewState() *State {
	return &State{
		currentState: &protocol.GameState{},
	}
}

// UpdateState replaces the game snapshot
func (s *State) UpdateState(state *protocol.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentState = state
	if state.Active {
		s.winner = 0
	}
}

// GetState returns the latest game snapshot. Callers must not modify it.
func (s *State) GetState() *protocol.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentState
}

func (s *State) setRoom(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = room
	if room == "" {
		s.members = nil
		s.winner = 0
		s.currentState = &protocol.GameState{}
	}
}

// Room returns the room this client sits in, or ""
func (s *State) Room() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room
}

func (s *State) setMembers(members []protocol.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = members
}

// Members returns the room's members in slot order
func (s *State) Members() []protocol.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]protocol.Member(nil), s.members...)
}

func (s *State) setWinner(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.winner = slot
}

// Winner returns the slot that won the last game, or 0
func (s *State) Winner() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.winner
}

// WinnerName resolves the winning slot against the member list
func (s *State) WinnerName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.winner < 1 || s.winner > len(s.members) {
		return ""
	}
	return s.members[s.winner-1].Name
}

// ClearWinner drops the game-over result once the player has acted on it
func (s *State) ClearWinner() {
	s.setWinner(0)
}
