package server

import (
	"sync"
)

// NameBook records the display name each connection announced in its last
// room request
type NameBook struct {
	names map[string]string // connection ID -> display name
	mu    sync.RWMutex
}

// NewNameBook creates an empty name book
func NewNameBook() *NameBook {
	return &NameBook{
		names: make(map[string]string),
	}
}

// Set records name for a connection, replacing any earlier one
func (nb *NameBook) Set(connID, name string) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.names[connID] = name
}

// Get returns the display name of a connection, or "" if none was recorded
func (nb *NameBook) Get(connID string) string {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.names[connID]
}

// Delete erases the record for a connection
func (nb *NameBook) Delete(connID string) {
	nb.mu.Lock()
	defer nb.mu.Unlock()
	delete(nb.names, connID)
}

// Len returns the number of recorded names
func (nb *NameBook) Len() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return len(nb.names)
}
