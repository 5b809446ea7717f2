package memory

import (
	"sync"

	"github.com/yndnr/userdir-go/pkg/cmap"
)

// idSet is a concurrent-safe set of session IDs.
type idSet struct {
	mu    sync.RWMutex
	items map[string]struct{}
}

func newIDSet() *idSet {
	return &idSet{items: make(map[string]struct{})}
}

func (s *idSet) add(id string) {
	s.mu.Lock()
	s.items[id] = struct{}{}
	s.mu.Unlock()
}

func (s *idSet) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	return out
}

func (s *idSet) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IdentityIndex maps an identity to the IDs of the sessions minted for it.
// Entries are never removed.
type IdentityIndex struct {
	index *cmap.Map[string, *idSet]
}

// NewIdentityIndex creates an empty index.
func NewIdentityIndex() *IdentityIndex {
	return &IdentityIndex{index: cmap.New[string, *idSet]()}
}

// Add records sessionID under identity.
func (i *IdentityIndex) Add(identity, sessionID string) {
	set, _ := i.index.GetOrSet(identity, newIDSet())
	set.add(sessionID)
}

// Get returns the session IDs recorded for identity.
func (i *IdentityIndex) Get(identity string) []string {
	set, ok := i.index.Get(identity)
	if !ok {
		return nil
	}
	return set.list()
}

// Count returns the number of sessions recorded for identity.
func (i *IdentityIndex) Count(identity string) int {
	set, ok := i.index.Get(identity)
	if !ok {
		return 0
	}
	return set.len()
}

// Len returns the number of identities.
func (i *IdentityIndex) Len() int {
	return i.index.Count()
}
