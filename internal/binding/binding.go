// Package binding owns the token⇄station binding — the only mutable
// mapping the Backend writes outside of proposal state — and keeps its
// forward and reverse maps mutually consistent (spec §3 invariant 1).
package binding

import (
	"sync"

	"github.com/lpdao/govcore/internal/identity"
)

// Store holds the TokenId→StationId map and its reverse, updated together
// under a single lock exactly as spec requires: "the forward/reverse
// binding pair is updated together inside a single synchronous block."
// Grounded on core/blockchain.go's paired-lock discipline, simplified here
// to one lock covering both maps since they are always touched together.
type Store struct {
	mu      sync.RWMutex
	forward map[identity.Principal]identity.Principal // token -> station
	reverse map[identity.Principal]identity.Principal // station -> token
}

// NewStore builds an empty binding store.
func NewStore() *Store {
	return &Store{
		forward: make(map[identity.Principal]identity.Principal),
		reverse: make(map[identity.Principal]identity.Principal),
	}
}

// StationFor returns the station bound to a token, if any.
func (s *Store) StationFor(token identity.Principal) (identity.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	station, ok := s.forward[token]
	return station, ok
}

// TokenFor returns the token bound to a station, if any.
func (s *Store) TokenFor(station identity.Principal) (identity.Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.reverse[station]
	return token, ok
}

// Binding is a single (token, station) pair, used by List.
type Binding struct {
	Token   identity.Principal
	Station identity.Principal
}

// List returns every bound pair.
func (s *Store) List() []Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Binding, 0, len(s.forward))
	for token, station := range s.forward {
		out = append(out, Binding{Token: token, Station: station})
	}
	return out
}

// ErrConflict is returned when binding a token or station that is already
// bound to a different counterpart — no station may back two tokens, and
// no token may point at two stations.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string { return e.Message }

// Bind establishes a new (token, station) pair, enforcing invariant 1
// atomically: it fails if either side is already bound to something else.
func (s *Store) Bind(token, station identity.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingStation, ok := s.forward[token]; ok && !existingStation.Equal(station) {
		return &ErrConflict{Message: "token already bound to a different station"}
	}
	if existingToken, ok := s.reverse[station]; ok && !existingToken.Equal(token) {
		return &ErrConflict{Message: "station already bound to a different token"}
	}

	s.forward[token] = station
	s.reverse[station] = token
	return nil
}

// Unbind removes a (token, station) pair from both maps atomically.
// Bindings are never silently rewritten (spec §3 lifecycle); only this
// explicit, paired removal clears one.
func (s *Store) Unbind(token identity.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	station, ok := s.forward[token]
	if !ok {
		return
	}
	delete(s.forward, token)
	delete(s.reverse, station)
}
