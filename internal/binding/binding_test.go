package binding

import (
	"testing"

	"github.com/lpdao/govcore/internal/identity"
)

func p(b byte) identity.Principal { return identity.New([]byte{b}) }

func TestBind_ForwardReverseConsistency(t *testing.T) {
	s := NewStore()
	token, station := p(0x01), p(0x02)

	if err := s.Bind(token, station); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gotStation, ok := s.StationFor(token)
	if !ok || !gotStation.Equal(station) {
		t.Fatalf("expected forward lookup to resolve station")
	}
	gotToken, ok := s.TokenFor(station)
	if !ok || !gotToken.Equal(token) {
		t.Fatalf("expected reverse lookup to resolve token")
	}
}

func TestBind_RejectsTokenDoubleBinding(t *testing.T) {
	s := NewStore()
	token, station1, station2 := p(0x01), p(0x02), p(0x03)

	if err := s.Bind(token, station1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Bind(token, station2)
	if _, ok := err.(*ErrConflict); !ok {
		t.Fatalf("expected *ErrConflict, got %v", err)
	}
}

func TestBind_RejectsStationDoubleBinding(t *testing.T) {
	s := NewStore()
	token1, token2, station := p(0x01), p(0x02), p(0x03)

	if err := s.Bind(token1, station); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Bind(token2, station)
	if _, ok := err.(*ErrConflict); !ok {
		t.Fatalf("expected *ErrConflict, got %v", err)
	}
}

func TestBind_IdempotentForSamePair(t *testing.T) {
	s := NewStore()
	token, station := p(0x01), p(0x02)

	if err := s.Bind(token, station); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Bind(token, station); err != nil {
		t.Fatalf("expected re-binding the same pair to be a no-op, got %v", err)
	}
}

func TestUnbind_RemovesBothSides(t *testing.T) {
	s := NewStore()
	token, station := p(0x01), p(0x02)
	if err := s.Bind(token, station); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Unbind(token)

	if _, ok := s.StationFor(token); ok {
		t.Fatalf("expected forward binding removed")
	}
	if _, ok := s.TokenFor(station); ok {
		t.Fatalf("expected reverse binding removed")
	}
}

func TestUnbind_UnknownTokenIsNoop(t *testing.T) {
	s := NewStore()
	s.Unbind(p(0x99))
	if len(s.List()) != 0 {
		t.Fatalf("expected store to remain empty")
	}
}

func TestList_ReturnsAllPairs(t *testing.T) {
	s := NewStore()
	if err := s.Bind(p(0x01), p(0x11)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Bind(p(0x02), p(0x12)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(list))
	}
}
