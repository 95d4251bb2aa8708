package events

import (
	"github.com/go-kit/log"
	"github.com/gorilla/websocket"

	"github.com/lpdao/govcore/internal/proposal"
	"testing"
)

func TestBus_ImplementsProposalSink(t *testing.T) {
	var _ proposal.Sink = (*Bus)(nil)
}

func TestPublish_DropsWhenBufferFull(t *testing.T) {
	// Build a Bus without starting its run loop, so the broadcast channel
	// is never drained and Publish's full-buffer branch is exercised.
	b := &Bus{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan proposal.Event, 2),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     log.NewNopLogger(),
	}

	b.Publish(proposal.Event{Kind: proposal.EventProposalCreated})
	b.Publish(proposal.Event{Kind: proposal.EventProposalCreated})
	// The buffer (capacity 2) is now full; this third publish must return
	// immediately via the select/default branch rather than blocking.
	b.Publish(proposal.Event{Kind: proposal.EventVoteCast})
	if len(b.broadcast) != 2 {
		t.Fatalf("expected the buffer to stay at capacity 2, got %d", len(b.broadcast))
	}
}
