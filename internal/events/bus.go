// Package events broadcasts proposal lifecycle transitions to connected
// dashboards over WebSocket. Grounded directly on
// api/dao_server.go's EventBus (register/unregister/broadcast channels
// over a map[*websocket.Conn]bool, run in its own goroutine) — a
// supplement beyond the distilled spec, since IC canisters cannot push to
// clients but a Go service can, and the teacher already builds exactly
// this machinery for its own proposal/vote/treasury events.
package events

import (
	"encoding/json"

	"github.com/go-kit/log"
	"github.com/gorilla/websocket"

	"github.com/lpdao/govcore/internal/obslog"
	"github.com/lpdao/govcore/internal/proposal"
)

// Bus is a running event broadcaster. It implements proposal.Sink, so a
// Store can publish into it directly.
type Bus struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan proposal.Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	logger     log.Logger
}

// NewBus builds a Bus and starts its run loop in a background goroutine.
func NewBus(logger log.Logger) *Bus {
	b := &Bus{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan proposal.Event, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
	go b.run()
	return b
}

// Register adds a newly upgraded connection to the broadcast set.
func (b *Bus) Register(conn *websocket.Conn) {
	b.register <- conn
}

// Unregister removes a connection, typically from its handler's deferred
// cleanup once the read loop returns.
func (b *Bus) Unregister(conn *websocket.Conn) {
	b.unregister <- conn
}

// Publish implements proposal.Sink. It never blocks the proposal store's
// critical section for long: the channel is buffered, and a full buffer
// drops the event with a warning rather than stalling the caller.
func (b *Bus) Publish(e proposal.Event) {
	select {
	case b.broadcast <- e:
	default:
		obslog.Warn(b.logger, "event bus buffer full, dropping event", "kind", e.Kind)
	}
}

func (b *Bus) run() {
	for {
		select {
		case conn := <-b.register:
			b.clients[conn] = true

		case conn := <-b.unregister:
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
			}

		case event := <-b.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				obslog.Warn(b.logger, "failed to encode event", "err", err)
				continue
			}
			for conn := range b.clients {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					delete(b.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

var _ proposal.Sink = (*Bus)(nil)
