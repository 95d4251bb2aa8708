package admin

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/lpdao/govcore/internal/events"
)

// upgrader mirrors the teacher's api/dao_server.go upgrader: no origin
// check, since this is an internal dashboard feed, not a public endpoint.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents upgrades to a WebSocket and streams proposal lifecycle
// events until the client disconnects, grounded on
// api/dao_server.go's handleWebSocket.
func handleEvents(bus *events.Bus) echo.HandlerFunc {
	return func(c echo.Context) error {
		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}

		bus.Register(conn)
		defer bus.Unregister(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		return nil
	}
}
