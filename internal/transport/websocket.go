// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketPath is where clients connect.
const WebSocketPath = "/ws"

const writeWait = 5 * time.Second

// WebSocketTransport broadcasts every payload as JSON to connected clients.
// The most recent payload is replayed to clients that connect later, so a
// scene host may attach after the schedule was produced.
type WebSocketTransport struct {
	upgrader websocket.Upgrader
	listener net.Listener
	server   *http.Server

	clientsMu sync.Mutex // guards clients, latest and closed
	clients   map[*websocket.Conn]struct{}
	latest    any
	hasLatest bool
	closed    bool
}

// NewWebSocketTransport listens on addr and starts serving WebSocketPath.
func NewWebSocketTransport(addr string) (*WebSocketTransport, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("websocket transport: listening on %s: %w", addr, err)
	}

	wst := &WebSocketTransport{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Scene hosts connect from arbitrary local origins
			},
		},
		listener: ln,
		clients:  make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, wst.handleWebSocket)
	wst.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("WebSocket server listening on %s%s", ln.Addr(), WebSocketPath)
		if err := wst.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("WebSocket server error: %v", err)
		}
	}()

	return wst, nil
}

// Addr returns the bound listen address.
func (wst *WebSocketTransport) Addr() net.Addr {
	return wst.listener.Addr()
}

func (wst *WebSocketTransport) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wst.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("upgrade error: %v", err)
		return
	}

	wst.clientsMu.Lock()
	if wst.closed {
		wst.clientsMu.Unlock()
		conn.Close()
		return
	}
	if wst.hasLatest {
		if err := writeJSON(conn, wst.latest); err != nil {
			wst.clientsMu.Unlock()
			logger.Warnf("replay to %s failed: %v", conn.RemoteAddr(), err)
			conn.Close()
			return
		}
	}
	wst.clients[conn] = struct{}{}
	total := len(wst.clients)
	wst.clientsMu.Unlock()
	logger.Infof("client %s connected, total: %d", conn.RemoteAddr(), total)

	// The read loop only notices disconnects; clients never send payloads.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wst.drop(conn)
				return
			}
		}
	}()
}

func (wst *WebSocketTransport) drop(conn *websocket.Conn) {
	wst.clientsMu.Lock()
	_, ok := wst.clients[conn]
	delete(wst.clients, conn)
	total := len(wst.clients)
	wst.clientsMu.Unlock()

	conn.Close()
	if ok {
		logger.Infof("client %s disconnected, total: %d", conn.RemoteAddr(), total)
	}
}

func writeJSON(conn *websocket.Conn, data any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(data)
}

// Send broadcasts data to all clients and keeps it for late joiners. A client
// that cannot be written to is disconnected; Send itself only fails once the
// transport is closed.
func (wst *WebSocketTransport) Send(data any) error {
	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()

	if wst.closed {
		return ErrClosed
	}
	wst.latest, wst.hasLatest = data, true

	for client := range wst.clients {
		if err := writeJSON(client, data); err != nil {
			logger.Warnf("error sending to %s: %v", client.RemoteAddr(), err)
			client.Close()
			delete(wst.clients, client)
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (wst *WebSocketTransport) Clients() int {
	wst.clientsMu.Lock()
	defer wst.clientsMu.Unlock()
	return len(wst.clients)
}

// Close disconnects all clients and shuts down the server.
func (wst *WebSocketTransport) Close() error {
	wst.clientsMu.Lock()
	if wst.closed {
		wst.clientsMu.Unlock()
		return nil
	}
	wst.closed = true
	for client := range wst.clients {
		client.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "transport closed"),
			time.Now().Add(time.Second))
		client.Close()
	}
	clear(wst.clients)
	wst.clientsMu.Unlock()

	logger.Infof("closing WebSocket server")
	return wst.server.Close()
}

var _ Transport = (*WebSocketTransport)(nil)
